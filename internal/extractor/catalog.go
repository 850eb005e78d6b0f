package extractor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Catalog is an offline Fetcher serving metadata from memory,
// typically loaded from a TOML catalog file.
type Catalog struct {
	mu       sync.RWMutex
	streams  map[string]*StreamInfo
	channels map[string]*ChannelInfo
	failures map[string]error
	delay    time.Duration
	calls    int
}

// Verify Catalog implements Fetcher at compile time.
var _ Fetcher = (*Catalog)(nil)

type catalogFile struct {
	DelayMillis int            `koanf:"delay_ms"`
	Streams     []streamEntry  `koanf:"streams"`
	Channels    []channelEntry `koanf:"channels"`
}

type streamEntry struct {
	ServiceID       int      `koanf:"service_id"`
	URL             string   `koanf:"url"`
	CanonicalURL    string   `koanf:"canonical_url"`
	Name            string   `koanf:"name"`
	Uploader        string   `koanf:"uploader"`
	UploaderURL     string   `koanf:"uploader_url"`
	SubChannel      string   `koanf:"sub_channel"`
	Description     string   `koanf:"description"`
	Type            string   `koanf:"type"` // "video", "audio", "live", "audio_live"
	DurationSeconds int      `koanf:"duration_seconds"`
	UploadDate      string   `koanf:"upload_date"` // YYYY-MM-DD
	ViewCount       *int64   `koanf:"view_count"`
	LikeCount       *int64   `koanf:"like_count"`
	DislikeCount    *int64   `koanf:"dislike_count"`
	AgeLimit        int      `koanf:"age_limit"`
	Comments        bool     `koanf:"comments"`
	Tags            []string `koanf:"tags"`
	Related         []string `koanf:"related"` // urls of other catalog streams
	Error           string   `koanf:"error"`   // "not_available", "unsupported", "extraction", "decryption"
}

type channelEntry struct {
	ServiceID       int      `koanf:"service_id"`
	URL             string   `koanf:"url"`
	Name            string   `koanf:"name"`
	Description     string   `koanf:"description"`
	SubscriberCount *int64   `koanf:"subscriber_count"`
	Tabs            []string `koanf:"tabs"`
	Error           string   `koanf:"error"`
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		streams:  make(map[string]*StreamInfo),
		channels: make(map[string]*ChannelInfo),
		failures: make(map[string]error),
	}
}

// LoadCatalog reads a TOML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}

	var f catalogFile
	if err := k.Unmarshal("", &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	c := NewCatalog()
	c.delay = time.Duration(f.DelayMillis) * time.Millisecond

	for _, e := range f.Streams {
		key := catalogKey(e.ServiceID, e.URL)
		if e.Error != "" {
			c.failures[key] = entryError(e.URL, e.Error)
			continue
		}
		c.streams[key] = e.toInfo()
	}
	// Related items need every stream loaded first.
	for _, e := range f.Streams {
		info, ok := c.streams[catalogKey(e.ServiceID, e.URL)]
		if !ok {
			continue
		}
		for _, u := range e.Related {
			related := RelatedItem{ServiceID: e.ServiceID, URL: u, Title: u}
			if r, ok := c.streams[catalogKey(e.ServiceID, u)]; ok {
				related.Title = r.Name
				related.Uploader = r.Uploader
				related.Duration = r.Duration
			}
			info.Related = append(info.Related, related)
		}
	}

	for _, e := range f.Channels {
		key := catalogKey(e.ServiceID, e.URL)
		if e.Error != "" {
			c.failures[key] = entryError(e.URL, e.Error)
			continue
		}
		c.channels[key] = &ChannelInfo{
			ServiceID:       e.ServiceID,
			URL:             e.URL,
			OriginalURL:     e.URL,
			Name:            e.Name,
			Description:     e.Description,
			SubscriberCount: countOrUnknown(e.SubscriberCount),
			Tabs:            e.Tabs,
		}
	}

	return c, nil
}

func (e streamEntry) toInfo() *StreamInfo {
	canonical := e.CanonicalURL
	if canonical == "" {
		canonical = e.URL
	}
	info := &StreamInfo{
		ServiceID:        e.ServiceID,
		URL:              canonical,
		OriginalURL:      e.URL,
		Name:             e.Name,
		Uploader:         e.Uploader,
		UploaderURL:      e.UploaderURL,
		SubChannel:       e.SubChannel,
		Description:      e.Description,
		Type:             parseStreamType(e.Type),
		Duration:         time.Duration(e.DurationSeconds) * time.Second,
		ViewCount:        countOrUnknown(e.ViewCount),
		LikeCount:        countOrUnknown(e.LikeCount),
		DislikeCount:     countOrUnknown(e.DislikeCount),
		AgeLimit:         e.AgeLimit,
		SupportsComments: e.Comments,
		Tags:             e.Tags,
	}
	if e.UploadDate != "" {
		if t, err := time.Parse(time.DateOnly, e.UploadDate); err == nil {
			info.UploadDate = t
		}
	}
	return info
}

func parseStreamType(s string) StreamType {
	switch s {
	case "audio":
		return StreamAudio
	case "live":
		return StreamLive
	case "audio_live":
		return StreamAudioLive
	default:
		return StreamVideo
	}
}

func countOrUnknown(n *int64) int64 {
	if n == nil {
		return -1
	}
	return *n
}

func entryError(url, name string) error {
	switch name {
	case "not_available":
		return ErrContentNotAvailable
	case "unsupported":
		return ErrUnsupportedContent
	case "decryption":
		return &ExtractionError{URL: url, Err: ErrDecryption}
	default:
		return &ExtractionError{URL: url, Err: errors.New(name)}
	}
}

// AddStream registers info under its service id and original url
// (or url when no original url is set).
func (c *Catalog) AddStream(info *StreamInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := info.OriginalURL
	if u == "" {
		u = info.URL
	}
	c.streams[catalogKey(info.ServiceID, u)] = info
}

// AddChannel registers channel info under its service id and url.
func (c *Catalog) AddChannel(info *ChannelInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels[catalogKey(info.ServiceID, info.URL)] = info
}

// Fail makes every fetch of url return err.
func (c *Catalog) Fail(serviceID int, url string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[catalogKey(serviceID, url)] = err
}

// SetDelay sets the simulated latency of each fetch.
func (c *Catalog) SetDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = d
}

// Calls returns the number of fetches served.
func (c *Catalog) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls
}

// Len returns the number of streams in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.streams)
}

// FetchStream implements Fetcher.
func (c *Catalog) FetchStream(ctx context.Context, serviceID int, url string, _ bool) (*StreamInfo, error) {
	key := catalogKey(serviceID, url)
	if err := c.wait(ctx, key); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.streams[key]
	if !ok {
		return nil, fmt.Errorf("stream %s: %w", url, ErrNotFound)
	}
	return info, nil
}

// FetchChannel implements Fetcher.
func (c *Catalog) FetchChannel(ctx context.Context, serviceID int, url string, _ bool) (*ChannelInfo, error) {
	key := catalogKey(serviceID, url)
	if err := c.wait(ctx, key); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.channels[key]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", url, ErrNotFound)
	}
	return info, nil
}

// wait applies the simulated latency and returns the configured failure, if any.
func (c *Catalog) wait(ctx context.Context, key string) error {
	c.mu.Lock()
	c.calls++
	delay := c.delay
	failure := c.failures[key]
	c.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	return failure
}

func catalogKey(serviceID int, url string) string {
	return fmt.Sprintf("%d:%s", serviceID, url)
}
