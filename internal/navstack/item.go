// Package navstack keeps the history of streams visited on a detail screen
// and reconciles it with play queue updates from the playback engine.
package navstack

import "github.com/llehouerou/reel/internal/playqueue"

// Item is one navigation step. The service id is fixed at construction;
// url and title may be corrected once canonical metadata arrives.
type Item struct {
	serviceID int
	url       string
	title     string
	queue     *playqueue.Queue // not owned; the engine controls its lifecycle
}

// NewItem creates a stack item.
func NewItem(serviceID int, url, title string, queue *playqueue.Queue) *Item {
	return &Item{
		serviceID: serviceID,
		url:       url,
		title:     title,
		queue:     queue,
	}
}

// ServiceID returns the streaming service id.
func (i *Item) ServiceID() int { return i.serviceID }

// URL returns the stream url.
func (i *Item) URL() string { return i.url }

// Title returns the display title.
func (i *Item) Title() string { return i.title }

// Queue returns the cached play queue reference (may be nil).
func (i *Item) Queue() *playqueue.Queue { return i.queue }

// SetURL corrects the url, e.g. after redirect resolution.
func (i *Item) SetURL(url string) { i.url = url }

// SetTitle updates the display title.
func (i *Item) SetTitle(title string) { i.title = title }

// SetQueue replaces the cached queue reference.
func (i *Item) SetQueue(q *playqueue.Queue) { i.queue = q }

// Same reports whether the item points at serviceID and url.
func (i *Item) Same(serviceID int, url string) bool {
	return i.serviceID == serviceID && i.url == url
}
