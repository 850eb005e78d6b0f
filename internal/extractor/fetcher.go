package extractor

import "context"

// Fetcher resolves stream and channel metadata.
// Implementations must honor ctx cancellation.
type Fetcher interface {
	FetchStream(ctx context.Context, serviceID int, url string, forceReload bool) (*StreamInfo, error)
	FetchChannel(ctx context.Context, serviceID int, url string, forceReload bool) (*ChannelInfo, error)
}
