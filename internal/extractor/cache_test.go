package extractor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://example.com/watch?v=a"

func newTestCatalog() *Catalog {
	c := NewCatalog()
	c.AddStream(&StreamInfo{ServiceID: 0, URL: testURL, Name: "A"})
	c.AddChannel(&ChannelInfo{ServiceID: 0, URL: "https://example.com/c/x", Name: "X"})
	return c
}

func TestCache_HitsAfterFirstFetch(t *testing.T) {
	catalog := newTestCatalog()
	cache := NewCache(catalog, time.Minute)
	ctx := context.Background()

	first, err := cache.FetchStream(ctx, 0, testURL, false)
	require.NoError(t, err)
	second, err := cache.FetchStream(ctx, 0, testURL, false)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, catalog.Calls())
	assert.Equal(t, int64(1), cache.Stats().Hits)
}

func TestCache_ForceReloadBypasses(t *testing.T) {
	catalog := newTestCatalog()
	cache := NewCache(catalog, time.Minute)
	ctx := context.Background()

	_, err := cache.FetchStream(ctx, 0, testURL, false)
	require.NoError(t, err)
	_, err = cache.FetchStream(ctx, 0, testURL, true)
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.Calls())
}

func TestCache_Expires(t *testing.T) {
	catalog := newTestCatalog()
	cache := NewCache(catalog, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := cache.FetchStream(ctx, 0, testURL, false)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = cache.FetchStream(ctx, 0, testURL, false)
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.Calls())
}

func TestCache_DoesNotCacheErrors(t *testing.T) {
	catalog := newTestCatalog()
	catalog.Fail(0, testURL, ErrContentNotAvailable)
	cache := NewCache(catalog, time.Minute)
	ctx := context.Background()

	_, err := cache.FetchStream(ctx, 0, testURL, false)
	require.ErrorIs(t, err, ErrContentNotAvailable)
	_, err = cache.FetchStream(ctx, 0, testURL, false)
	require.ErrorIs(t, err, ErrContentNotAvailable)

	assert.Equal(t, 2, catalog.Calls())
}

func TestCache_ChannelAndStreamKeysDiffer(t *testing.T) {
	catalog := newTestCatalog()
	cache := NewCache(catalog, time.Minute)
	ctx := context.Background()

	ch, err := cache.FetchChannel(ctx, 0, "https://example.com/c/x", false)
	require.NoError(t, err)
	assert.Equal(t, "X", ch.Name)

	_, err = cache.FetchStream(ctx, 0, "https://example.com/c/x", false)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCache_CollapsesConcurrentRequests(t *testing.T) {
	catalog := newTestCatalog()
	catalog.SetDelay(50 * time.Millisecond)
	cache := NewCache(catalog, time.Minute)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.FetchStream(context.Background(), 0, testURL, false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, catalog.Calls())
}

func TestCache_ForceReloadDoesNotJoinPlainFetch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		catalog := newTestCatalog()
		catalog.SetDelay(time.Second)
		cache := NewCache(catalog, time.Minute)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, err := cache.FetchStream(context.Background(), 0, testURL, false)
			assert.NoError(t, err)
		}()
		synctest.Wait()
		require.Equal(t, 1, catalog.Calls())

		_, err := cache.FetchStream(context.Background(), 0, testURL, true)
		require.NoError(t, err)
		<-done

		assert.Equal(t, 2, catalog.Calls())
		assert.Zero(t, cache.Stats().Shared)
	})
}

func TestCache_SharedCallTimesOut(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		catalog := newTestCatalog()
		catalog.SetDelay(time.Hour)
		cache := NewCache(catalog, time.Minute)
		cache.timeout = 5 * time.Second

		start := time.Now()
		_, err := cache.FetchStream(context.Background(), 0, testURL, false)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 5*time.Second, time.Since(start))
	})
}

func TestCache_CallerCancellation(t *testing.T) {
	catalog := newTestCatalog()
	catalog.SetDelay(time.Second)
	cache := NewCache(catalog, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.FetchStream(ctx, 0, testURL, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCache_Invalidate(t *testing.T) {
	catalog := newTestCatalog()
	cache := NewCache(catalog, time.Minute)
	ctx := context.Background()

	_, err := cache.FetchStream(ctx, 0, testURL, false)
	require.NoError(t, err)
	cache.Invalidate(0, testURL)
	_, err = cache.FetchStream(ctx, 0, testURL, false)
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.Calls())
}
