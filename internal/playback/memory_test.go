package playback

import (
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/playqueue"
)

const waitTimeout = 2 * time.Second

func newTestEngine(t *testing.T) (*Memory, *extractor.Catalog) {
	t.Helper()
	cat := extractor.NewCatalog()
	for _, u := range []string{"https://example.com/a", "https://example.com/b"} {
		cat.AddStream(&extractor.StreamInfo{URL: u, Name: "name " + u})
	}
	m := New(cat)
	t.Cleanup(func() { _ = m.Close() })
	return m, cat
}

func testQueue() *playqueue.Queue {
	return playqueue.New([]playqueue.Item{
		{URL: "https://example.com/a"},
		{URL: "https://example.com/b"},
	}, 0)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{State(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestMemory_PlayEmitsQueueAndMetadata(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	m, _ := newTestEngine(t)
	sub := m.Subscribe()
	q := testQueue()

	require.NoError(t, m.Play(q))
	assert.True(t, m.IsPlaying())
	assert.True(t, m.Connected())
	assert.Same(t, q, m.Queue())

	select {
	case e := <-sub.QueueUpdated:
		assert.Same(t, q, e.Queue)
	case <-time.After(waitTimeout):
		t.Fatal("no QueueUpdated event")
	}

	select {
	case e := <-sub.MetadataChanged:
		assert.Equal(t, "https://example.com/a", e.Info.URL)
		assert.Same(t, q, e.Queue)
	case <-time.After(waitTimeout):
		t.Fatal("no MetadataChanged event")
	}

	require.NoError(t, m.Close())
}

func TestMemory_PlayRejectsEmptyQueue(t *testing.T) {
	m, _ := newTestEngine(t)
	assert.Error(t, m.Play(nil))
	assert.Error(t, m.Play(playqueue.New(nil, 0)))
	assert.True(t, m.IsStopped())
}

func TestMemory_PauseResume(t *testing.T) {
	m, _ := newTestEngine(t)
	require.NoError(t, m.Play(testQueue()))

	m.Pause()
	assert.Equal(t, StatePaused, m.State())
	m.Pause()
	assert.Equal(t, StatePaused, m.State())
	m.Resume()
	assert.Equal(t, StatePlaying, m.State())
}

func TestMemory_StepBack(t *testing.T) {
	m, _ := newTestEngine(t)
	q := testQueue()
	require.NoError(t, m.Play(q))

	assert.False(t, m.StepBack(), "fresh queue has no history")
	require.True(t, m.Advance())
	assert.Equal(t, 1, q.Index())
	assert.True(t, m.StepBack())
	assert.Equal(t, 0, q.Index())
}

func TestMemory_StopDisposesQueue(t *testing.T) {
	m, _ := newTestEngine(t)
	sub := m.Subscribe()
	q := testQueue()
	require.NoError(t, m.Play(q))

	m.Stop()
	assert.True(t, m.IsStopped())
	assert.Nil(t, m.Queue())
	assert.True(t, q.Disposed())
	assert.False(t, m.StepBack())

	var last ConnectionChange
	for {
		select {
		case last = <-sub.Connection:
			continue
		default:
		}
		break
	}
	assert.False(t, last.Connected)
}

func TestMemory_ReconnectReplacesQueueObject(t *testing.T) {
	m, _ := newTestEngine(t)
	sub := m.Subscribe()
	q := testQueue()
	require.NoError(t, m.Play(q))
	<-sub.QueueUpdated

	m.Reconnect()

	select {
	case e := <-sub.QueueUpdated:
		assert.NotSame(t, q, e.Queue)
		assert.True(t, playqueue.StreamEqual(q, e.Queue))
		assert.Same(t, e.Queue, m.Queue())
	case <-time.After(waitTimeout):
		t.Fatal("no QueueUpdated after reconnect")
	}
	assert.True(t, q.Disposed())
}

func TestMemory_ResolveDropsItemsAlreadyLeft(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cat := extractor.NewCatalog()
		for _, u := range []string{"https://example.com/a", "https://example.com/b"} {
			cat.AddStream(&extractor.StreamInfo{URL: u, Name: "name " + u})
		}
		cat.SetDelay(time.Second)
		m := New(cat)
		sub := m.Subscribe()
		q := testQueue()

		require.NoError(t, m.Play(q))
		require.True(t, m.Advance())

		time.Sleep(2 * time.Second)
		synctest.Wait()

		var urls []string
		for {
			select {
			case e := <-sub.MetadataChanged:
				urls = append(urls, e.Info.URL)
				continue
			default:
			}
			break
		}
		assert.Equal(t, []string{"https://example.com/b"}, urls)
		require.NoError(t, m.Close())
	})
}

func TestMemory_ResolveDroppedAfterStop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cat := extractor.NewCatalog()
		cat.AddStream(&extractor.StreamInfo{URL: "https://example.com/a"})
		cat.SetDelay(time.Second)
		m := New(cat)
		sub := m.Subscribe()

		require.NoError(t, m.Play(testQueue()))
		m.Stop()

		time.Sleep(2 * time.Second)
		synctest.Wait()

		select {
		case e := <-sub.MetadataChanged:
			t.Errorf("unexpected MetadataChanged for %s", e.Info.URL)
		default:
		}
		require.NoError(t, m.Close())
	})
}

func TestMemory_ResolveFailureEmitsError(t *testing.T) {
	m, cat := newTestEngine(t)
	cat.Fail(0, "https://example.com/a", extractor.ErrContentNotAvailable)
	sub := m.Subscribe()

	require.NoError(t, m.Play(testQueue()))

	select {
	case e := <-sub.Error:
		assert.Equal(t, "resolve", e.Operation)
		assert.True(t, errors.Is(e.Err, extractor.ErrContentNotAvailable))
	case <-time.After(waitTimeout):
		t.Fatal("no Error event")
	}
}

func TestMemory_Fail(t *testing.T) {
	m, _ := newTestEngine(t)
	sub := m.Subscribe()
	require.NoError(t, m.Play(testQueue()))

	m.Fail(errors.New("decoder"), false)

	e := <-sub.Error
	assert.Equal(t, "play", e.Operation)
	assert.Equal(t, "https://example.com/a", e.URL)
	assert.False(t, e.Recoverable)
}

func TestMemory_CloseSignalsDone(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	m := New(extractor.NewCatalog())
	sub := m.Subscribe()
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	select {
	case <-sub.Done:
	case <-time.After(waitTimeout):
		t.Fatal("Done not closed")
	}
	assert.ErrorIs(t, m.Play(testQueue()), ErrClosed)
}
