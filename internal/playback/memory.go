package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/playqueue"
)

// ErrClosed is returned by operations on a closed engine.
var ErrClosed = errors.New("playback engine closed")

const resolveTimeout = 30 * time.Second

// Verify Memory implements Engine at compile time.
var _ Engine = (*Memory)(nil)

// Memory is an engine that keeps playback state in memory and resolves the
// metadata of the playing item through a Fetcher. It does not decode media.
type Memory struct {
	mu        sync.RWMutex
	fetcher   extractor.Fetcher
	queue     *playqueue.Queue
	state     State
	connected bool

	subs   []*Subscription
	subsMu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// New creates an in-memory engine.
func New(fetcher extractor.Fetcher) *Memory {
	ctx, cancel := context.WithCancel(context.Background())
	return &Memory{
		fetcher: fetcher,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Queue returns the queue being played, or nil.
func (m *Memory) Queue() *playqueue.Queue {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queue
}

// State returns the current playback state.
func (m *Memory) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsPlaying returns true while playing.
func (m *Memory) IsPlaying() bool {
	return m.State() == StatePlaying
}

// IsStopped returns true when nothing is playing or paused.
func (m *Memory) IsStopped() bool {
	return m.State() == StateStopped
}

// Connected reports whether the engine service is connected.
func (m *Memory) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Play replaces the queue and starts playback of its current item.
func (m *Memory) Play(q *playqueue.Queue) error {
	if q == nil || q.Item() == nil {
		return errors.New("play: empty queue")
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	wasConnected := m.connected
	m.connected = true
	m.queue = q
	prev := m.state
	m.state = StatePlaying
	m.mu.Unlock()

	if !wasConnected {
		m.broadcast(func(s *Subscription) { s.sendConnection(ConnectionChange{Connected: true}) })
	}
	m.broadcast(func(s *Subscription) { s.sendQueue(QueueUpdated{Queue: q}) })
	m.emitState(prev, StatePlaying)
	m.resolve(q)
	return nil
}

// Pause pauses playback.
func (m *Memory) Pause() {
	m.setState(StatePaused, StatePlaying)
}

// Resume resumes paused playback.
func (m *Memory) Resume() {
	m.setState(StatePlaying, StatePaused)
}

// setState moves to next when the current state is from.
func (m *Memory) setState(next, from State) {
	m.mu.Lock()
	if m.state != from {
		m.mu.Unlock()
		return
	}
	m.state = next
	m.mu.Unlock()
	m.emitState(from, next)
}

// Stop ends playback, disposes the queue and disconnects the service.
func (m *Memory) Stop() {
	m.mu.Lock()
	prev := m.state
	q := m.queue
	wasConnected := m.connected
	m.queue = nil
	m.state = StateStopped
	m.connected = false
	m.mu.Unlock()

	if q != nil {
		q.Dispose()
	}
	if prev != StateStopped {
		m.emitState(prev, StateStopped)
	}
	if wasConnected {
		m.broadcast(func(s *Subscription) { s.sendConnection(ConnectionChange{Connected: false}) })
	}
}

// StepBack moves to the previously played item of the queue.
func (m *Memory) StepBack() bool {
	m.mu.Lock()
	q := m.queue
	ok := q != nil && q.Previous()
	m.mu.Unlock()

	if ok {
		m.resolve(q)
	}
	return ok
}

// Advance moves to the next item of the queue.
func (m *Memory) Advance() bool {
	m.mu.Lock()
	q := m.queue
	ok := q != nil && q.Next() != nil
	m.mu.Unlock()

	if ok {
		m.resolve(q)
	}
	return ok
}

// Reconnect simulates a service restart: the queue object is rebuilt with the
// same streams and announced again.
func (m *Memory) Reconnect() {
	m.mu.Lock()
	old := m.queue
	if old == nil || m.closed {
		m.mu.Unlock()
		return
	}
	q := old.Clone()
	m.queue = q
	m.mu.Unlock()

	old.Dispose()
	m.broadcast(func(s *Subscription) {
		s.sendConnection(ConnectionChange{Connected: false})
		s.sendConnection(ConnectionChange{Connected: true})
		s.sendQueue(QueueUpdated{Queue: q})
	})
	m.resolve(q)
}

// Fail reports a player error to subscribers.
func (m *Memory) Fail(err error, recoverable bool) {
	url := ""
	if q := m.Queue(); q != nil && q.Item() != nil {
		url = q.Item().URL
	}
	m.broadcast(func(s *Subscription) {
		s.sendError(ErrorEvent{Operation: "play", URL: url, Err: err, Recoverable: recoverable})
	})
}

// resolve fetches the metadata of q's current item and emits MetadataChanged.
func (m *Memory) resolve(q *playqueue.Queue) {
	item := q.Item()
	if item == nil || m.fetcher == nil {
		return
	}
	serviceID, url := item.ServiceID, item.URL

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(m.ctx, resolveTimeout)
		defer cancel()

		info, err := m.fetcher.FetchStream(ctx, serviceID, url, false)
		if !m.stillCurrent(q, serviceID, url) {
			return
		}
		if err != nil {
			if extractor.Classify(err) == extractor.KindCancelled {
				return
			}
			m.broadcast(func(s *Subscription) {
				s.sendError(ErrorEvent{Operation: "resolve", URL: url, Err: err, Recoverable: true})
			})
			return
		}
		m.broadcast(func(s *Subscription) { s.sendMetadata(MetadataChanged{Info: info, Queue: q}) })
	}()
}

// stillCurrent reports whether q is still the engine queue and still points
// at the item a lookup was started for. Lookups run concurrently and may
// finish out of order.
func (m *Memory) stillCurrent(q *playqueue.Queue, serviceID int, url string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.queue != q {
		return false
	}
	item := q.Item()
	return item != nil && item.ServiceID == serviceID && item.URL == url
}

func (m *Memory) emitState(prev, cur State) {
	m.broadcast(func(s *Subscription) { s.sendState(StateChange{Previous: prev, Current: cur}) })
}

func (m *Memory) broadcast(send func(*Subscription)) {
	m.subsMu.RLock()
	defer m.subsMu.RUnlock()
	for _, sub := range m.subs {
		send(sub)
	}
}

// Subscribe creates a new event subscription.
func (m *Memory) Subscribe() *Subscription {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	sub := newSubscription()
	m.subs = append(m.subs, sub)
	return sub
}

// Close cancels pending metadata lookups and closes all subscriptions.
func (m *Memory) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()

	m.subsMu.Lock()
	for _, sub := range m.subs {
		sub.close()
	}
	m.subs = nil
	m.subsMu.Unlock()

	return nil
}
