package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged    <-chan StateChange
	QueueUpdated    <-chan QueueUpdated
	MetadataChanged <-chan MetadataChanged
	Connection      <-chan ConnectionChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	// Internal write channels
	stateCh    chan StateChange
	queueCh    chan QueueUpdated
	metadataCh chan MetadataChanged
	connCh     chan ConnectionChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		queueCh:    make(chan QueueUpdated, eventBufferSize),
		metadataCh: make(chan MetadataChanged, eventBufferSize),
		connCh:     make(chan ConnectionChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.QueueUpdated = s.queueCh
	s.MetadataChanged = s.metadataCh
	s.Connection = s.connCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// Sends never block; events are dropped when a buffer is full.

func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
	}
}

func (s *Subscription) sendQueue(e QueueUpdated) {
	select {
	case s.queueCh <- e:
	default:
	}
}

func (s *Subscription) sendMetadata(e MetadataChanged) {
	select {
	case s.metadataCh <- e:
	default:
	}
}

func (s *Subscription) sendConnection(e ConnectionChange) {
	select {
	case s.connCh <- e:
	default:
	}
}

func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
