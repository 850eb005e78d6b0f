package navstack

import "github.com/llehouerou/reel/internal/playqueue"

// Result describes what Reconcile did to the stack.
type Result int

const (
	Unchanged Result = iota
	Pushed
	Reattached
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Unchanged:
		return "Unchanged"
	case Pushed:
		return "Pushed"
	case Reattached:
		return "Reattached"
	default:
		return "Unknown"
	}
}

// Reconcile updates the stack after the engine reported queue.
//
// A queue that is not stream-equal to the top entry's queue is new
// navigation: an item built from its current stream is pushed. Otherwise the
// engine rebuilt a queue object with the same content, and the matching entry
// is pointed at the new object so resume tracking keeps working.
func Reconcile(s *Stack, queue *playqueue.Queue) Result {
	current := queue.Item()
	if current == nil {
		return Unchanged
	}

	if top := s.Peek(); top != nil && !playqueue.StreamEqual(top.queue, queue) {
		if s.Push(NewItem(current.ServiceID, current.URL, current.Title, queue)) {
			return Pushed
		}
		// Same stream on top under a new queue: keep one entry, track the new queue.
		top.queue = queue
		return Reattached
	}

	if item := s.FindByQueue(queue); item != nil {
		if item.queue != queue {
			item.queue = queue
			return Reattached
		}
	}
	return Unchanged
}
