package navstack

import "github.com/llehouerou/reel/internal/playqueue"

// Stack is a LIFO of visited items, most recent on top.
// It is owned by a single controller and is not safe for concurrent use.
type Stack struct {
	items []*Item // items[len-1] is the top
}

// New creates an empty stack.
func New() *Stack {
	return &Stack{items: make([]*Item, 0)}
}

// Push puts item on top unless the top already points at the same
// service id and url.
// Returns false when the push was suppressed.
func (s *Stack) Push(item *Item) bool {
	if top := s.Peek(); top != nil && top.Same(item.serviceID, item.url) {
		return false
	}
	s.items = append(s.items, item)
	return true
}

// Pop removes the top item. Does nothing on an empty stack.
func (s *Stack) Pop() {
	if len(s.items) == 0 {
		return
	}
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
}

// Peek returns the top item, or nil if the stack is empty.
func (s *Stack) Peek() *Item {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

// Len returns the number of items.
func (s *Stack) Len() int {
	return len(s.items)
}

// IsEmpty returns true if the stack has no items.
func (s *Stack) IsEmpty() bool {
	return len(s.items) == 0
}

// FindByQueue returns the most recent item whose cached queue is
// stream-equal to q, or nil.
func (s *Stack) FindByQueue(q *playqueue.Queue) *Item {
	for i := len(s.items) - 1; i >= 0; i-- {
		if playqueue.StreamEqual(s.items[i].queue, q) {
			return s.items[i]
		}
	}
	return nil
}

// ReplaceQueue points every item holding old at next and returns how many
// items changed. Items are matched by queue object, not by streams.
func (s *Stack) ReplaceQueue(old, next *playqueue.Queue) int {
	if old == nil {
		return 0
	}
	n := 0
	for _, item := range s.items {
		if item.queue == old {
			item.queue = next
			n++
		}
	}
	return n
}

// Clear drops all items.
func (s *Stack) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// Items returns the items from top to bottom.
func (s *Stack) Items() []*Item {
	result := make([]*Item, len(s.items))
	for i, item := range s.items {
		result[len(s.items)-1-i] = item
	}
	return result
}
