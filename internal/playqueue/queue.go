// Package playqueue holds the play queue owned by the playback engine.
package playqueue

import "time"

// Queue is an ordered list of items with a current position.
// It is owned and mutated by the playback engine; other components only
// keep references for bookkeeping.
type Queue struct {
	items        []Item
	currentIndex int // -1 if nothing selected
	disposed     bool
	history      *History
}

const historySize = 50

// New creates a queue holding items with index as the current position.
// An out of range index is clamped to the first item.
func New(items []Item, index int) *Queue {
	q := &Queue{
		items:        make([]Item, len(items)),
		currentIndex: -1,
		history:      NewHistory(historySize),
	}
	copy(q.items, items)
	if len(q.items) > 0 {
		if index < 0 || index >= len(q.items) {
			index = 0
		}
		q.currentIndex = index
		q.history.Push(index)
	}
	return q
}

// NewSingle creates a queue with a single item.
func NewSingle(item Item) *Queue {
	return New([]Item{item}, 0)
}

// Item returns the current item, or nil if none.
func (q *Queue) Item() *Item {
	if q == nil || q.disposed {
		return nil
	}
	if q.currentIndex < 0 || q.currentIndex >= len(q.items) {
		return nil
	}
	return &q.items[q.currentIndex]
}

// Index returns the current position (-1 if none).
func (q *Queue) Index() int {
	return q.currentIndex
}

// Len returns the number of items.
func (q *Queue) Len() int {
	return len(q.items)
}

// IsEmpty returns true if the queue has no items.
func (q *Queue) IsEmpty() bool {
	return len(q.items) == 0
}

// Items returns a copy of all items.
func (q *Queue) Items() []Item {
	result := make([]Item, len(q.items))
	copy(result, q.items)
	return result
}

// At returns the item at index, or nil if out of bounds.
func (q *Queue) At(index int) *Item {
	if index < 0 || index >= len(q.items) {
		return nil
	}
	return &q.items[index]
}

// Append adds items to the end of the queue without changing the position.
// The first appended item becomes current when the queue was empty.
func (q *Queue) Append(items ...Item) {
	wasEmpty := len(q.items) == 0
	q.items = append(q.items, items...)
	if wasEmpty && len(q.items) > 0 {
		q.currentIndex = 0
		q.history.Push(0)
	}
}

// Select moves the current position to index.
// Returns the selected item, or nil if index is invalid.
func (q *Queue) Select(index int) *Item {
	if index < 0 || index >= len(q.items) {
		return nil
	}
	if index != q.currentIndex {
		q.history.Push(index)
	}
	q.currentIndex = index
	return q.Item()
}

// HasNext returns true if there's an item after the current one.
func (q *Queue) HasNext() bool {
	return q.currentIndex < len(q.items)-1
}

// Next advances to the next item and returns it.
// Returns nil if there is no next item.
func (q *Queue) Next() *Item {
	if !q.HasNext() {
		return nil
	}
	return q.Select(q.currentIndex + 1)
}

// Previous steps back to the item played before the current one.
// Returns false when there is no such item in the queue history.
func (q *Queue) Previous() bool {
	if q.disposed {
		return false
	}
	index, ok := q.history.Back()
	if !ok || index >= len(q.items) {
		return false
	}
	q.currentIndex = index
	return true
}

// HasPrevious returns true if Previous would succeed.
func (q *Queue) HasPrevious() bool {
	return !q.disposed && q.history.CanGoBack()
}

// Remove deletes the item at index, adjusting the current position.
func (q *Queue) Remove(index int) bool {
	if index < 0 || index >= len(q.items) {
		return false
	}
	q.items = append(q.items[:index], q.items[index+1:]...)
	q.history.Forget(index)

	if q.currentIndex > index {
		q.currentIndex--
	} else if q.currentIndex == index && q.currentIndex >= len(q.items) {
		q.currentIndex = len(q.items) - 1
	}
	return true
}

// SetRecovery records the resume position of the item at index.
func (q *Queue) SetRecovery(index int, pos time.Duration) bool {
	item := q.At(index)
	if item == nil {
		return false
	}
	item.RecoveryPosition = pos
	return true
}

// Dispose marks the queue as torn down. A disposed queue has no current
// item; its content is still readable for stream comparison.
func (q *Queue) Dispose() {
	q.disposed = true
}

// Disposed reports whether Dispose was called.
func (q *Queue) Disposed() bool {
	return q.disposed
}

// Clone returns a fresh queue with the same items and position.
// The engine uses it when it rebuilds its queue object after a reconnect.
func (q *Queue) Clone() *Queue {
	return New(q.items, q.currentIndex)
}

// StreamEqual reports whether a and b hold the same ordered list of streams.
// Object identity, titles, durations and the current position are ignored.
func StreamEqual(a, b *Queue) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if len(a.items) != len(b.items) {
		return false
	}
	for i := range a.items {
		if !a.items[i].SameStream(b.items[i]) {
			return false
		}
	}
	return true
}
