package navstack

import "github.com/llehouerou/reel/internal/playqueue"

// Entry is a serializable copy of a stack item.
type Entry struct {
	ServiceID  int              `json:"service_id"`
	URL        string           `json:"url"`
	Title      string           `json:"title"`
	Items      []playqueue.Item `json:"items,omitempty"`
	QueueIndex int              `json:"queue_index"`
}

// Snapshot returns the stack content from bottom to top.
func (s *Stack) Snapshot() []Entry {
	entries := make([]Entry, len(s.items))
	for i, item := range s.items {
		e := Entry{
			ServiceID:  item.serviceID,
			URL:        item.url,
			Title:      item.title,
			QueueIndex: -1,
		}
		if item.queue != nil {
			e.Items = item.queue.Items()
			e.QueueIndex = item.queue.Index()
		}
		entries[i] = e
	}
	return entries
}

// Restore replaces the stack content with entries (bottom to top).
// Each entry gets its own queue rebuilt from the saved items.
func (s *Stack) Restore(entries []Entry) {
	s.Clear()
	for _, e := range entries {
		var q *playqueue.Queue
		if len(e.Items) > 0 {
			q = playqueue.New(e.Items, e.QueueIndex)
		}
		s.Push(NewItem(e.ServiceID, e.URL, e.Title, q))
	}
}
