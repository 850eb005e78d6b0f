package playqueue

// History records the positions visited in a queue so playback can step back
// to the previously played item.
type History struct {
	indices []int
	maxSize int
}

// NewHistory creates a history keeping at most maxSize positions.
func NewHistory(maxSize int) *History {
	return &History{
		indices: make([]int, 0, maxSize),
		maxSize: maxSize,
	}
}

// Push records a visit to index. Trims the oldest entries over the limit.
func (h *History) Push(index int) {
	if n := len(h.indices); n > 0 && h.indices[n-1] == index {
		return
	}
	h.indices = append(h.indices, index)
	if len(h.indices) > h.maxSize {
		excess := len(h.indices) - h.maxSize
		h.indices = h.indices[excess:]
	}
}

// Back drops the current position and returns the one visited before it.
func (h *History) Back() (int, bool) {
	if !h.CanGoBack() {
		return 0, false
	}
	h.indices = h.indices[:len(h.indices)-1]
	return h.indices[len(h.indices)-1], true
}

// CanGoBack returns true if there is a previous position.
func (h *History) CanGoBack() bool {
	return len(h.indices) > 1
}

// Len returns the number of recorded positions.
func (h *History) Len() int {
	return len(h.indices)
}

// Forget drops index from the history and shifts later positions down,
// keeping it consistent after an item removal.
func (h *History) Forget(index int) {
	kept := h.indices[:0]
	for _, i := range h.indices {
		switch {
		case i == index:
			continue
		case i > index:
			kept = append(kept, i-1)
		default:
			kept = append(kept, i)
		}
		if n := len(kept); n > 1 && kept[n-1] == kept[n-2] {
			kept = kept[:n-1]
		}
	}
	h.indices = kept
}
