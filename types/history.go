package types

// Transition is a single (state, action, reward) record.
// State-only value models ignore the action.
type Transition struct {
	State  int
	Action int
	Reward float64
}

// History of an episode. Records are consumed newest first: Get(0)
// is the most recent transition, which is the order needed to compute
// returns backwards through time.
type History struct {
	// stored oldest first so that Push is an append
	records []Transition
}

// NewHistory creates a history from records given newest first
func NewHistory(newestFirst ...Transition) *History {
	h := &History{
		records: make([]Transition, len(newestFirst)),
	}
	for i, t := range newestFirst {
		h.records[len(newestFirst)-1-i] = t
	}
	return h
}

// Push records t as the most recent transition
func (h *History) Push(t Transition) {
	h.records = append(h.records, t)
}

func (h *History) Len() int {
	return len(h.records)
}

// Get returns the i-th most recent transition
func (h *History) Get(i int) (Transition, bool) {
	if i < 0 || i >= len(h.records) {
		return Transition{}, false
	}
	return h.records[len(h.records)-1-i], true
}

// Newest returns the most recent transition
func (h *History) Newest() (Transition, bool) {
	return h.Get(0)
}

// Records returns a copy of the history, newest first
func (h *History) Records() []Transition {
	out := make([]Transition, len(h.records))
	for i := range h.records {
		out[i] = h.records[len(h.records)-1-i]
	}
	return out
}

// Clear discards the recorded transitions, keeping the capacity
func (h *History) Clear() {
	h.records = h.records[:0]
}
