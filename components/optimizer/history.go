package optimizer

import (
	"sync"

	"github.com/google/uuid"
)

// RunHistory is the append-only record of (prompt, accuracy) outcomes for one
// run. Records are never removed or reordered; readers get copies.
// threadsafe
type RunHistory struct {
	// records is the ordered sequence of round outcomes
	records []RoundRecord
	// runID identifies the run this history belongs to
	runID string
	// mtx sync lock
	mtx *sync.RWMutex
}

// NewRunHistory initializes an empty RunHistory with a fresh run ID.
func NewRunHistory() *RunHistory {
	return &RunHistory{
		runID: uuid.NewString(),
		mtx:   new(sync.RWMutex),
	}
}

// RunID returns the run identifier
func (h *RunHistory) RunID() string {
	return h.runID
}

// Append adds a round record to the history.
func (h *RunHistory) Append(rec RoundRecord) {
	h.mtx.Lock()
	h.records = append(h.records, rec)
	h.mtx.Unlock()
}

// Records returns a copy of all round records in order.
func (h *RunHistory) Records() []RoundRecord {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	out := make([]RoundRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Recent returns a copy of the most recent n records, or all of them when
// n <= 0 or n exceeds the history length.
func (h *RunHistory) Recent(n int) []RoundRecord {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	if n <= 0 || n > len(h.records) {
		n = len(h.records)
	}
	out := make([]RoundRecord, n)
	copy(out, h.records[len(h.records)-n:])
	return out
}

// Len returns the number of recorded rounds.
func (h *RunHistory) Len() int {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return len(h.records)
}

// Last returns the most recent record, if any.
func (h *RunHistory) Last() (RoundRecord, bool) {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	if len(h.records) == 0 {
		return RoundRecord{}, false
	}
	return h.records[len(h.records)-1], true
}
