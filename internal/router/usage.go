package router

// DefaultHistorySize bounds the recent-command history kept by a Tracker.
const DefaultHistorySize = 20

// Tracker counts command invocations and keeps a bounded, most-recent-last
// history. Counters only grow; Reset is the sole way to clear them.
type Tracker struct {
	counts  map[string]int
	recent  []string
	maxHist int
}

// UsageSnapshot is a detached copy of tracker state, suitable for persisting
// and restoring across processes.
type UsageSnapshot struct {
	Counts map[string]int `json:"counts"`
	Recent []string       `json:"recent"`
}

// NewTracker returns an empty tracker keeping up to historySize recent
// commands. Non-positive sizes use DefaultHistorySize.
func NewTracker(historySize int) *Tracker {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &Tracker{counts: make(map[string]int), maxHist: historySize}
}

// RecordCommandUsage increments the counter for command and appends it to
// the recent history.
func (t *Tracker) RecordCommandUsage(command string) {
	t.counts[command]++
	t.recent = append(t.recent, command)
	if over := len(t.recent) - t.maxHist; over > 0 {
		t.recent = append(t.recent[:0:0], t.recent[over:]...)
	}
}

// Count returns the number of recorded invocations of command.
func (t *Tracker) Count(command string) int {
	return t.counts[command]
}

// UsageStats returns a copy of the counters. Mutating it does not affect the
// tracker.
func (t *Tracker) UsageStats() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Recent returns up to n of the most recent commands, oldest first. n <= 0
// returns the whole history.
func (t *Tracker) Recent(n int) []string {
	h := t.recent
	if n > 0 && len(h) > n {
		h = h[len(h)-n:]
	}
	return append([]string(nil), h...)
}

// Snapshot returns a detached copy of the tracker state.
func (t *Tracker) Snapshot() UsageSnapshot {
	return UsageSnapshot{Counts: t.UsageStats(), Recent: t.Recent(0)}
}

// Restore replaces the tracker state with s. Negative counts are ignored and
// history beyond the tracker's bound is trimmed from the oldest end.
func (t *Tracker) Restore(s UsageSnapshot) {
	t.counts = make(map[string]int, len(s.Counts))
	for k, v := range s.Counts {
		if v > 0 {
			t.counts[k] = v
		}
	}
	recent := s.Recent
	if len(recent) > t.maxHist {
		recent = recent[len(recent)-t.maxHist:]
	}
	t.recent = append([]string(nil), recent...)
}

// Reset clears counters and history.
func (t *Tracker) Reset() {
	t.counts = make(map[string]int)
	t.recent = nil
}
