package validate

import "sync"

// #region stats
// Stats tracks cumulative validation counters. Safe for concurrent use.
type Stats struct {
	mu                  sync.Mutex
	total               int
	passed              int
	rejected            int
	clarificationNeeded int
}

// NewStats creates an empty counter set.
func NewStats() *Stats {
	return &Stats{}
}

// record counts one validation. A clarification still counts as passed.
func (s *Stats) record(passed, clarification bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if passed {
		s.passed++
	} else {
		s.rejected++
	}
	if clarification {
		s.clarificationNeeded++
	}
}

// #endregion stats

// #region snapshot
// Snapshot is a point-in-time copy of the counters. Rates are zero
// until the first validation has been recorded.
type Snapshot struct {
	Total               int     `json:"total_validations"`
	Passed              int     `json:"passed"`
	Rejected            int     `json:"rejected"`
	ClarificationNeeded int     `json:"clarification_needed"`
	PassRate            float64 `json:"pass_rate"`
	RejectionRate       float64 `json:"rejection_rate"`
}

// Snapshot returns a consistent copy of the counters with derived rates.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Total:               s.total,
		Passed:              s.passed,
		Rejected:            s.rejected,
		ClarificationNeeded: s.clarificationNeeded,
	}
	if s.total > 0 {
		snap.PassRate = float64(s.passed) / float64(s.total)
		snap.RejectionRate = float64(s.rejected) / float64(s.total)
	}
	return snap
}

// #endregion snapshot
