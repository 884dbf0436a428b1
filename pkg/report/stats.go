// Package report accumulates batch run counters and prints them for the
// operator.
package report

// Outcome is what happened to one file in a batch run.
type Outcome int

const (
	// OutcomeUnchanged: the file was visited and left as it was.
	OutcomeUnchanged Outcome = iota
	// OutcomeModified: the file was rewritten.
	OutcomeModified
	// OutcomeCreated: a companion file was written.
	OutcomeCreated
	// OutcomeIgnored: the file matched an ignore pattern, or its companion
	// file already existed.
	OutcomeIgnored
	// OutcomeFailed: processing the file returned an error.
	OutcomeFailed
)

// String returns the lower-case outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeModified:
		return "modified"
	case OutcomeCreated:
		return "created"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats are the counters of one batch run. The zero value is a fresh run.
// Stats is a plain value: each step returns the updated counters instead of
// mutating shared state.
type Stats struct {
	Total    int `json:"total"`
	Modified int `json:"modified"`
	Created  int `json:"created"`
	Ignored  int `json:"ignored"`
	Failed   int `json:"failed"`
}

// Record returns s with one more file counted under o.
func (s Stats) Record(o Outcome) Stats {
	s.Total++
	switch o {
	case OutcomeModified:
		s.Modified++
	case OutcomeCreated:
		s.Created++
	case OutcomeIgnored:
		s.Ignored++
	case OutcomeFailed:
		s.Failed++
	}
	return s
}

// Merge adds the counters of other to s.
func (s Stats) Merge(other Stats) Stats {
	return Stats{
		Total:    s.Total + other.Total,
		Modified: s.Modified + other.Modified,
		Created:  s.Created + other.Created,
		Ignored:  s.Ignored + other.Ignored,
		Failed:   s.Failed + other.Failed,
	}
}
