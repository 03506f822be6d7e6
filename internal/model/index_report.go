package model

import "time"

type LoadStatus string

const (
	LoadStatusLoaded  LoadStatus = "loaded"
	LoadStatusSkipped LoadStatus = "skipped"
)

// LoadOutcome records what happened to one file during indexing.
type LoadOutcome struct {
	Path   string     `json:"path"`
	Status LoadStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// IndexReport summarizes an IndexCodebase call. Skipped is set when an existing
// store made the call a no-op.
type IndexReport struct {
	Skipped    bool          `json:"skipped"`
	Root       string        `json:"root"`
	Documents  int           `json:"documents"`
	Chunks     int           `json:"chunks"`
	Outcomes   []LoadOutcome `json:"outcomes"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

func (r *IndexReport) SkippedFiles() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == LoadStatusSkipped {
			n++
		}
	}
	return n
}
