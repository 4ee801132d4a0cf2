package models

// PageStatus values recorded for each member page of a run.
const (
	PageStatusCounted = "counted"
	PageStatusEmpty   = "empty"
	PageStatusSkipped = "skipped"
)

// PageResult records what happened to one member page during a run.
type PageResult struct {
	Title  string `json:"title"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Chars  int    `json:"chars,omitempty"`
	Words  int    `json:"words,omitempty"`
}

// RunReport summarizes one aggregation run.
type RunReport struct {
	Category string       `json:"category"`
	Members  int          `json:"members"`
	Counted  int          `json:"counted"`
	Empty    int          `json:"empty"`
	Skipped  int          `json:"skipped"`
	Cached   bool         `json:"cached"`
	Pages    []PageResult `json:"pages"`
}

// Add appends a page result and updates the counters.
func (r *RunReport) Add(p PageResult) {
	switch p.Status {
	case PageStatusCounted:
		r.Counted++
	case PageStatusEmpty:
		r.Empty++
	case PageStatusSkipped:
		r.Skipped++
	}
	r.Pages = append(r.Pages, p)
}
