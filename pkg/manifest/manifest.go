package manifest

// SummaryManifest is the JSON run manifest written by `analyze --summary`.
// It records where the table came from, how each member page fared and the
// top keywords, so a run can be inspected without re-reading the cache.
type SummaryManifest struct {
	GeneratedAt       string        `json:"generated_at"`
	Category          string        `json:"category"`
	Origin            string        `json:"origin"` // "cache", "fresh" or "stale"
	CachedAt          string        `json:"cached_at,omitempty"`
	Error             string        `json:"error,omitempty"`
	Members           int           `json:"members"`
	Counted           int           `json:"counted"`
	Empty             int           `json:"empty"`
	Skipped           int           `json:"skipped"`
	DistinctWords     int           `json:"distinct_words"`
	TotalWords        int           `json:"total_words"`
	AggregateKeywords []string      `json:"aggregate_keywords"`
	Pages             []PageSummary `json:"pages,omitempty"`
}

// PageSummary is one member page of the run.
type PageSummary struct {
	Title  string `json:"title"`
	Status string `json:"status"` // "counted", "empty" or "skipped"
	Reason string `json:"reason,omitempty"`
	Chars  int    `json:"chars,omitempty"`
	Words  int    `json:"words,omitempty"`
}

