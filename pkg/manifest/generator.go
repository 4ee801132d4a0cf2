package manifest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtnitsch/wiki-wordcloud/models"
	"github.com/dtnitsch/wiki-wordcloud/pkg/mapreduce"
	"github.com/dtnitsch/wiki-wordcloud/pkg/storage"
)

// KeywordLimit caps AggregateKeywords.
const KeywordLimit = 25

// Run is what GenerateSummary needs to know about a resolved category.
// Report is nil when the table came straight from the cache.
type Run struct {
	Category    string
	Origin      string
	CachedAt    time.Time
	Err         error
	Frequencies models.FrequencyTable
	Report      *models.RunReport
}

// Build assembles the manifest for a run.
func Build(run Run, now time.Time) SummaryManifest {
	m := SummaryManifest{
		GeneratedAt:       now.Format(time.RFC3339),
		Category:          run.Category,
		Origin:            run.Origin,
		DistinctWords:     len(run.Frequencies),
		TotalWords:        run.Frequencies.Total(),
		AggregateKeywords: mapreduce.TopKeywords(run.Frequencies, KeywordLimit),
	}
	if !run.CachedAt.IsZero() {
		m.CachedAt = run.CachedAt.Format(time.RFC3339)
	}
	if run.Err != nil {
		m.Error = run.Err.Error()
	}

	if run.Report != nil {
		m.Members = run.Report.Members
		m.Counted = run.Report.Counted
		m.Empty = run.Report.Empty
		m.Skipped = run.Report.Skipped
		for _, p := range run.Report.Pages {
			m.Pages = append(m.Pages, PageSummary{
				Title:  p.Title,
				Status: p.Status,
				Reason: p.Reason,
				Chars:  p.Chars,
				Words:  p.Words,
			})
		}
	}
	return m
}

// GenerateSummary writes the manifest for run to path and returns the
// written size in bytes.
func GenerateSummary(run Run, path string, s *storage.Storage) (int64, error) {
	manifestData, err := json.MarshalIndent(Build(run, time.Now()), "", "  ")
	if err != nil {
		return 0, fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := s.SaveFile(path, manifestData); err != nil {
		return 0, fmt.Errorf("error saving manifest: %w", err)
	}

	stats, err := s.GetFileStats(path)
	if err != nil {
		return int64(len(manifestData)), nil
	}
	return stats.SizeBytes, nil
}

// Load reads a manifest written by GenerateSummary.
func Load(path string, s *storage.Storage) (*SummaryManifest, error) {
	data, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m SummaryManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
