package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dtnitsch/wiki-wordcloud/models"
	"github.com/dtnitsch/wiki-wordcloud/pkg/caching"
)

// Origin says where a resolved table came from.
type Origin string

const (
	OriginCache Origin = "cache" // fresh cache record
	OriginFresh Origin = "fresh" // just aggregated
	OriginStale Origin = "stale" // expired record used after a failed run
)

// Cache is the record store the Service reads before and after a run.
type Cache interface {
	Lookup(category string) (models.FrequencyTable, bool)
	LookupStale(category string) (models.FrequencyTable, time.Time, bool)
}

// Runner aggregates a category.
type Runner interface {
	Run(ctx context.Context, category string) (models.FrequencyTable, *models.RunReport, error)
}

// Result is a resolved frequency table.
type Result struct {
	Frequencies models.FrequencyTable
	Origin      Origin
	// Timestamp is the record time for stale results.
	Timestamp time.Time
	// Report is set when a run happened, successful or not.
	Report *models.RunReport
	// RunErr is the run failure that a stale result is covering for.
	RunErr error
}

// ResolveOptions tunes a single Resolve call.
type ResolveOptions struct {
	// Refresh skips the fresh-cache check and always runs the pipeline.
	Refresh bool
}

// Service applies the caller policy shared by the CLI and the web handler:
// fresh cache, else run, else fall back once to an expired record.
type Service struct {
	cache  Cache
	runner Runner
	logger *slog.Logger
	group  singleflight.Group
}

// NewService creates a Service.
func NewService(cache Cache, runner Runner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cache: cache, runner: runner, logger: logger}
}

type runOutcome struct {
	freq   models.FrequencyTable
	report *models.RunReport
	cached bool
}

// Resolve returns the frequency table for a category. Concurrent runs for
// categories with the same cache key inside this process share one pipeline
// execution; a caller arriving just after a run finished reads its record.
func (s *Service) Resolve(ctx context.Context, category string, opts ResolveOptions) (*Result, error) {
	if !opts.Refresh {
		if freq, ok := s.cache.Lookup(category); ok {
			s.logger.Info("Loaded cache for category", "category", category)
			return &Result{Frequencies: freq, Origin: OriginCache}, nil
		}
	}

	v, runErr, shared := s.group.Do(caching.Key(category), func() (interface{}, error) {
		if !opts.Refresh {
			if freq, ok := s.cache.Lookup(category); ok {
				return runOutcome{freq: freq, cached: true}, nil
			}
		}
		freq, report, err := s.runner.Run(ctx, category)
		return runOutcome{freq: freq, report: report}, err
	})
	outcome, _ := v.(runOutcome)
	if shared {
		s.logger.Debug("Joined in-flight analysis", "category", category)
	}

	if runErr == nil && outcome.cached {
		return &Result{Frequencies: outcome.freq, Origin: OriginCache}, nil
	}
	if runErr == nil {
		return &Result{Frequencies: outcome.freq, Origin: OriginFresh, Report: outcome.report}, nil
	}

	s.logger.Error("Error analyzing category", "category", category, "error", runErr)
	if freq, ts, ok := s.cache.LookupStale(category); ok {
		s.logger.Warn("Falling back to cached results", "category", category, "cached_at", ts)
		return &Result{
			Frequencies: freq,
			Origin:      OriginStale,
			Timestamp:   ts,
			Report:      outcome.report,
			RunErr:      runErr,
		}, nil
	}

	return nil, runErr
}
