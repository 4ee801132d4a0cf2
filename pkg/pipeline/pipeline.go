// Package pipeline turns a category name into an aggregated word-frequency
// table: list members, fetch each page, tokenize, merge, persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/wiki-wordcloud/models"
	"github.com/dtnitsch/wiki-wordcloud/pkg/mapreduce"
)

var (
	// ErrUpstreamUnavailable means the member listing failed.
	ErrUpstreamUnavailable = errors.New("failed to fetch category members")
	// ErrEmptyCategory means the listing succeeded with zero members.
	ErrEmptyCategory = errors.New("no pages found in category")
	// ErrNoContent means no page contributed a single counted word.
	ErrNoContent = errors.New("no content found in category pages")
)

// Source lists the members of a category and fetches page text.
// FetchText never fails: an unavailable page is reported as "".
type Source interface {
	ListMembers(ctx context.Context, category string) ([]string, error)
	FetchText(ctx context.Context, title string) string
}

// Store persists a finished frequency table.
type Store interface {
	Store(category string, frequencies models.FrequencyTable) error
}

// Gate decides whether a page's text should be counted.
type Gate interface {
	Allow(text string) bool
}

// Pipeline aggregates one category per Run call, strictly sequentially.
type Pipeline struct {
	source    Source
	tokenizer mapreduce.Tokenizer
	store     Store
	gate      Gate
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGate skips pages the gate rejects.
func WithGate(g Gate) Option {
	return func(p *Pipeline) { p.gate = g }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Pipeline.
func New(source Source, tokenizer mapreduce.Tokenizer, store Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    source,
		tokenizer: tokenizer,
		store:     store,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run aggregates a category and stores the result. Page fetch failures only
// drop that page; listing failures, an empty category, tokenizer errors and
// an empty total abort the run without touching the cache. A failed cache
// write is logged and does not affect the returned table.
func (p *Pipeline) Run(ctx context.Context, category string) (models.FrequencyTable, *models.RunReport, error) {
	p.logger.Info("Starting analysis for category", "category", category)
	report := &models.RunReport{Category: category}

	members, err := p.source.ListMembers(ctx, category)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	report.Members = len(members)
	if len(members) == 0 {
		return nil, report, ErrEmptyCategory
	}

	tables := make([]models.FrequencyTable, 0, len(members))
	for _, title := range members {
		p.logger.Debug("Processing page", "category", category, "title", title)

		content := p.source.FetchText(ctx, title)
		if content == "" {
			report.Add(models.PageResult{Title: title, Status: models.PageStatusEmpty})
			continue
		}
		if p.gate != nil && !p.gate.Allow(content) {
			report.Add(models.PageResult{
				Title:  title,
				Status: models.PageStatusSkipped,
				Reason: "language",
				Chars:  len(content),
			})
			continue
		}

		counts, err := mapreduce.Map(content, p.tokenizer)
		if err != nil {
			return nil, report, fmt.Errorf("failed to process text for %q: %w", title, err)
		}
		tables = append(tables, counts)
		report.Add(models.PageResult{
			Title:  title,
			Status: models.PageStatusCounted,
			Chars:  len(content),
			Words:  counts.Total(),
		})
	}

	total := mapreduce.Reduce(tables)
	if len(total) == 0 {
		return nil, report, ErrNoContent
	}

	if err := p.store.Store(category, total); err != nil {
		p.logger.Error("Failed to save cache", "category", category, "error", err)
	} else {
		report.Cached = true
		p.logger.Info("Saved cache for category", "category", category)
	}

	return total, report, nil
}
