package analyze

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wiki-wordcloud/internal/common"
	"github.com/dtnitsch/wiki-wordcloud/pkg/manifest"
	"github.com/dtnitsch/wiki-wordcloud/pkg/mapreduce"
	"github.com/dtnitsch/wiki-wordcloud/pkg/pipeline"
	"github.com/dtnitsch/wiki-wordcloud/pkg/storage"
)

// Resolver is the part of pipeline.Service the command needs.
type Resolver interface {
	Resolve(ctx context.Context, category string, opts pipeline.ResolveOptions) (*pipeline.Result, error)
}

// Options are the per-invocation settings of the analyze command.
type Options struct {
	Refresh     bool
	Top         int
	SummaryPath string
	TTL         time.Duration
}

func AnalyzeAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	category := common.SanitizeCategory(c.Args().First())
	if category == "" {
		return cli.Exit("Usage: wiki-wordcloud analyze <category_name>", 1)
	}

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	svc, err := common.NewServices(cfg, logger)
	if err != nil {
		return err
	}

	opts := Options{
		Refresh:     c.Bool("refresh"),
		Top:         c.Int("top"),
		SummaryPath: c.String("summary"),
		TTL:         svc.Cache.TTL(),
	}
	return Run(c.Context, svc.Service, category, opts, os.Stdout, logger)
}

// Run resolves a category and prints the ranked table to w. It returns a
// cli exit error with code 1 when neither the pipeline nor an expired cache
// record produced a table.
func Run(ctx context.Context, r Resolver, category string, opts Options, w io.Writer, logger *slog.Logger) error {
	if opts.Top <= 0 {
		opts.Top = 100
	}
	fmt.Fprintf(w, "Analyzing category: %s\n", category)

	res, err := r.Resolve(ctx, category, pipeline.ResolveOptions{Refresh: opts.Refresh})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return cli.Exit("No cached results available", 1)
	}

	switch res.Origin {
	case pipeline.OriginCache:
		fmt.Fprintf(w, "Using cached results (cached within the last %s)\n", ttlPhrase(opts.TTL))
	case pipeline.OriginStale:
		fmt.Fprintf(w, "Error: %v\n", res.RunErr)
		fmt.Fprintln(w, "\nFalling back to cached results:")
	}
	mapreduce.PrintTopKeywords(w, res.Frequencies, opts.Top)

	if opts.SummaryPath != "" {
		run := manifest.Run{
			Category:    category,
			Origin:      string(res.Origin),
			CachedAt:    res.Timestamp,
			Err:         res.RunErr,
			Frequencies: res.Frequencies,
			Report:      res.Report,
		}
		size, err := manifest.GenerateSummary(run, opts.SummaryPath, &storage.Storage{})
		if err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		logger.Info("Wrote run summary", "path", opts.SummaryPath, "size", humanize.Bytes(uint64(size)))
	}
	return nil
}

// ttlPhrase renders the freshness window the way users think about it.
func ttlPhrase(ttl time.Duration) string {
	if ttl <= 0 {
		return "7 days"
	}
	if ttl%(24*time.Hour) == 0 {
		days := int(ttl / (24 * time.Hour))
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	return ttl.String()
}
