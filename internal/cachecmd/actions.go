package cachecmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wiki-wordcloud/internal/common"
	"github.com/dtnitsch/wiki-wordcloud/models"
)

func ListAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	cache, err := common.OpenCache(cfg)
	if err != nil {
		return err
	}

	records, err := cache.List()
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}
	PrintRecords(os.Stdout, records, time.Now())
	return nil
}

// PrintRecords writes one row per cache record.
func PrintRecords(w io.Writer, records []models.RecordInfo, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No cached categories found")
		return
	}

	fmt.Fprintf(w, "%-32s %-16s %-8s %-10s %-8s\n", "Key", "Cached", "Words", "Size", "State")
	fmt.Fprintln(w, strings.Repeat("-", 78))

	for _, r := range records {
		age, state := "-", "stale"
		switch {
		case r.Corrupt:
			state = "corrupt"
		case r.Fresh:
			state = "fresh"
		}
		if !r.Corrupt {
			age = humanize.RelTime(r.Timestamp, now, "ago", "from now")
		}
		fmt.Fprintf(w, "%-32s %-16s %-8s %-10s %-8s\n",
			r.Key,
			age,
			humanize.Comma(int64(r.Words)),
			humanize.Bytes(uint64(r.SizeBytes)),
			state,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d cached categories\n", len(records))
}

func PurgeAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	cache, err := common.OpenCache(cfg)
	if err != nil {
		return err
	}

	olderThan := cache.TTL()
	if c.IsSet("older-than") {
		olderThan = c.Duration("older-than")
	}
	if olderThan < 0 {
		return fmt.Errorf("invalid --older-than %s: must not be negative", olderThan)
	}

	removed, err := cache.Purge(olderThan)
	if err != nil {
		logger.Error("Some cache records could not be removed", "error", err)
	}
	fmt.Printf("Removed %d cache %s older than %s\n", removed, plural(removed, "record", "records"), olderThan)
	return err
}

func PathAction(c *cli.Context) error {
	category := common.SanitizeCategory(c.Args().First())
	if category == "" {
		return cli.Exit("Usage: wiki-wordcloud cache path <category_name>", 1)
	}
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	cache, err := common.OpenCache(cfg)
	if err != nil {
		return err
	}
	fmt.Println(cache.Path(category))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
