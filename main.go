package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wiki-wordcloud/internal/analyze"
	"github.com/dtnitsch/wiki-wordcloud/internal/cachecmd"
	"github.com/dtnitsch/wiki-wordcloud/internal/palettes"
	"github.com/dtnitsch/wiki-wordcloud/internal/web"
	"github.com/dtnitsch/wiki-wordcloud/models"
)

func main() {
	app := &cli.App{
		Name:  "wiki-wordcloud",
		Usage: "Count the most frequent words across a Wikipedia category and serve them as a word cloud",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML config file",
				Value:   models.DefaultConfigFile,
				EnvVars: []string{"WIKI_WORDCLOUD_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "Directory for cached frequency tables",
				Value:   models.DefaultCacheDir,
				EnvVars: []string{"WIKI_WORDCLOUD_CACHE_DIR"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory for tokenizer data (stopword list)",
				Value:   models.DefaultDataDir,
				EnvVars: []string{"WIKI_WORDCLOUD_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "api",
				Usage:   "MediaWiki api.php endpoint",
				Value:   models.DefaultAPIBase,
				EnvVars: []string{"WIKI_WORDCLOUD_API"},
			},
			&cli.DurationFlag{
				Name:  "cache-ttl",
				Usage: "How long a cached table counts as fresh",
				Value: models.DefaultCacheTTL,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log per-page debug detail",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Print the most frequent words of a category",
				ArgsUsage: "<category>",
				Action:    analyze.AnalyzeAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Ignore a fresh cache record and re-fetch",
					},
					&cli.IntFlag{
						Name:  "top",
						Usage: "Number of rows to print",
						Value: 100,
					},
					&cli.StringFlag{
						Name:  "summary",
						Usage: "Write a JSON run manifest to this path",
					},
					&cli.BoolFlag{
						Name:  "html-fallback",
						Usage: "Extract text from the rendered article when the plain extract is empty",
					},
					&cli.BoolFlag{
						Name:  "english-only",
						Usage: "Skip pages detected as non-English",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the word-cloud web page",
				Action: web.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   models.DefaultAddr,
						EnvVars: []string{"WIKI_WORDCLOUD_ADDR"},
					},
					&cli.BoolFlag{
						Name:  "html-fallback",
						Usage: "Extract text from the rendered article when the plain extract is empty",
					},
					&cli.BoolFlag{
						Name:  "english-only",
						Usage: "Skip pages detected as non-English",
					},
				},
			},
			{
				Name:   "palettes",
				Usage:  "List the available color palettes",
				Action: palettes.PalettesAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text, json or yaml",
						Value: "text",
					},
				},
			},
			{
				Name:  "cache",
				Usage: "Inspect and maintain cached frequency tables",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List cached categories",
						Action: cachecmd.ListAction,
					},
					{
						Name:   "purge",
						Usage:  "Remove cache records older than a duration (default: the cache TTL)",
						Action: cachecmd.PurgeAction,
						Flags: []cli.Flag{
							&cli.DurationFlag{
								Name:  "older-than",
								Usage: "Age threshold, e.g. 72h",
							},
						},
					},
					{
						Name:      "path",
						Usage:     "Print the cache file path for a category",
						ArgsUsage: "<category>",
						Action:    cachecmd.PathAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
