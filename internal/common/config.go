package common

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wiki-wordcloud/models"
	"github.com/dtnitsch/wiki-wordcloud/pkg/wikiapi"
)

// LoadConfig reads the YAML config named by --config (or the default file
// when present) and applies flag and environment overrides on top.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	path := c.String("config")
	explicit := c.IsSet("config")
	if path == "" {
		path = models.DefaultConfigFile
	}

	cfg, err := models.LoadConfig(path, !explicit)
	if err != nil {
		return nil, err
	}

	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("api") {
		cfg.APIBase = c.String("api")
	}
	if c.IsSet("cache-ttl") {
		cfg.CacheTTL = c.Duration("cache-ttl")
	}
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	if c.IsSet("html-fallback") {
		cfg.HTMLFallback = c.Bool("html-fallback")
	}
	if c.IsSet("english-only") {
		cfg.EnglishOnly = c.Bool("english-only")
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("invalid cache ttl %s: must be positive", cfg.CacheTTL)
	}
	return cfg, nil
}

const wikiPathMarker = "/wiki/"

// SanitizeCategory cleans up a user-supplied category name: surrounding
// whitespace and quotes are dropped, and a pasted Wikipedia category URL is
// reduced to its title. A "Category:" prefix in any letter case is dropped,
// so "Category:Foo" and "Foo" share one cache record.
func SanitizeCategory(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, `"'<>`)
	cleaned = strings.TrimSpace(cleaned)

	if strings.HasPrefix(cleaned, "http://") || strings.HasPrefix(cleaned, "https://") {
		if i := strings.Index(cleaned, wikiPathMarker); i >= 0 {
			title := cleaned[i+len(wikiPathMarker):]
			if j := strings.IndexAny(title, "?#"); j >= 0 {
				title = title[:j]
			}
			if unescaped, err := url.PathUnescape(title); err == nil {
				title = unescaped
			}
			cleaned = strings.ReplaceAll(title, "_", " ")
		}
	}

	return strings.TrimSpace(wikiapi.TrimCategoryPrefix(cleaned))
}
