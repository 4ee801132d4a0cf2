package common

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dtnitsch/wiki-wordcloud/models"
	"github.com/dtnitsch/wiki-wordcloud/pkg/analytics"
	"github.com/dtnitsch/wiki-wordcloud/pkg/caching"
	"github.com/dtnitsch/wiki-wordcloud/pkg/parser"
	"github.com/dtnitsch/wiki-wordcloud/pkg/pipeline"
	"github.com/dtnitsch/wiki-wordcloud/pkg/wikiapi"
)

// Services is everything a command needs to resolve a category.
type Services struct {
	Config  *models.Config
	Logger  *slog.Logger
	Cache   *caching.Cache
	Client  *wikiapi.Client
	Service *pipeline.Service
}

// OpenCache prepares the working directories and opens the cache store.
func OpenCache(cfg *models.Config) (*caching.Cache, error) {
	if err := cfg.Init(); err != nil {
		return nil, err
	}
	cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return cache, nil
}

// NewServices wires the cache, upstream client, tokenizer and pipeline.
func NewServices(cfg *models.Config, logger *slog.Logger) (*Services, error) {
	cache, err := OpenCache(cfg)
	if err != nil {
		return nil, err
	}

	stopwords, err := analytics.LoadStopwords(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load stopwords: %w", err)
	}

	clientOpts := []wikiapi.Option{
		wikiapi.WithBaseURL(cfg.APIBase),
		wikiapi.WithTimeout(cfg.Timeout),
		wikiapi.WithUserAgent(cfg.UserAgent),
		wikiapi.WithMaxMembers(cfg.MaxMembers),
		wikiapi.WithLogger(logger),
	}
	if cfg.HTMLFallback {
		clientOpts = append(clientOpts, wikiapi.WithHTMLFallback(&parser.Parser{BaseURL: articleBase(cfg.APIBase)}))
	}
	client := wikiapi.New(clientOpts...)

	pipelineOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.EnglishOnly {
		logger.Debug("Loading language models")
		pipelineOpts = append(pipelineOpts, pipeline.WithGate(analytics.NewLanguageGate()))
	}
	p := pipeline.New(client, analytics.New(stopwords), cache, pipelineOpts...)

	return &Services{
		Config:  cfg,
		Logger:  logger,
		Cache:   cache,
		Client:  client,
		Service: pipeline.NewService(cache, p, logger),
	}, nil
}

// articleBase derives the /wiki/ article root from an api.php URL.
func articleBase(apiBase string) string {
	const apiPath = "/w/api.php"
	if !strings.HasSuffix(apiBase, apiPath) {
		return ""
	}
	return strings.TrimSuffix(apiBase, apiPath) + "/wiki/"
}
