// Package wikiapi talks to the MediaWiki action API: category membership
// listings and plain-text page extracts.
package wikiapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dtnitsch/wiki-wordcloud/models"
)

// ErrUpstream marks failures of the membership listing.
var ErrUpstream = errors.New("wikipedia api error")

const categoryPrefix = "Category:"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 32 << 20

// HTMLConverter reduces rendered article HTML to plain text.
type HTMLConverter interface {
	PlainText(title, html string) (string, error)
}

// Client is a MediaWiki API client. Requests are sequential; there is no
// retry or rate limiting.
type Client struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	maxMembers int
	html       HTMLConverter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another api.php endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxMembers caps how many category members are listed.
func WithMaxMembers(n int) Option {
	return func(c *Client) { c.maxMembers = n }
}

// WithHTMLFallback makes FetchText fall back to the rendered article when the
// plain-text extract is empty.
func WithHTMLFallback(h HTMLConverter) Option {
	return func(c *Client) { c.html = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client with the defaults from models.
func New(opts ...Option) *Client {
	c := &Client{
		client:     &http.Client{Timeout: models.DefaultTimeout},
		baseURL:    models.DefaultAPIBase,
		userAgent:  models.DefaultUserAgent,
		maxMembers: models.DefaultMaxMembers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.maxMembers <= 0 {
		c.maxMembers = models.DefaultMaxMembers
	}
	return c
}

// TrimCategoryPrefix removes a leading "Category:" in any letter case.
func TrimCategoryPrefix(name string) string {
	if len(name) >= len(categoryPrefix) && strings.EqualFold(name[:len(categoryPrefix)], categoryPrefix) {
		return name[len(categoryPrefix):]
	}
	return name
}

// ListMembers returns the titles of a category's members in API order.
// An empty, error-free result means the category has no members.
func (c *Client) ListMembers(ctx context.Context, category string) ([]string, error) {
	title := categoryPrefix + TrimCategoryPrefix(category)

	members := []string{}
	cmcontinue := ""
	for {
		limit := 500
		if remaining := c.maxMembers - len(members); remaining < limit {
			limit = remaining
		}

		params := url.Values{
			"action":  {"query"},
			"format":  {"json"},
			"list":    {"categorymembers"},
			"cmtitle": {title},
			"cmlimit": {fmt.Sprintf("%d", limit)},
		}
		if cmcontinue != "" {
			params.Set("cmcontinue", cmcontinue)
		}

		body, err := c.get(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		if msg, ok := apiError(body); ok {
			return nil, fmt.Errorf("%w: %s", ErrUpstream, msg)
		}

		list := gjson.GetBytes(body, "query.categorymembers")
		if !list.Exists() || !list.IsArray() {
			return nil, fmt.Errorf("%w: invalid response from Wikipedia API", ErrUpstream)
		}
		for _, page := range list.Array() {
			if t := page.Get("title").String(); t != "" {
				members = append(members, t)
			}
		}

		cmcontinue = gjson.GetBytes(body, "continue.cmcontinue").String()
		if cmcontinue == "" || len(members) >= c.maxMembers {
			break
		}
	}

	c.logger.Info("Found category members", "category", category, "count", len(members))
	return members, nil
}

// FetchText returns the plain-text extract of a page. Every failure is
// logged and reported as "" so one bad page never aborts a category.
func (c *Client) FetchText(ctx context.Context, title string) string {
	params := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"titles":      {title},
		"prop":        {"extracts"},
		"explaintext": {"1"},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		c.logger.Warn("Error fetching page content", "title", title, "error", err)
		return ""
	}
	if msg, ok := apiError(body); ok {
		c.logger.Warn("Wikipedia API error for page", "title", title, "error", msg)
		return ""
	}

	pages := gjson.GetBytes(body, "query.pages")
	if !pages.IsObject() {
		c.logger.Warn("Invalid page response", "title", title)
		return ""
	}

	// A titles query for one page returns a single entry keyed by page id.
	var pageID string
	var page gjson.Result
	pages.ForEach(func(key, value gjson.Result) bool {
		pageID, page = key.String(), value
		return false
	})

	if pageID == "" || pageID == "-1" || page.Get("missing").Exists() {
		c.logger.Warn("Page not found", "title", title)
		return ""
	}

	content := page.Get("extract").String()
	if content == "" && c.html != nil {
		content = c.fetchRendered(ctx, title)
	}

	c.logger.Debug("Retrieved content for page", "title", title, "chars", len(content))
	return content
}

// fetchRendered pulls the parsed article HTML and converts it to text.
func (c *Client) fetchRendered(ctx context.Context, title string) string {
	params := url.Values{
		"action":        {"parse"},
		"format":        {"json"},
		"formatversion": {"2"},
		"page":          {title},
		"prop":          {"text"},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		c.logger.Warn("Error fetching rendered page", "title", title, "error", err)
		return ""
	}
	if msg, ok := apiError(body); ok {
		c.logger.Warn("Wikipedia API error for rendered page", "title", title, "error", msg)
		return ""
	}

	html := gjson.GetBytes(body, "parse.text").String()
	if html == "" {
		return ""
	}

	text, err := c.html.PlainText(title, html)
	if err != nil {
		c.logger.Warn("Error converting rendered page", "title", title, "error", err)
		return ""
	}
	return text
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not valid JSON")
	}
	return body, nil
}

// apiError reports the message of an API-level "error" envelope.
func apiError(body []byte) (string, bool) {
	e := gjson.GetBytes(body, "error")
	if !e.Exists() {
		return "", false
	}
	if info := e.Get("info").String(); info != "" {
		return info, true
	}
	return "Unknown error", true
}
