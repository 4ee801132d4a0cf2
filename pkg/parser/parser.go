package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/wiki-wordcloud/models"
	"github.com/go-shiori/go-readability"
)

// noiseSelectors are rendered-article elements that carry no prose.
const noiseSelectors = "script,style,sup.reference,span.mw-editsection,div.navbox,table.navbox,div.reflist,ol.references,div.hatnote,.mw-empty-elt"

// Parser converts rendered article HTML into plain text.
type Parser struct {
	// BaseURL resolves relative links for readability; defaults to en.wikipedia.org.
	BaseURL string
}

// PlainText returns the readable text of an article. It tries go-readability
// first and falls back to walking the content tags with goquery.
func (p *Parser) PlainText(title, html string) (string, error) {
	page, err := p.ParseToStructured(title, html)
	if err != nil {
		return "", err
	}
	return page.ToPlainText(), nil
}

// ParseToStructured uses go-readability to isolate the main content and then
// parses that clean content into a structured Page.
func (p *Parser) ParseToStructured(title, html string) (*models.Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(noiseSelectors).Remove()

	cleaned, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	content := cleaned
	if article, err := readability.FromReader(strings.NewReader(cleaned), p.pageURL(title)); err == nil && strings.TrimSpace(article.TextContent) != "" {
		content = article.Content
	}

	blocks, err := extractBlocks(content)
	if err != nil {
		return nil, err
	}

	return &models.Page{
		Title:   normalizeText(title),
		Content: blocks,
	}, nil
}

func (p *Parser) pageURL(title string) *url.URL {
	base := p.BaseURL
	if base == "" {
		base = "https://en.wikipedia.org/wiki/"
	}
	u, err := url.Parse(base + url.PathEscape(strings.ReplaceAll(title, " ", "_")))
	if err != nil {
		return &url.URL{Scheme: "https", Host: "en.wikipedia.org"}
	}
	return u
}

// extractBlocks finds every content-bearing tag we care about.
func extractBlocks(html string) ([]models.ContentBlock, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var content []models.ContentBlock
	doc.Find("h1,h2,h3,h4,p,li,dd,td,th,blockquote").Each(func(i int, s *goquery.Selection) {
		// Nested matches (p inside li, p inside td) would be counted twice.
		if s.ParentsFiltered("li,dd,td,th,blockquote").Length() > 0 {
			return
		}
		text := normalizeText(s.Text())
		if text != "" {
			content = append(content, models.ContentBlock{
				Type: goquery.NodeName(s),
				Text: text,
			})
		}
	})
	return content, nil
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			// Write the line and a single space for separation
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	// Return the result, trimming the final space
	return strings.TrimSpace(b.String())
}
