package models

import "strings"

// Page represents the structured content of a rendered article.
type Page struct {
	Title   string         `json:"title"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock represents a semantic block of text on a page.
type ContentBlock struct {
	Type string `json:"type"` // e.g., "h2", "p", "li", "td"
	Text string `json:"text"`
}

// ToPlainText concatenates readable text from all content blocks.
func (p *Page) ToPlainText() string {
	var sb strings.Builder
	for _, block := range p.Content {
		if block.Text == "" {
			continue
		}
		sb.WriteString(block.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
