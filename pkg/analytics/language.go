package analytics

import (
	"github.com/pemistahl/lingua-go"
)

// LanguageGate decides whether a page's text is English enough to count.
type LanguageGate struct {
	detector lingua.LanguageDetector
}

// NewLanguageGate builds a detector over the languages most often mixed into
// English category listings. Building loads language models, so create one
// gate per process.
func NewLanguageGate() *LanguageGate {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.French,
			lingua.German,
			lingua.Spanish,
			lingua.Italian,
			lingua.Portuguese,
			lingua.Dutch,
		).
		Build()
	return &LanguageGate{detector: detector}
}

// Allow returns false only when the text is confidently detected as a
// language other than English.
func (g *LanguageGate) Allow(text string) bool {
	language, ok := g.detector.DetectLanguageOf(text)
	if !ok {
		return true
	}
	return language == lingua.English
}
