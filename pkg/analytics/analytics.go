package analytics

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dtnitsch/wiki-wordcloud/models"
)

// ErrNoStopwords is returned when an Analytics was built without a stopword set.
var ErrNoStopwords = errors.New("stopwords not loaded")

// Analytics lower-cases, tokenizes and filters text into word counts.
type Analytics struct {
	stopwords map[string]struct{}
}

// New creates an Analytics that drops the given stopwords.
func New(stopwords map[string]struct{}) *Analytics {
	return &Analytics{stopwords: stopwords}
}

// IsStopword checks if a word is a stopword that should be filtered out.
func (a *Analytics) IsStopword(word string) bool {
	_, exists := a.stopwords[strings.ToLower(word)]
	return exists
}

// clitics are split off a token the way treebank tokenizers do ("cat's" -> "cat").
var clitics = []string{"n't", "'s", "'re", "'ve", "'ll", "'d", "'m"}

// Tokenize lower-cases text and splits it into word tokens. Punctuation is
// split off, hyphenated words stay whole and English clitics are removed.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		if unicode.IsSpace(r) {
			return true
		}
		if r == '-' || r == '\'' || r == '’' || r == '.' {
			return false
		}
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.ReplaceAll(field, "’", "'")
		field = strings.Trim(field, "-'.")
		if field == "" {
			continue
		}
		for _, suffix := range clitics {
			if stem, ok := strings.CutSuffix(field, suffix); ok && stem != "" {
				field = stem
				break
			}
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// isAlpha reports whether every rune in s is a letter.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// WordFrequency counts the alphabetic, non-stopword tokens of text.
func (a *Analytics) WordFrequency(text string) (models.FrequencyTable, error) {
	if a == nil || a.stopwords == nil {
		return nil, ErrNoStopwords
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, " ")
	}

	frequencies := make(models.FrequencyTable)
	for _, word := range Tokenize(text) {
		if !isAlpha(word) {
			continue
		}
		if a.IsStopword(word) {
			continue
		}
		frequencies[word]++
	}

	return frequencies, nil
}
