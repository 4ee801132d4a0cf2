// Package wordcloud adapts a frequency table into the payload a browser
// word-cloud renderer consumes.
package wordcloud

import (
	"sort"

	"github.com/dtnitsch/wiki-wordcloud/models"
)

const (
	MinSize  = 20.0
	MaxSize  = 100.0
	MaxWords = 100
)

// Word is one sized entry of the cloud.
type Word struct {
	Text string  `json:"text"`
	Size float64 `json:"size"`
}

// Cloud is the response body of the analyze endpoint.
type Cloud struct {
	Words  []Word   `json:"words"`
	Colors []string `json:"colors"`
}

// Size maps a raw count to a font size: half the count, clamped to
// [MinSize, MaxSize].
func Size(count int) float64 {
	s := float64(count) / 2
	if s < MinSize {
		return MinSize
	}
	if s > MaxSize {
		return MaxSize
	}
	return s
}

// Build sizes every word, orders by size descending (equal sizes by word)
// and keeps the first MaxWords.
func Build(freq models.FrequencyTable, colors []string) Cloud {
	words := make([]Word, 0, len(freq))
	for w, c := range freq {
		words = append(words, Word{Text: w, Size: Size(c)})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Size != words[j].Size {
			return words[i].Size > words[j].Size
		}
		return words[i].Text < words[j].Text
	})
	if len(words) > MaxWords {
		words = words[:MaxWords]
	}
	if colors == nil {
		colors = []string{}
	}
	return Cloud{Words: words, Colors: colors}
}
