package models

import (
	"sort"
	"time"
)

// FrequencyTable maps a word to its occurrence count.
type FrequencyTable map[string]int

// Merge adds every count in other to f.
func (f FrequencyTable) Merge(other FrequencyTable) {
	for word, count := range other {
		f[word] += count
	}
}

// Total returns the sum of all counts.
func (f FrequencyTable) Total() int {
	total := 0
	for _, count := range f {
		total += count
	}
	return total
}

// WordCount is a single ranked entry.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Ranked returns the n most frequent words, highest count first.
// Ties are broken alphabetically so output is stable.
// n <= 0 returns every word.
func (f FrequencyTable) Ranked(n int) []WordCount {
	ranked := make([]WordCount, 0, len(f))
	for word, count := range f {
		ranked = append(ranked, WordCount{Word: word, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CacheRecord is the on-disk form of one category's frequencies.
// Pointer and map fields stay nil when absent so malformed records can be
// told apart from empty ones.
type CacheRecord struct {
	Timestamp   *string        `json:"timestamp"`
	Frequencies FrequencyTable `json:"frequencies"`
}

// RecordInfo describes a cache record without its frequencies.
type RecordInfo struct {
	Key       string    `json:"key" yaml:"key"`
	Path      string    `json:"path" yaml:"path"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Words     int       `json:"words" yaml:"words"`
	SizeBytes int64     `json:"size_bytes" yaml:"size_bytes"`
	Fresh     bool      `json:"fresh" yaml:"fresh"`
	Corrupt   bool      `json:"corrupt,omitempty" yaml:"corrupt,omitempty"`
}
