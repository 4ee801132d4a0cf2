package mapreduce

import (
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/wiki-wordcloud/models"
)

// TopKeywords returns the top N keywords as "word:count" strings
// (e.g., "rocket:153").
func TopKeywords(wordCounts models.FrequencyTable, n int) []string {
	ranked := wordCounts.Ranked(n)

	keywords := make([]string, len(ranked))
	for i, wc := range ranked {
		keywords[i] = fmt.Sprintf("%s:%d", wc.Word, wc.Count)
	}

	return keywords
}

// PrintTopKeywords writes the top N keywords as a ranked table.
func PrintTopKeywords(w io.Writer, wordCounts models.FrequencyTable, n int) {
	fmt.Fprintf(w, "\nTop %d most frequent non-common words across all pages:\n", n)
	fmt.Fprintln(w, "\nRank  Word                  Frequency")
	fmt.Fprintln(w, strings.Repeat("-", 45))

	for i, wc := range wordCounts.Ranked(n) {
		fmt.Fprintf(w, "%4d  %-20s %8d\n", i+1, wc.Word, wc.Count)
	}
}
