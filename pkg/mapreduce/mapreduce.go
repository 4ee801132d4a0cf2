package mapreduce

import "github.com/dtnitsch/wiki-wordcloud/models"

// Tokenizer turns a document's text into word counts.
type Tokenizer interface {
	WordFrequency(text string) (models.FrequencyTable, error)
}

// Map generates a word frequency table for a single document's content.
func Map(content string, t Tokenizer) (models.FrequencyTable, error) {
	return t.WordFrequency(content)
}

// Reduce aggregates a slice of frequency tables into a single table.
// The result does not depend on the order of intermediate.
func Reduce(intermediate []models.FrequencyTable) models.FrequencyTable {
	finalResults := make(models.FrequencyTable)

	for _, counts := range intermediate {
		finalResults.Merge(counts)
	}

	return finalResults
}
