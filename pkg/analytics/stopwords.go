package analytics

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StopwordsFile is the name of the stopword list inside the data directory.
const StopwordsFile = "stopwords_english.txt"

//go:embed stopwords_english.txt
var defaultStopwords []byte

// DefaultStopwords returns the built-in English stopword set.
func DefaultStopwords() map[string]struct{} {
	return parseStopwords(defaultStopwords)
}

// LoadStopwords reads the stopword list from dataDir, writing the built-in
// list there first if it does not exist yet. The file is one word per line;
// blank lines and lines starting with # are ignored.
func LoadStopwords(dataDir string) (map[string]struct{}, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(dataDir, StopwordsFile)
	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, defaultStopwords, 0600); err != nil {
			return nil, fmt.Errorf("failed to write stopwords: %w", err)
		}
		data = defaultStopwords
	} else if err != nil {
		return nil, fmt.Errorf("failed to read stopwords: %w", err)
	}

	words := parseStopwords(data)
	if len(words) == 0 {
		return nil, fmt.Errorf("stopword list %s is empty", path)
	}
	return words, nil
}

func parseStopwords(data []byte) map[string]struct{} {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[line] = struct{}{}
	}
	return words
}
