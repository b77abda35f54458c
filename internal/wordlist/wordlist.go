// Package wordlist provides the built-in practice vocabulary and custom list loading.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

var common = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "I", "it", "for", "not", "on",
	"with", "he", "as", "you", "do", "at", "this", "but", "his", "by", "from", "they", "we",
	"say", "her", "she", "or", "an", "will", "my", "one", "all", "would", "there", "their",
	"what", "so", "up", "out", "if", "about", "who", "get", "which", "go", "me", "when", "make",
	"can", "like", "time", "no", "just", "him", "know", "take", "people", "into", "year", "your",
	"good", "some", "could", "them", "see", "other", "than", "then", "now", "look", "only",
	"come", "its", "over", "think", "also", "back", "after", "use", "two", "how", "our", "work",
	"first", "well", "way", "even", "new", "want", "because", "any", "these", "give", "day",
	"most", "us", "very", "where", "much", "through", "find", "tell", "still", "try", "kind",
	"hand", "picture", "again", "change", "off", "play", "spell", "air", "away", "animal",
	"house", "point", "page", "letter", "mother", "answer", "found", "study", "learn", "should",
	"world", "high", "every", "near", "add", "food", "between", "own", "below", "country",
	"plant", "last", "school", "father", "keep", "tree", "never", "start", "city", "earth",
	"eye", "light", "thought", "head", "under", "story", "saw", "left", "don't", "few", "while",
	"along", "might", "close", "something", "seem", "next", "hard", "open", "example", "begin",
	"life", "always", "those", "both", "paper", "together", "got", "group", "often", "run",
}

// Common returns the curated list of frequent English words. The slice is a copy.
func Common() []string {
	out := make([]string, len(common))
	copy(out, common)
	return out
}

// LoadWords reads one word per line from the provided file path and keeps the
// entries accepted by keep. Duplicates are dropped.
func LoadWords(path string, keep FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if keep != nil {
		words = lo.Filter(words, func(w string, _ int) bool { return keep(w) })
	}
	words = lo.Uniq(words)
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s has no usable words", path)
	}
	return words, nil
}

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// BasicLatin keeps words made only of ASCII letters and apostrophes.
func BasicLatin(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '\'':
		default:
			return false
		}
	}
	return true
}
