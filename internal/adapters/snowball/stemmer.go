// Package snowball implements the ports.Stemmer interface using the Snowball
// stemmers from github.com/kljensen/snowball. Stems are memoized: dictionaries
// repeat the same words across phrases and runs.
package snowball

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kljensen/snowball"
)

// DefaultLanguage is the Snowball algorithm used by NewStemmer.
const DefaultLanguage = "russian"

// ErrEmptyWord is returned for words that are empty or whitespace only.
var ErrEmptyWord = errors.New("empty word")

// Stemmer implements ports.Stemmer. It is safe for concurrent use.
type Stemmer struct {
	language string
	stem     func(word, language string, stemStopWords bool) (string, error)

	mu    sync.RWMutex
	cache map[string]string
}

// NewStemmer creates a Russian stemmer.
func NewStemmer() *Stemmer {
	return NewStemmerForLanguage(DefaultLanguage)
}

// NewStemmerForLanguage creates a stemmer for any language supported by
// kljensen/snowball. Unknown languages fail on the first Stem call.
func NewStemmerForLanguage(language string) *Stemmer {
	return &Stemmer{
		language: language,
		stem:     snowball.Stem,
		cache:    make(map[string]string),
	}
}

// Stem returns the stem of word. Stop words are stemmed too.
func (s *Stemmer) Stem(word string) (string, error) {
	if strings.TrimSpace(word) == "" {
		return "", ErrEmptyWord
	}

	s.mu.RLock()
	stem, ok := s.cache[word]
	s.mu.RUnlock()
	if ok {
		return stem, nil
	}

	stem, err := s.stem(word, s.language, true)
	if err != nil {
		return "", fmt.Errorf("snowball %s: %w", s.language, err)
	}

	s.mu.Lock()
	s.cache[word] = stem
	s.mu.Unlock()
	return stem, nil
}

// CacheSize returns the number of memoized words.
func (s *Stemmer) CacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
