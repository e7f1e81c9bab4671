package hints

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubStemmer returns fixed stems for the words used in these tests and the
// word itself for anything else. "сбой" and empty words fail.
type stubStemmer map[string]string

var errStub = errors.New("stub: cannot stem")

func (s stubStemmer) Stem(word string) (string, error) {
	if word == "" || word == "сбой" {
		return "", errStub
	}
	if stem, ok := s[strings.ToLower(word)]; ok {
		return stem, nil
	}
	return strings.ToLower(word), nil
}

var testStems = stubStemmer{
	"кошки":    "кошк",
	"кошка":    "кошк",
	"рыжая":    "рыж",
	"рыжий":    "рыж",
	"машина":   "машин",
	"google":   "googl",
	"дом":      "дом",
	"рынок":    "рынок",
	"компания": "компан",
}

// filler returns n characters that no test pattern can match.
func filler(n int) string {
	return strings.Repeat(".", n)
}

// newTestEngine builds an engine with the stub stemmer and a compact template.
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	tmpl, err := ParseTemplate("[{2}|{1}|{0}]")
	require.NoError(t, err)
	return NewEngine(testStems, tmpl, opts...)
}

func mustDict(t *testing.T, entries ...Entry) *Dictionary {
	t.Helper()
	d, err := NewDictionary(entries...)
	require.NoError(t, err)
	return d
}

func compileOne(t *testing.T, c *Compiler, term string) *CompiledPattern {
	t.Helper()
	p, err := c.CompileTerm(Entry{Term: term, Canonical: term, Hint: "h"})
	require.NoError(t, err)
	require.NotNil(t, p, "term %q should compile", term)
	return p
}
