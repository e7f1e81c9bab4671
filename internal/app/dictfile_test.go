package app

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aden1s/ruphrasehints/internal/domain/hints"
	"github.com/aden1s/ruphrasehints/internal/ports"
)

func TestParseDictionary_YAML(t *testing.T) {
	dict, err := ParseDictionary([]byte(catDictYAML))
	require.NoError(t, err)

	assert.Equal(t, []ports.TermEntry{
		{Term: "кошка", Canonical: "кошка", Hint: "cat"},
		{Term: "рыжая кошка", Canonical: "рыжая кошка", Hint: "ginger"},
	}, dict.Entries())
}

func TestParseDictionary_JSONKeepsFileOrder(t *testing.T) {
	dict, err := ParseDictionary([]byte(`{
  "яблоко": ["яблоко", "apple"],
  "банан": {"canonical": "банан", "hint": "banana"},
  "апельсин": ["апельсин", "orange"]
}`))
	require.NoError(t, err)

	var terms []string
	for _, e := range dict.Entries() {
		terms = append(terms, e.Term)
	}
	assert.Equal(t, []string{"яблоко", "банан", "апельсин"}, terms)
}

func TestParseDictionary_NormalizesToNFC(t *testing.T) {
	// "ёж" with a combining diaeresis, padded with spaces.
	dict, err := ParseDictionary([]byte(`"\u0435\u0308ж ": [" \u0435\u0308ж", hedgehog]`))
	require.NoError(t, err)

	e, ok := dict.Lookup("\u0451ж")
	require.True(t, ok)
	assert.Equal(t, "\u0451ж", e.Term)
	assert.Equal(t, "\u0451ж", e.Canonical)
	assert.Equal(t, "hedgehog", e.Hint)
}

func TestParseDictionary_DuplicateAfterNormalization(t *testing.T) {
	_, err := ParseDictionary([]byte("\"\\u0451ж\": [a, b]\n\"\\u0435\\u0308ж\": [c, d]\n"))
	assert.ErrorIs(t, err, hints.ErrDuplicateTerm)
}

func TestParseDictionary_Empty(t *testing.T) {
	for _, in := range []string{"", "{}", "# only a comment\n"} {
		dict, err := ParseDictionary([]byte(in))
		require.NoError(t, err, in)
		assert.Zero(t, dict.Len(), in)
	}
}

func TestParseDictionary_Errors(t *testing.T) {
	tests := map[string]string{
		"not a mapping":  "- кошка\n- собака\n",
		"one item":       "кошка: [кошка]\n",
		"three items":    "кошка: [a, b, c]\n",
		"scalar value":   "кошка: cat\n",
		"empty term":     "\"  \": [a, b]\n",
		"broken yaml":    "кошка: [a, b\n",
		"non-scalar key": "? [a, b]\n: [c, d]\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDictionary([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadDictionaryFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "terms.yaml"), catDictYAML)

	dict, err := LoadDictionaryFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dict.Len())

	_, err = LoadDictionaryFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, filepath.Join(dir, "bad.yaml"), "кошка: [a]\n")
	_, err = LoadDictionaryFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
	assert.Contains(t, err.Error(), "line 1")
}

func TestWriteDictionary(t *testing.T) {
	entries := []ports.TermEntry{
		{Term: "да", Canonical: "yes", Hint: "no"},
		{Term: "C++", Canonical: "C++", Hint: "язык: программирования"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteDictionary(&buf, entries))

	dict, err := ParseDictionary(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, entries, dict.Entries())

	buf.Reset()
	require.NoError(t, WriteDictionary(&buf, nil))
	dict, err = ParseDictionary(buf.Bytes())
	require.NoError(t, err)
	assert.Zero(t, dict.Len())
}
