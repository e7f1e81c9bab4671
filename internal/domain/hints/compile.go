package hints

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aden1s/ruphrasehints/internal/ports"
)

// wsClass is the body of a Unicode-aware whitespace class. Go's \s is ASCII
// only; content often carries NBSP and other Z-category spaces.
const wsClass = `\s\v\x{1c}-\x{1f}\x{85}\p{Z}`

// suffixGroup is the closed set of noun/adjective endings tried after a stem.
const suffixGroup = `(ами|ы|ов|и|а|ом|ой|ий|ями|ей){0,1}`

// anchor wraps a word pattern so it must follow start of text, whitespace,
// '>' or '(' and be followed by one punctuation or whitespace character.
// Group 2 is the word.
func anchor(word string) string {
	return `(^|[` + wsClass + `]|>|\()(` + word + `)([);:?!,.` + wsClass + `])`
}

// wordGroup is the submatch index of the word inside an anchored pattern.
const wordGroup = 2

// Compiler turns dictionary entries into anchored patterns.
type Compiler struct {
	stemmer                ports.Stemmer
	stopWords              map[string]bool
	exceptions             map[string]bool
	matchCaseInsensitively bool
}

// NewCompiler creates a compiler. Stop words and exceptions are compared in
// lowercase.
func NewCompiler(stemmer ports.Stemmer, stopWords, exceptions []string, matchCaseInsensitively bool) *Compiler {
	return &Compiler{
		stemmer:                stemmer,
		stopWords:              lowerSet(stopWords),
		exceptions:             lowerSet(exceptions),
		matchCaseInsensitively: matchCaseInsensitively,
	}
}

func lowerSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

// Compile compiles entries in the given order. Terms that fail are left out
// and reported; they never stop the rest of the dictionary.
func (c *Compiler) Compile(entries []Entry) ([]CompiledPattern, []error) {
	patterns := make([]CompiledPattern, 0, len(entries))
	var errs []error
	for _, e := range entries {
		p, err := c.CompileTerm(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if p != nil {
			patterns = append(patterns, *p)
		}
	}
	return patterns, errs
}

// CompileTerm compiles one entry. It returns nil, nil for terms that are
// deliberately skipped (too short or stop-listed).
func (c *Compiler) CompileTerm(e Entry) (*CompiledPattern, error) {
	words := strings.Split(strings.Trim(e.Term, " "), " ")

	var (
		src, literal string
		kind         PatternKind
		insensitive  = c.matchCaseInsensitively
		err          error
	)

	switch {
	case len(words) > 1:
		kind = KindPhrase
		src, literal, err = c.phrase(e.Term, words)
		if err != nil {
			return nil, err
		}
	default:
		word := words[0]
		lower := strings.ToLower(word)
		if runeLen(word) < minWordRunes || c.stopWords[lower] {
			return nil, nil
		}
		if c.exceptions[lower] {
			kind = KindLiteral
			src, literal = anchor(escapeTerm(word)), literalPrefix(word)
			insensitive = !c.matchCaseInsensitively
			break
		}
		kind = KindStemmed
		src, literal, err = c.stemmed(e.Term, word)
		if err != nil {
			return nil, err
		}
	}

	re, err := compileMatcher(src, insensitive)
	if err != nil {
		return nil, &InvalidTermError{Term: e.Term, Pattern: src, Err: err}
	}
	return &CompiledPattern{
		Matcher:                re,
		Term:                   e.Term,
		Canonical:              e.Canonical,
		Hint:                   e.Hint,
		Kind:                   kind,
		MatchCaseInsensitively: insensitive,
		Literal:                literal,
	}, nil
}

func compileMatcher(src string, insensitive bool) (*regexp.Regexp, error) {
	flags := "(?s)"
	if insensitive {
		flags = "(?is)"
	}
	return regexp.Compile(flags + src)
}

// phrase builds the pattern for a multi-word term: every word is cut to the
// length of its stem and may be followed by a few extra letters.
func (c *Compiler) phrase(term string, words []string) (src, literal string, err error) {
	parts := make([]string, len(words))
	for i, w := range words {
		stem, err := c.stemmer.Stem(w)
		if err != nil {
			return "", "", &StemmingError{Term: term, Word: w, Err: err}
		}
		wr := []rune(w)
		n := min(runeLen(stem), len(wr))
		head := string(wr[:n])
		parts[i] = escapeTerm(head) + fmt.Sprintf("[А-ЯA-Z]{0,%d}", phraseTolerance(len(wr), runeLen(stem)))
		if i == 0 {
			literal = literalPrefix(head)
		}
	}
	return anchor(strings.Join(parts, " ")), literal, nil
}

// phraseTolerance is the maximum number of letters allowed after a phrase
// word's stem. Differences of 0 and 1 count as 0.
func phraseTolerance(wordRunes, stemRunes int) int {
	delta := wordRunes - stemRunes
	if delta <= 1 {
		delta = 0
	}
	return delta + 2 + 2
}

// stemmedRule selects how a single word is fuzzed.
type stemmedRule int

const (
	ruleLiteral      stemmedRule = iota // shorter than minStemRunes
	ruleStripAndFuzz                    // lowercase Cyrillic, stemmer removed a suffix
	ruleSuffixGroup                     // lowercase Cyrillic, nothing to remove
	ruleForeign                         // Latin, mixed script, digits...
)

// stemmedRules is the decision table for single words. Each builder returns
// the word pattern and its literal prefix.
var stemmedRules = [...]struct {
	name  string
	build func(word string) (src, literal string)
}{
	ruleLiteral: {"literal", func(w string) (string, string) {
		return escapeTerm(w), literalPrefix(w)
	}},
	ruleStripAndFuzz: {"strip-and-fuzz", func(w string) (string, string) {
		head := dropLastRune(w)
		return escapeTerm(head) + `[а-я]{0,1}` + suffixGroup, literalPrefix(head)
	}},
	ruleSuffixGroup: {"suffix-group", func(w string) (string, string) {
		return escapeTerm(w) + suffixGroup, literalPrefix(w)
	}},
	ruleForeign: {"foreign", func(w string) (string, string) {
		head := dropLastRune(w)
		return escapeTerm(head) + `[А-ЯA-Z]{1,4}`, literalPrefix(head)
	}},
}

func (r stemmedRule) String() string {
	if int(r) < len(stemmedRules) {
		return stemmedRules[r].name
	}
	return "unknown"
}

// classifyStemmed picks the rule for a single word.
func (c *Compiler) classifyStemmed(term, word string) (stemmedRule, error) {
	if runeLen(word) < minStemRunes {
		return ruleLiteral, nil
	}
	stem, err := c.stemmer.Stem(word)
	if err != nil {
		return 0, &StemmingError{Term: term, Word: word, Err: err}
	}
	if !isLowerCyrillic(strings.ToLower(word)) {
		return ruleForeign, nil
	}
	if runeLen(word) != runeLen(stem) {
		return ruleStripAndFuzz, nil
	}
	return ruleSuffixGroup, nil
}

func (c *Compiler) stemmed(term, word string) (src, literal string, err error) {
	rule, err := c.classifyStemmed(term, word)
	if err != nil {
		return "", "", err
	}
	src, literal = stemmedRules[rule].build(word)
	return anchor(src), literal, nil
}

// isLowerCyrillic reports whether every rune is in а..я (ё excluded).
func isLowerCyrillic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'а' || r > 'я' {
			return false
		}
	}
	return true
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
