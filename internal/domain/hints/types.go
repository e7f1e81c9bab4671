// Package hints finds dictionary terms (Russian words with their inflected
// forms, and multi-word phrases) in HTML-like text and wraps the first
// meaningful mentions in a hint marker.
//
// The markup is never parsed into a tree. Regions are found with regular
// patterns over the flat text:
//
//	allowed  <h1>..</h1> <p>..</p> <li>..</li> ...   (at least one must exist)
//	stop     <a ..a>  <iframe ../iframe>  <img ..>   (never annotated)
//
// Each term is compiled into an anchored pattern, scanned over the whole text,
// filtered against stop regions and against spots already claimed by longer
// terms, thinned by a minimum-distance rule and capped at three occurrences.
// All accepted occurrences are spliced into the text from the end backwards.
package hints

import (
	"regexp"
	"unicode/utf8"

	"github.com/aden1s/ruphrasehints/internal/ports"
)

const (
	// MinDistance is the number of characters a retained occurrence must lie
	// past the previously retained occurrence of the same term.
	MinDistance = 150

	// MaxPerTerm caps the number of retained occurrences per term.
	MaxPerTerm = 3

	// minWordRunes is the shortest single word that is compiled at all.
	minWordRunes = 3

	// minStemRunes is the shortest single word that gets suffix fuzzing.
	minStemRunes = 4
)

// DefaultAllowedTags lists the tags whose content may be annotated.
var DefaultAllowedTags = []string{"h1", "h2", "h3", "h4", "p", "li"}

// Span is a [Start, End) byte range over the original text.
type Span struct {
	Start int
	End   int
}

// Contains reports whether both start and end lie inside the span, bounds
// included. A range that begins outside and ends inside is not contained.
func (s Span) Contains(start, end int) bool {
	return s.Start <= start && start <= s.End &&
		s.Start <= end && end <= s.End
}

// PatternKind tells which compilation rule produced a pattern.
type PatternKind int

const (
	KindPhrase  PatternKind = iota // multi-word term, per-word stem tolerance
	KindLiteral                    // exception word, matched verbatim
	KindStemmed                    // single word, suffix heuristics
)

func (k PatternKind) String() string {
	switch k {
	case KindPhrase:
		return "phrase"
	case KindLiteral:
		return "literal"
	case KindStemmed:
		return "stemmed"
	default:
		return "unknown"
	}
}

// CompiledPattern is a ready-to-scan matcher for one dictionary term.
type CompiledPattern struct {
	Matcher   *regexp.Regexp
	Term      string
	Canonical string
	Hint      string
	Kind      PatternKind

	// MatchCaseInsensitively is true for the regular path and false for
	// exception words (when the engine default is true).
	MatchCaseInsensitively bool

	// Literal is a lowercase string every match of Matcher contains.
	// Empty when no such literal could be derived.
	Literal string
}

// Occurrence is a retained match. Start and End delimit the word only,
// without the boundary characters around it.
type Occurrence struct {
	Start     int
	End       int
	Surface   string // text as it appears in the input
	Term      string
	Canonical string
	Hint      string
}

// Span returns the byte range of the occurrence.
func (o Occurrence) Span() Span {
	return Span{Start: o.Start, End: o.End}
}

// Accumulator collects the occurrences retained by the patterns processed so
// far in one run. Each scan reads it and the caller extends it afterwards, so
// a pattern never filters against its own occurrences.
type Accumulator struct {
	items []Occurrence
}

// Occurrences returns the retained occurrences in the order they were added.
func (a *Accumulator) Occurrences() []Occurrence {
	return a.items
}

// Add appends the occurrences of one finished pattern scan.
func (a *Accumulator) Add(occs []Occurrence) {
	a.items = append(a.items, occs...)
}

// Len returns the number of retained occurrences.
func (a *Accumulator) Len() int {
	return len(a.items)
}

// runeLen is the character count used by every length rule.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Entry is an alias so callers of the engine do not need to import ports.
type Entry = ports.TermEntry
