// Package ahocorasick implements the ports.Prefilter interface using an
// Aho-Corasick automaton. It wraps the petar-dambovaliev/aho-corasick library
// so that all term literals are located in one O(n + m + z) pass instead of
// one regex scan per term.
package ahocorasick

import (
	"strings"
	"sync"

	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Prefilter implements ports.Prefilter. The last automaton is kept and reused
// while the literal set stays the same, which is the common case when one
// dictionary is applied to many texts. Safe for concurrent use.
type Prefilter struct {
	mu   sync.Mutex
	key  string
	set  *literalSet
}

// NewPrefilter creates an empty prefilter.
func NewPrefilter() *Prefilter {
	return &Prefilter{}
}

// Present reports which literals occur in text, comparing in lowercase.
func (p *Prefilter) Present(text string, literals []string) []bool {
	present := make([]bool, len(literals))
	for i, l := range literals {
		if l == "" {
			present[i] = true
		}
	}

	set := p.literalSet(literals)
	if len(set.literals) == 0 {
		return present
	}

	found := set.found([]byte(strings.ToLower(text)))
	for i, l := range literals {
		if l != "" && found[strings.ToLower(l)] {
			present[i] = true
		}
	}
	return present
}

func (p *Prefilter) literalSet(literals []string) *literalSet {
	key := strings.Join(literals, "\x00")

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.set != nil && p.key == key {
		return p.set
	}

	// Deduplicate: the automaton reports one pattern id per distinct literal.
	seen := make(map[string]bool, len(literals))
	var patterns []string
	for _, l := range literals {
		l = strings.ToLower(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		patterns = append(patterns, l)
	}
	p.key = key
	p.set = newLiteralSet(patterns)
	return p.set
}

// literalSet is an automaton over a fixed, deduplicated set of lowercase
// literals.
type literalSet struct {
	automaton aho.AhoCorasick
	literals  []string
}

func newLiteralSet(literals []string) *literalSet {
	s := &literalSet{literals: literals}
	if len(literals) > 0 {
		builder := aho.NewAhoCorasickBuilder(aho.Opts{DFA: true})
		s.automaton = builder.Build(literals)
	}
	return s
}

// found returns the literals that occur in text. Iteration stops once every
// literal has been seen.
func (s *literalSet) found(text []byte) map[string]bool {
	seen := make(map[string]bool, len(s.literals))
	if len(s.literals) == 0 {
		return seen
	}
	iter := s.automaton.IterOverlappingByte(text)
	for m := iter.Next(); m != nil; m = iter.Next() {
		seen[s.literals[m.Pattern()]] = true
		if len(seen) == len(s.literals) {
			break
		}
	}
	return seen
}
