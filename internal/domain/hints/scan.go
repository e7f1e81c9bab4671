package hints

import "unicode/utf8"

// Scan runs one pattern over text and returns the occurrences it retains.
// It is a pure function: prior holds the occurrences of patterns processed
// earlier in the run and is only read.
//
// A match is dropped when its word lies inside a prior occurrence or inside a
// stop span (both ends inside, bounds included), or when it starts no more
// than MinDistance characters after the last retained match. The cursor
// starts at 0, so a term is never annotated within the first MinDistance
// characters of the text.
func Scan(p CompiledPattern, text string, prior []Occurrence, stops []Span) []Occurrence {
	var (
		accepted []Occurrence
		cur      = runeCursor{text: text}
		last     = 0
	)
	for _, m := range p.Matcher.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2*wordGroup], m[2*wordGroup+1]
		if start < 0 {
			continue
		}
		if insideOccurrence(prior, start, end) {
			continue
		}
		if insideAny(stops, start, end) {
			continue
		}
		pos := cur.at(start)
		if pos-last <= MinDistance {
			continue
		}
		last = pos
		accepted = append(accepted, Occurrence{
			Start:     start,
			End:       end,
			Surface:   text[start:end],
			Term:      p.Term,
			Canonical: p.Canonical,
			Hint:      p.Hint,
		})
	}
	return capOccurrences(accepted)
}

func insideOccurrence(occs []Occurrence, start, end int) bool {
	for _, o := range occs {
		if o.Span().Contains(start, end) {
			return true
		}
	}
	return false
}

// middleIndex is the index of the occurrence kept between the first and the
// last one. It is n / (n / 2) with integer division, which is 2 for every
// n >= 4; it is not a median.
func middleIndex(n int) int {
	return n / (n / 2)
}

// capOccurrences keeps the first, the middle and the last occurrence when a
// term has more than MaxPerTerm. Text order is preserved.
func capOccurrences(occs []Occurrence) []Occurrence {
	n := len(occs)
	if n <= MaxPerTerm {
		return occs
	}
	return []Occurrence{occs[0], occs[middleIndex(n)], occs[n-1]}
}

// runeCursor converts increasing byte offsets to character offsets without
// rescanning the text from the start each time.
type runeCursor struct {
	text  string
	bytes int
	runes int
}

func (c *runeCursor) at(off int) int {
	if off < c.bytes {
		c.bytes, c.runes = 0, 0
	}
	c.runes += utf8.RuneCountInString(c.text[c.bytes:off])
	c.bytes = off
	return c.runes
}
