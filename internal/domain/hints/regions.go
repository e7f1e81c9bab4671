package hints

import (
	"regexp"
	"strings"
)

// stopPattern covers link anchors, embedded frames and images. "<a.*?a>" ends
// at the first "a>" after the opening, which is usually "</a>".
var stopPattern = regexp.MustCompile(`(?s)<a.*?a>|<iframe.*?/iframe>|<img.*?>`)

// Regions holds the two span sets of one text.
type Regions struct {
	Allowed []Span
	Stops   []Span
}

// RegionClassifier finds allowed and stop spans. It is immutable and may be
// shared.
type RegionClassifier struct {
	allowed *regexp.Regexp
}

// NewRegionClassifier builds a classifier for the given allowed tag names.
// An empty list falls back to DefaultAllowedTags.
func NewRegionClassifier(tags []string) *RegionClassifier {
	if len(tags) == 0 {
		tags = DefaultAllowedTags
	}
	alts := make([]string, len(tags))
	for i, t := range tags {
		q := regexp.QuoteMeta(t)
		alts[i] = "<" + q + ">.*?</" + q + ">"
	}
	return &RegionClassifier{
		allowed: regexp.MustCompile("(?s)" + strings.Join(alts, "|")),
	}
}

// Classify scans text once per span set. Spans come out in text order and
// are never merged or nested.
func (c *RegionClassifier) Classify(text string) Regions {
	return Regions{
		Allowed: findSpans(c.allowed, text),
		Stops:   findSpans(stopPattern, text),
	}
}

func findSpans(re *regexp.Regexp, text string) []Span {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]Span, len(locs))
	for i, loc := range locs {
		spans[i] = Span{Start: loc[0], End: loc[1]}
	}
	return spans
}

// insideAny reports whether [start, end] is contained in one of spans.
func insideAny(spans []Span, start, end int) bool {
	for _, s := range spans {
		if s.Contains(start, end) {
			return true
		}
	}
	return false
}
