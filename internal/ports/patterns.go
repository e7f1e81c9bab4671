package ports

// Prefilter answers, in one pass over the text, which of a set of literals
// occur in it (Aho-Corasick). The hint engine uses it to skip regex scans for
// terms whose required literal prefix is absent.
//
// Literals and text are compared after lowercasing, so a false answer means the
// literal cannot occur in any case. A true answer is only a hint that the full
// pattern might match.
type Prefilter interface {
	// Present reports, for each literal, whether it occurs in text.
	// The result has the same length as literals. Empty literals are
	// always reported present.
	Present(text string, literals []string) []bool
}
