package ports

// Stemmer reduces a word to its stem. The concrete implementation (snowball,
// Russian) lives in internal/adapters/snowball.
//
// Implementations must be deterministic and free of observable side effects:
// the hint compiler may call Stem many times for the same word. Only the
// rune length of the stem is relied upon, so case folding inside the stemmer
// is allowed.
type Stemmer interface {
	// Stem returns the stem of word. An error means the word could not be
	// stemmed (for example, it is empty); the caller skips that term.
	Stem(word string) (string, error)
}
