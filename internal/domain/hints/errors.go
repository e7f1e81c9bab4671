package hints

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTerm is returned when a term is added to a dictionary twice.
	ErrDuplicateTerm = errors.New("duplicate term")

	// ErrBadTemplate is returned for hint templates with unknown placeholders
	// or unbalanced braces.
	ErrBadTemplate = errors.New("bad hint template")
)

// InvalidTermError reports a term whose compiled pattern is not a valid
// regular expression. Only that term is skipped.
type InvalidTermError struct {
	Term    string
	Pattern string
	Err     error
}

func (e *InvalidTermError) Error() string {
	return fmt.Sprintf("term %q: invalid pattern %q: %v", e.Term, e.Pattern, e.Err)
}

func (e *InvalidTermError) Unwrap() error { return e.Err }

// StemmingError reports a word of a term that the stemmer rejected.
// Only that term is skipped.
type StemmingError struct {
	Term string
	Word string
	Err  error
}

func (e *StemmingError) Error() string {
	return fmt.Sprintf("term %q: stem %q: %v", e.Term, e.Word, e.Err)
}

func (e *StemmingError) Unwrap() error { return e.Err }
