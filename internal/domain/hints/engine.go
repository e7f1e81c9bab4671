package hints

import (
	"github.com/aden1s/ruphrasehints/internal/ports"
)

// Engine annotates texts with hints. It holds only configuration and is safe
// for concurrent use; every Process call owns its own session.
type Engine struct {
	stemmer                ports.Stemmer
	prefilter              ports.Prefilter
	allowedTags            []string
	stopWords              []string
	exceptions             []string
	matchCaseInsensitively bool
	template               *Template

	classifier *RegionClassifier
	compiler   *Compiler
}

// Option configures an Engine.
type Option func(*Engine)

// WithAllowedTags sets the tags whose presence enables annotation.
func WithAllowedTags(tags ...string) Option {
	return func(e *Engine) { e.allowedTags = tags }
}

// WithStopWords sets single words that are never annotated.
func WithStopWords(words ...string) Option {
	return func(e *Engine) { e.stopWords = words }
}

// WithExceptions sets single words matched verbatim, with the opposite case
// mode from the default.
func WithExceptions(words ...string) Option {
	return func(e *Engine) { e.exceptions = words }
}

// WithMatchCaseInsensitively sets the default case mode. It defaults to true.
func WithMatchCaseInsensitively(v bool) Option {
	return func(e *Engine) { e.matchCaseInsensitively = v }
}

// WithPrefilter lets the engine skip terms whose literal prefix does not
// occur in the text. Results are identical with or without it.
func WithPrefilter(p ports.Prefilter) Option {
	return func(e *Engine) { e.prefilter = p }
}

// NewEngine creates an engine that renders occurrences with tmpl
// (DefaultTemplate when nil).
func NewEngine(stemmer ports.Stemmer, tmpl *Template, opts ...Option) *Engine {
	e := &Engine{
		stemmer:                stemmer,
		template:               tmpl,
		allowedTags:            DefaultAllowedTags,
		matchCaseInsensitively: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.template == nil {
		e.template = MustParseTemplate(DefaultTemplate)
	}
	e.classifier = NewRegionClassifier(e.allowedTags)
	e.compiler = NewCompiler(e.stemmer, e.stopWords, e.exceptions, e.matchCaseInsensitively)
	return e
}

// Result is the outcome of one Process call.
type Result struct {
	Text        string
	Occurrences []Occurrence // in the order they were retained
	Patterns    int          // patterns compiled
	Scanned     int          // patterns actually run over the text
	Skipped     []error      // *InvalidTermError and *StemmingError, one per term
	Regions     Regions
}

// Changed reports whether any occurrence was annotated.
func (r *Result) Changed() bool {
	return len(r.Occurrences) > 0
}

// session is the per-call state: the text, its regions and the accumulator.
type session struct {
	text    string
	regions Regions
	acc     Accumulator
}

// Process annotates text with the terms of dict. Without any allowed region
// the text is returned unchanged and nothing is compiled.
func (e *Engine) Process(text string, dict *Dictionary) Result {
	s := &session{text: text, regions: e.classifier.Classify(text)}
	res := Result{Text: text, Regions: s.regions}
	if len(s.regions.Allowed) == 0 || dict == nil || dict.Len() == 0 {
		return res
	}

	patterns, skipped := e.compiler.Compile(dict.Ordered())
	res.Patterns = len(patterns)
	res.Skipped = skipped

	present := e.present(text, patterns)
	for i, p := range patterns {
		if !present[i] {
			continue
		}
		res.Scanned++
		s.acc.Add(Scan(p, s.text, s.acc.Occurrences(), s.regions.Stops))
	}

	res.Occurrences = s.acc.Occurrences()
	res.Text = Rewrite(s.text, res.Occurrences, e.template)
	return res
}

// Compile exposes the compiled patterns for dict, longest term first.
func (e *Engine) Compile(dict *Dictionary) ([]CompiledPattern, []error) {
	if dict == nil {
		return nil, nil
	}
	return e.compiler.Compile(dict.Ordered())
}

func (e *Engine) present(text string, patterns []CompiledPattern) []bool {
	if e.prefilter == nil {
		all := make([]bool, len(patterns))
		for i := range all {
			all[i] = true
		}
		return all
	}
	literals := make([]string, len(patterns))
	for i, p := range patterns {
		literals[i] = p.Literal
	}
	return e.prefilter.Present(text, literals)
}
