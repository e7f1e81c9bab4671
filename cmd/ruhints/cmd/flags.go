package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aden1s/ruphrasehints/internal/app"
	"github.com/aden1s/ruphrasehints/internal/domain/hints"
)

// engineFlags are the dictionary and matching flags shared by annotate,
// patterns and watch.
type engineFlags struct {
	dict          string
	dictName      string
	template      string
	tags          []string
	stopWords     []string
	exceptions    []string
	caseSensitive bool
	jobs          int
}

func (f *engineFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.dict, "dict", "d", "", "dictionary file (YAML or JSON)")
	fl.StringVarP(&f.dictName, "dict-name", "n", "", "stored dictionary name (see 'ruhints dict')")
	fl.StringVar(&f.template, "template", "", "hint template: {0} hint, {1} canonical form, {2} matched text")
	fl.StringSliceVar(&f.tags, "tags", nil, "tags whose content may be annotated (default h1,h2,h3,h4,p,li)")
	fl.StringSliceVar(&f.stopWords, "stop-words", nil, "single words never annotated")
	fl.StringSliceVar(&f.exceptions, "exceptions", nil, "single words matched verbatim with the opposite case mode")
	fl.BoolVar(&f.caseSensitive, "case-sensitive", false, "match terms case-sensitively")
	fl.IntVarP(&f.jobs, "jobs", "j", 0, "files annotated concurrently (default: number of CPUs)")
	cmd.MarkFlagsMutuallyExclusive("dict", "dict-name")
}

// overrides returns the flags the user actually set.
func (f *engineFlags) overrides(cmd *cobra.Command) (app.Overrides, error) {
	var o app.Overrides
	fl := cmd.Flags()
	if f.dict != "" {
		abs, err := filepath.Abs(f.dict)
		if err != nil {
			return o, err
		}
		o.Dictionary = abs
	}
	o.DictionaryName = f.dictName
	o.HintTemplate = f.template
	if fl.Changed("tags") {
		o.AllowedTags = f.tags
	}
	if fl.Changed("stop-words") {
		o.StopWords = f.stopWords
	}
	if fl.Changed("exceptions") {
		o.Exceptions = f.exceptions
	}
	if fl.Changed("case-sensitive") {
		ci := !f.caseSensitive
		o.MatchCaseInsensitively = &ci
	}
	o.Jobs = f.jobs
	return o, nil
}

// openEngineApp opens the App with f applied and resolves its dictionary.
// The caller closes the App.
func openEngineApp(cmd *cobra.Command, f *engineFlags) (*app.App, *hints.Dictionary, error) {
	o, err := f.overrides(cmd)
	if err != nil {
		return nil, nil, err
	}
	a, err := openApp(o)
	if err != nil {
		return nil, nil, err
	}
	dict, err := a.Dictionary()
	if err != nil {
		a.Close()
		if errors.Is(err, app.ErrNoDictionary) {
			return nil, nil, fmt.Errorf("%w: pass --dict FILE or --dict-name NAME, or set dictionary in the config", err)
		}
		return nil, nil, withLockHint(a.Paths.DB, err)
	}
	return a, dict, nil
}
