// Package app wires together all adapters and domain logic.
// It resolves configuration and dictionaries, then annotates texts, files and
// watched content directories.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aden1s/ruphrasehints/internal/adapters/ahocorasick"
	"github.com/aden1s/ruphrasehints/internal/adapters/bbolt"
	"github.com/aden1s/ruphrasehints/internal/adapters/snowball"
	"github.com/aden1s/ruphrasehints/internal/domain/hints"
	"github.com/aden1s/ruphrasehints/internal/ports"
)

var (
	// ErrDictionaryNotFound is returned when a named dictionary is not in the store.
	ErrDictionaryNotFound = errors.New("dictionary not found")
	// ErrNoDictionary is returned when neither a file nor a stored name is configured.
	ErrNoDictionary = errors.New("no dictionary configured")
)

// Options configures New. Only ProjectRoot is required; nil adapters are
// replaced with the production ones.
type Options struct {
	ProjectRoot string
	Config      *Config
	Logger      *slog.Logger
	Store       ports.DictionaryStore
	Stemmer     ports.Stemmer
	Prefilter   ports.Prefilter
	// NewWatcher creates the content watcher used by Watch.
	NewWatcher func(skipPaths ...string) (ports.Watcher, error)
}

// App holds the engine and the adapters behind it.
type App struct {
	Paths  *Paths
	Config *Config
	Engine *hints.Engine

	log        *slog.Logger
	stemmer    ports.Stemmer
	newWatcher func(skipPaths ...string) (ports.Watcher, error)

	mu     sync.Mutex
	store  ports.DictionaryStore
	closer io.Closer
}

// New builds an App. The dictionary store is opened lazily, on first use.
func New(opts Options) (*App, error) {
	if opts.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tmpl, err := cfg.Template()
	if err != nil {
		return nil, err
	}

	a := &App{
		Paths:      NewPaths(opts.ProjectRoot),
		Config:     cfg,
		log:        opts.Logger,
		stemmer:    opts.Stemmer,
		store:      opts.Store,
		newWatcher: opts.NewWatcher,
	}
	if a.log == nil {
		a.log = slog.New(slog.DiscardHandler)
	}
	if a.stemmer == nil {
		a.stemmer = snowball.NewStemmer()
	}
	prefilter := opts.Prefilter
	if prefilter == nil {
		prefilter = ahocorasick.NewPrefilter()
	}
	if a.newWatcher == nil {
		a.newWatcher = defaultWatcher
	}

	engineOpts := append(cfg.EngineOptions(), hints.WithPrefilter(prefilter))
	a.Engine = hints.NewEngine(a.stemmer, tmpl, engineOpts...)
	return a, nil
}

// Close releases the dictionary store if App opened it.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.store, a.closer = nil, nil
	return err
}

// Store returns the dictionary store, opening .ruhints/ruhints.db if needed.
func (a *App) Store() (ports.DictionaryStore, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.store != nil {
		return a.store, nil
	}
	if err := a.Paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	s, err := bbolt.NewStore(a.Paths.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store, a.closer = s, s
	return s, nil
}

// Dictionary resolves the configured dictionary: a file path wins over a
// stored name.
func (a *App) Dictionary() (*hints.Dictionary, error) {
	switch {
	case a.Config.Dictionary != "":
		return LoadDictionaryFile(a.resolve(a.Config.Dictionary))
	case a.Config.DictionaryName != "":
		return a.StoredDictionary(a.Config.DictionaryName)
	}
	return nil, ErrNoDictionary
}

// StoredDictionary loads a named dictionary from the store.
func (a *App) StoredDictionary(name string) (*hints.Dictionary, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	sd, err := store.LoadDictionary(name)
	if err != nil {
		return nil, fmt.Errorf("load dictionary %q: %w", name, err)
	}
	if sd == nil {
		return nil, fmt.Errorf("%w: %q", ErrDictionaryNotFound, name)
	}
	dict, err := hints.NewDictionary(sd.Entries...)
	if err != nil {
		return nil, fmt.Errorf("dictionary %q: %w", name, err)
	}
	return dict, nil
}

// Annotate runs the engine over text and logs every skipped term.
func (a *App) Annotate(text string, dict *hints.Dictionary) hints.Result {
	res := a.Engine.Process(text, dict)
	a.logSkipped(res.Skipped)
	return res
}

// Patterns compiles dict without scanning any text.
func (a *App) Patterns(dict *hints.Dictionary) ([]hints.CompiledPattern, []error) {
	return a.Engine.Compile(dict)
}

func (a *App) logSkipped(skipped []error) {
	for _, err := range skipped {
		var invalid *hints.InvalidTermError
		var stem *hints.StemmingError
		switch {
		case errors.As(err, &invalid):
			a.log.Warn("term skipped", "term", invalid.Term, "reason", "invalid pattern", "err", invalid.Err)
		case errors.As(err, &stem):
			a.log.Warn("term skipped", "term", stem.Term, "reason", "stemming failed", "word", stem.Word, "err", stem.Err)
		default:
			a.log.Warn("term skipped", "err", err)
		}
	}
}

// FileJob names a source file and where its annotated version goes.
// Dst equal to Src rewrites the file in place.
type FileJob struct {
	Src string
	Dst string
}

// FileReport summarizes one annotated file.
type FileReport struct {
	Src         string             `json:"src"`
	Dst         string             `json:"dst"`
	Occurrences []hints.Occurrence `json:"-"`
	Hints       int                `json:"hints"`
	Skipped     int                `json:"skipped"`
	Written     bool               `json:"written"`
}

// AnnotateFile annotates a single file. In-place jobs leave files without
// occurrences untouched.
func (a *App) AnnotateFile(job FileJob, dict *hints.Dictionary) (FileReport, error) {
	rep := FileReport{Src: job.Src, Dst: job.Dst}
	data, err := os.ReadFile(job.Src)
	if err != nil {
		return rep, fmt.Errorf("read %s: %w", job.Src, err)
	}

	res := a.Engine.Process(string(data), dict)
	rep.Occurrences = res.Occurrences
	rep.Hints = len(res.Occurrences)
	rep.Skipped = len(res.Skipped)

	if job.Dst == job.Src && !res.Changed() {
		return rep, nil
	}
	if err := os.MkdirAll(filepath.Dir(job.Dst), 0o755); err != nil {
		return rep, err
	}
	if err := writeFileAtomic(job.Dst, []byte(res.Text)); err != nil {
		return rep, fmt.Errorf("write %s: %w", job.Dst, err)
	}
	rep.Written = true
	a.log.Debug("annotated", "src", job.Src, "dst", job.Dst, "hints", rep.Hints)
	return rep, nil
}

// AnnotateFiles annotates jobs concurrently, at most Config.Jobs at a time.
// Reports come back in job order. The first failure cancels the rest.
func (a *App) AnnotateFiles(ctx context.Context, jobs []FileJob, dict *hints.Dictionary) ([]FileReport, error) {
	// Skipped terms are the same for every file; log them once.
	if dict != nil {
		_, skipped := a.Engine.Compile(dict)
		a.logSkipped(skipped)
	}

	reports := make([]FileReport, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	limit := a.Config.Jobs
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := a.AnnotateFile(job, dict)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// ImportDictionary reads a dictionary file and stores it under name.
func (a *App) ImportDictionary(name, path string) (*ports.StoredDictionary, error) {
	dict, err := LoadDictionaryFile(path)
	if err != nil {
		return nil, err
	}
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	sd := &ports.StoredDictionary{Name: name, Entries: dict.Entries()}
	if err := store.SaveDictionary(sd); err != nil {
		return nil, fmt.Errorf("save dictionary %q: %w", name, err)
	}
	a.log.Info("dictionary imported", "name", name, "terms", len(sd.Entries), "from", path)
	return sd, nil
}

// ListDictionaries returns the stored dictionary names, sorted.
func (a *App) ListDictionaries() ([]*ports.StoredDictionary, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	names, err := store.ListDictionaries()
	if err != nil {
		return nil, err
	}
	out := make([]*ports.StoredDictionary, 0, len(names))
	for _, n := range names {
		sd, err := store.LoadDictionary(n)
		if err != nil {
			return nil, fmt.Errorf("load dictionary %q: %w", n, err)
		}
		if sd != nil {
			out = append(out, sd)
		}
	}
	return out, nil
}

// RemoveDictionary deletes a stored dictionary.
func (a *App) RemoveDictionary(name string) error {
	store, err := a.Store()
	if err != nil {
		return err
	}
	sd, err := store.LoadDictionary(name)
	if err != nil {
		return err
	}
	if sd == nil {
		return fmt.Errorf("%w: %q", ErrDictionaryNotFound, name)
	}
	return store.DeleteDictionary(name)
}

// resolve makes a relative path relative to the project root.
func (a *App) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(a.Paths.Root), p)
}

// writeFileAtomic writes through a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(name, info.Mode().Perm())
	} else {
		_ = os.Chmod(name, 0o644)
	}
	return os.Rename(name, path)
}
