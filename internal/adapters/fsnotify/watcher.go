// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches a content directory, keeps only files with content
// extensions (.html, .htm by default), skips ignored directories and debounces
// rapid events (editors often trigger multiple writes per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories to ignore when watching.
var ignoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
	".ruhints":     true,
}

// DefaultExtensions are the content file extensions that trigger onChange.
var DefaultExtensions = []string{".html", ".htm"}

const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw         *fsnotify.Watcher
	extensions map[string]bool
	skipPaths  []string
	done       chan struct{}
	stopped    bool
	mu         sync.Mutex

	// pmu guards the debounce state. A timer fires only if its generation
	// is still the current one for its path.
	pmu      sync.Mutex
	pending  map[string]*pendingChange
	closing  bool
	inflight sync.WaitGroup
}

type pendingChange struct {
	timer *time.Timer
	gen   uint64
}

// NewWatcher creates a new file system watcher for the given extensions
// (DefaultExtensions when empty). Files under any of skipPaths never fire,
// which keeps an output directory inside the watched tree from looping.
func NewWatcher(extensions []string, skipPaths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	var skips []string
	for _, p := range skipPaths {
		if abs, err := filepath.Abs(p); err == nil {
			skips = append(skips, abs)
		}
	}
	return &Watcher{
		fw:         fw,
		extensions: exts,
		skipPaths:  skips,
		done:       make(chan struct{}),
		pending:    make(map[string]*pendingChange),
	}, nil
}

// Watch starts monitoring contentPath recursively.
// onChange is called with the absolute path of each changed content file.
func (w *Watcher) Watch(contentPath string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(contentPath)
	if err != nil {
		return err
	}

	// Walk and add all directories
	err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if path != absPath && (shouldIgnoreDir(info.Name()) || w.skipped(path)) {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	go w.loop(onChange)
	return nil
}

// loop dispatches events until Stop.
func (w *Watcher) loop(onChange func(filePath string)) {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			path := event.Name

			// For Create events, add new directories to the watch list
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					if !shouldIgnoreDir(info.Name()) && !w.skipped(path) {
						w.fw.Add(path)
					}
					continue
				}
			}

			if !w.relevant(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.schedule(path, onChange)

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// fsnotify keeps delivering after transient errors

		case <-w.done:
			return
		}
	}
}

// schedule (re)arms the debounce timer of path. Each path fires once,
// debounceInterval after its last event, so a create followed by writes is
// seen as one change.
func (w *Watcher) schedule(path string, onChange func(filePath string)) {
	w.pmu.Lock()
	defer w.pmu.Unlock()
	if w.closing {
		return
	}
	p := w.pending[path]
	if p == nil {
		p = &pendingChange{}
		w.pending[path] = p
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(debounceInterval, func() { w.fire(path, gen, onChange) })
}

// fire runs onChange unless a newer event superseded gen or Stop began.
func (w *Watcher) fire(path string, gen uint64, onChange func(filePath string)) {
	w.pmu.Lock()
	p, ok := w.pending[path]
	if w.closing || !ok || p.gen != gen {
		w.pmu.Unlock()
		return
	}
	delete(w.pending, path)
	w.inflight.Add(1)
	w.pmu.Unlock()

	defer w.inflight.Done()
	onChange(path)
}

// Stop ends monitoring and releases all resources. It waits for a running
// onChange to return, so onChange must not call Stop.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	err := w.fw.Close()

	w.pmu.Lock()
	w.closing = true
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.pmu.Unlock()

	w.inflight.Wait()
	return err
}

// shouldIgnoreDir returns true if the directory name should be skipped.
func shouldIgnoreDir(name string) bool {
	return ignoreDirs[name]
}

// skipped reports whether path lies under one of the skip paths.
func (w *Watcher) skipped(path string) bool {
	for _, s := range w.skipPaths {
		if path == s || strings.HasPrefix(path, s+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// relevant returns true if a change to path should trigger onChange.
func (w *Watcher) relevant(path string) bool {
	if !w.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	if w.skipped(path) {
		return false
	}
	// Check if any path component is an ignored directory
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return false
		}
	}
	return true
}
