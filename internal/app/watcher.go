package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	fsw "github.com/aden1s/ruphrasehints/internal/adapters/fsnotify"
	"github.com/aden1s/ruphrasehints/internal/domain/hints"
	"github.com/aden1s/ruphrasehints/internal/ports"
)

func defaultWatcher(skipPaths ...string) (ports.Watcher, error) {
	return fsw.NewWatcher(fsw.DefaultExtensions, skipPaths...)
}

// isContentFile reports whether path has one of the watched content extensions.
func isContentFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range fsw.DefaultExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// CollectJobs lists the content files under src. Each file maps to the same
// relative path under out, or to itself when out is empty.
func CollectJobs(src, out string) ([]FileJob, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}
	if out != "" {
		if out, err = filepath.Abs(out); err != nil {
			return nil, err
		}
	}

	var jobs []FileJob
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != src && (path == out || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isContentFile(path) {
			return nil
		}
		jobs = append(jobs, jobFor(src, out, path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", src, err)
	}
	return jobs, nil
}

func jobFor(src, out, path string) FileJob {
	if out == "" {
		return FileJob{Src: path, Dst: path}
	}
	rel, err := filepath.Rel(src, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return FileJob{Src: path, Dst: filepath.Join(out, rel)}
}

// Watch annotates every content file under src into out, then keeps out in
// sync with src until ctx is cancelled. Annotating in place is refused: the
// rewritten files would trigger the watcher again.
func (a *App) Watch(ctx context.Context, src, out string, dict *hints.Dictionary) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if out == "" {
		return fmt.Errorf("watch: output directory required")
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	if absOut == absSrc {
		return fmt.Errorf("watch: output directory must differ from %s", absSrc)
	}

	jobs, err := CollectJobs(absSrc, absOut)
	if err != nil {
		return err
	}
	reports, err := a.AnnotateFiles(ctx, jobs, dict)
	if err != nil {
		return err
	}
	a.log.Info("initial pass done", "files", len(reports), "src", absSrc, "out", absOut)

	w, err := a.newWatcher(absOut)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	err = w.Watch(absSrc, func(path string) {
		a.onContentChanged(absSrc, absOut, path, dict)
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", absSrc, err)
	}
	a.log.Info("watching", "src", absSrc)

	<-ctx.Done()
	return nil
}

// onContentChanged re-annotates one changed file.
func (a *App) onContentChanged(src, out, path string, dict *hints.Dictionary) {
	if !isContentFile(path) {
		return
	}
	if _, err := os.Stat(path); err != nil {
		// Removed or renamed away; the stale output stays until the next full pass.
		a.log.Debug("source gone", "path", path)
		return
	}
	rep, err := a.AnnotateFile(jobFor(src, out, path), dict)
	if err != nil {
		a.log.Warn("annotate failed", "path", path, "err", err)
		return
	}
	a.log.Info("re-annotated", "src", rep.Src, "dst", rep.Dst, "hints", rep.Hints)
}
