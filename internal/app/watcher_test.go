package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aden1s/ruphrasehints/internal/ports"
)

// fakeWatcher hands the registered callback to the test.
type fakeWatcher struct {
	mu       sync.Mutex
	skip     []string
	onChange func(string)
	ready    chan struct{}
	stopped  bool
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{ready: make(chan struct{})}
}

func (f *fakeWatcher) Watch(_ string, onChange func(string)) error {
	f.mu.Lock()
	f.onChange = onChange
	f.mu.Unlock()
	close(f.ready)
	return nil
}

func (f *fakeWatcher) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeWatcher) fire(path string) {
	f.mu.Lock()
	cb := f.onChange
	f.mu.Unlock()
	cb(path)
}

func newWatchApp(t *testing.T, fw *fakeWatcher) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.HintTemplate = "[{2}|{0}]"
	a, err := New(Options{
		ProjectRoot: t.TempDir(),
		Config:      cfg,
		NewWatcher: func(skip ...string) (ports.Watcher, error) {
			fw.skip = skip
			return fw, nil
		},
	})
	require.NoError(t, err)
	return a
}

func TestCollectJobs(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "index.html"), "x")
	writeFile(t, filepath.Join(src, "docs", "page.HTM"), "x")
	writeFile(t, filepath.Join(src, ".git", "x.html"), "x")
	writeFile(t, filepath.Join(src, "out", "old.html"), "x")
	writeFile(t, filepath.Join(src, "readme.md"), "x")

	out := filepath.Join(src, "out")
	jobs, err := CollectJobs(src, out)
	require.NoError(t, err)
	assert.Equal(t, []FileJob{
		{Src: filepath.Join(src, "docs", "page.HTM"), Dst: filepath.Join(out, "docs", "page.HTM")},
		{Src: filepath.Join(src, "index.html"), Dst: filepath.Join(out, "index.html")},
	}, jobs)

	inPlace, err := CollectJobs(src, "")
	require.NoError(t, err)
	require.Len(t, inPlace, 3, "without an output dir, out/ is ordinary content")
	for _, j := range inPlace {
		assert.Equal(t, j.Src, j.Dst)
	}
}

func TestWatch_RejectsInPlace(t *testing.T) {
	a := newWatchApp(t, newFakeWatcher())
	dir := t.TempDir()

	assert.Error(t, a.Watch(context.Background(), dir, "", catDict(t)))
	assert.Error(t, a.Watch(context.Background(), dir, dir, catDict(t)))
}

func TestWatch_InitialPassAndChanges(t *testing.T) {
	fw := newFakeWatcher()
	a := newWatchApp(t, fw)
	src := t.TempDir()
	out := filepath.Join(src, "out")
	first := writeFile(t, filepath.Join(src, "first.html"), "<p>"+pad+" Кошка.</p>")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, src, out, catDict(t)) }()

	select {
	case <-fw.ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never started")
	}
	assert.Equal(t, []string{out}, fw.skip, "output dir is excluded from watching")
	assert.Equal(t, "<p>"+pad+" [Кошка|cat].</p>", readFile(t, filepath.Join(out, "first.html")))

	second := writeFile(t, filepath.Join(src, "sub", "second.html"), "<li>"+pad+" Кошки!</li>")
	fw.fire(second)
	assert.Equal(t, "<li>"+pad+" [Кошки|cat]!</li>", readFile(t, filepath.Join(out, "sub", "second.html")))

	// Non-content and vanished files are ignored.
	fw.fire(filepath.Join(src, "notes.txt"))
	fw.fire(filepath.Join(src, "gone.html"))
	assert.NoFileExists(t, filepath.Join(out, "gone.html"))

	writeFile(t, first, "<p>без терминов</p>")
	fw.fire(first)
	assert.Equal(t, "<p>без терминов</p>", readFile(t, filepath.Join(out, "first.html")))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	fw.mu.Lock()
	assert.True(t, fw.stopped)
	fw.mu.Unlock()
}

func TestWatch_WithFsnotify(t *testing.T) {
	a := newTestApp(t)
	src := t.TempDir()
	out := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, src, out, catDict(t)) }()
	time.Sleep(200 * time.Millisecond)

	// Rename into place so the watcher never sees a half-written page.
	staged := writeFile(t, filepath.Join(t.TempDir(), "page.html"), "<p>"+pad+" Кошка.</p>")
	require.NoError(t, os.Rename(staged, filepath.Join(src, "page.html")))

	dst := filepath.Join(out, "page.html")
	assert.Eventually(t, func() bool {
		return fileContains(dst, "[Кошка|cat]")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
