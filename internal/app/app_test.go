package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aden1s/ruphrasehints/internal/domain/hints"
	"github.com/aden1s/ruphrasehints/internal/ports"
)

func catDict(t *testing.T) *hints.Dictionary {
	t.Helper()
	d, err := ParseDictionary([]byte(catDictYAML))
	require.NoError(t, err)
	return d
}

func TestNew_RequiresProjectRoot(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HintTemplate = "{9}"
	_, err := New(Options{ProjectRoot: t.TempDir(), Config: cfg})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_DoesNotCreateProjectDir(t *testing.T) {
	a := newTestApp(t)
	assert.False(t, a.Paths.Exists(), "store is opened lazily")
}

func TestAnnotate(t *testing.T) {
	a := newTestApp(t)
	text := "<p>" + pad + " Рыжую кошку зовут Мурка." + pad + " Кошками интересуются все.</p>"

	res := a.Annotate(text, catDict(t))

	assert.Equal(t, "<p>"+pad+" [Рыжую кошку|ginger] зовут Мурка."+pad+" [Кошками|cat] интересуются все.</p>", res.Text)
	require.Len(t, res.Occurrences, 2)
	assert.Equal(t, "рыжая кошка", res.Occurrences[0].Term)
}

func TestAnnotate_LogsSkippedTerms(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	a, err := New(Options{
		ProjectRoot: t.TempDir(),
		Config:      cfg,
		Logger:      slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, err)

	dict, err := hints.NewDictionary(hints.Entry{Term: "а[б", Canonical: "x", Hint: "y"})
	require.NoError(t, err)

	res := a.Annotate("<p>"+pad+" текст</p>", dict)
	require.Len(t, res.Skipped, 1)
	assert.Contains(t, logs.String(), "term skipped")
	assert.Contains(t, logs.String(), "а[б")
}

func TestAnnotate_ConfigOptionsReachEngine(t *testing.T) {
	text := "<p>" + pad + " Кошка.</p>"

	onlyLists := newTestApp(t, func(c *Config) { c.AllowedTags = []string{"li"} })
	assert.Equal(t, text, onlyLists.Annotate(text, catDict(t)).Text)

	stopped := newTestApp(t, func(c *Config) { c.StopWords = []string{"Кошка"} })
	assert.Equal(t, text, stopped.Annotate(text, catDict(t)).Text)

	plain := newTestApp(t)
	assert.Equal(t, "<p>"+pad+" [Кошка|cat].</p>", plain.Annotate(text, catDict(t)).Text)
}

func TestDictionary_Resolution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "terms.yaml"), catDictYAML)

	cfg := DefaultConfig()
	cfg.Dictionary = "terms.yaml"
	a, err := New(Options{ProjectRoot: root, Config: cfg})
	require.NoError(t, err)
	defer a.Close()

	dict, err := a.Dictionary()
	require.NoError(t, err)
	assert.Equal(t, 2, dict.Len(), "relative paths resolve against the project root")

	a.Config.Dictionary = ""
	_, err = a.Dictionary()
	assert.ErrorIs(t, err, ErrNoDictionary)

	a.Config.DictionaryName = "missing"
	_, err = a.Dictionary()
	assert.ErrorIs(t, err, ErrDictionaryNotFound)
}

func TestStoredDictionaries(t *testing.T) {
	a := newTestApp(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "terms.yaml"), catDictYAML)

	sd, err := a.ImportDictionary("main", path)
	require.NoError(t, err)
	assert.Len(t, sd.Entries, 2)
	assert.True(t, a.Paths.Exists())

	_, err = a.ImportDictionary("second", path)
	require.NoError(t, err)

	list, err := a.ListDictionaries()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "main", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
	assert.NotZero(t, list[0].UpdatedAt)

	dict, err := a.StoredDictionary("main")
	require.NoError(t, err)
	assert.Equal(t, catDict(t).Entries(), dict.Entries())

	require.NoError(t, a.RemoveDictionary("main"))
	assert.ErrorIs(t, a.RemoveDictionary("main"), ErrDictionaryNotFound)
	_, err = a.StoredDictionary("main")
	assert.ErrorIs(t, err, ErrDictionaryNotFound)
}

func TestImportDictionary_BadFileLeavesStoreUntouched(t *testing.T) {
	a := newTestApp(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "bad.yaml"), "кошка: cat\n")

	_, err := a.ImportDictionary("main", path)
	require.Error(t, err)

	list, err := a.ListDictionaries()
	require.NoError(t, err)
	assert.Empty(t, list)
}

// memStore is an in-memory DictionaryStore.
type memStore map[string]*ports.StoredDictionary

func (m memStore) SaveDictionary(d *ports.StoredDictionary) error { m[d.Name] = d; return nil }
func (m memStore) LoadDictionary(name string) (*ports.StoredDictionary, error) {
	return m[name], nil
}
func (m memStore) ListDictionaries() ([]string, error) {
	var names []string
	for n := range m {
		names = append(names, n)
	}
	return names, nil
}
func (m memStore) DeleteDictionary(name string) error { delete(m, name); return nil }

func TestApp_InjectedStore(t *testing.T) {
	store := memStore{}
	a, err := New(Options{ProjectRoot: t.TempDir(), Store: store})
	require.NoError(t, err)

	path := writeFile(t, filepath.Join(t.TempDir(), "terms.yaml"), catDictYAML)
	_, err = a.ImportDictionary("main", path)
	require.NoError(t, err)

	assert.Contains(t, store, "main")
	assert.False(t, a.Paths.Exists(), "injected store needs no project dir")
	assert.NoError(t, a.Close())
	assert.Contains(t, store, "main", "Close leaves an injected store alone")
}

func TestAnnotateFile(t *testing.T) {
	a := newTestApp(t)
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "in.html"), "<p>"+pad+" Кошка.</p>")
	dst := filepath.Join(dir, "out", "deep", "in.html")

	rep, err := a.AnnotateFile(FileJob{Src: src, Dst: dst}, catDict(t))
	require.NoError(t, err)
	assert.True(t, rep.Written)
	assert.Equal(t, 1, rep.Hints)
	assert.Equal(t, "<p>"+pad+" [Кошка|cat].</p>", readFile(t, dst))
	assert.Equal(t, "<p>"+pad+" Кошка.</p>", readFile(t, src))
}

func TestAnnotateFile_InPlaceUnchangedIsNotRewritten(t *testing.T) {
	a := newTestApp(t)
	src := writeFile(t, filepath.Join(t.TempDir(), "in.html"), "<p>нет терминов</p>")
	before, err := os.Stat(src)
	require.NoError(t, err)

	rep, err := a.AnnotateFile(FileJob{Src: src, Dst: src}, catDict(t))
	require.NoError(t, err)
	assert.False(t, rep.Written)

	after, err := os.Stat(src)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestAnnotateFile_MissingSource(t *testing.T) {
	a := newTestApp(t)
	_, err := a.AnnotateFile(FileJob{Src: filepath.Join(t.TempDir(), "nope.html"), Dst: "x"}, catDict(t))
	assert.Error(t, err)
}

func TestAnnotateFiles(t *testing.T) {
	a := newTestApp(t)
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	for _, name := range []string{"a.html", "b/b.html", "b/c/c.htm"} {
		writeFile(t, filepath.Join(src, name), "<p>"+pad+" Кошка.</p>")
	}
	writeFile(t, filepath.Join(src, "style.css"), "p {}")

	jobs, err := CollectJobs(src, out)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	reports, err := a.AnnotateFiles(context.Background(), jobs, catDict(t))
	require.NoError(t, err)
	require.Len(t, reports, 3)
	for i, rep := range reports {
		assert.Equal(t, jobs[i].Src, rep.Src, "reports keep job order")
		assert.Equal(t, 1, rep.Hints)
		assert.Equal(t, "<p>"+pad+" [Кошка|cat].</p>", readFile(t, rep.Dst))
	}
	assert.NoFileExists(t, filepath.Join(out, "style.css"))
}

func TestAnnotateFiles_StopsOnError(t *testing.T) {
	a := newTestApp(t)
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "good.html"), "<p>x</p>")
	jobs := []FileJob{
		{Src: good, Dst: good},
		{Src: filepath.Join(dir, "missing.html"), Dst: filepath.Join(dir, "out.html")},
	}

	_, err := a.AnnotateFiles(context.Background(), jobs, catDict(t))
	assert.Error(t, err)
}

func TestAnnotateFiles_CancelledContext(t *testing.T) {
	a := newTestApp(t)
	src := writeFile(t, filepath.Join(t.TempDir(), "a.html"), "<p>x</p>")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.AnnotateFiles(ctx, []FileJob{{Src: src, Dst: src}}, catDict(t))
	assert.ErrorIs(t, err, context.Canceled)
}
