package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// pad keeps the first occurrence of a term past the minimum distance.
var pad = strings.Repeat("-", 200)

const catDictYAML = `
кошка: [кошка, cat]
рыжая кошка:
  canonical: рыжая кошка
  hint: ginger
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newTestApp builds an App rooted in a temp dir with a compact template.
func newTestApp(t *testing.T, mutate ...func(*Config)) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.HintTemplate = "[{2}|{0}]"
	cfg.Jobs = 2
	for _, m := range mutate {
		m(cfg)
	}
	a, err := New(Options{ProjectRoot: t.TempDir(), Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func fileContains(path, sub string) bool {
	data, err := os.ReadFile(path)
	return err == nil && strings.Contains(string(data), sub)
}
