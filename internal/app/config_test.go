package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aden1s/ruphrasehints/internal/domain/hints"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, hints.DefaultAllowedTags, cfg.AllowedTags)
	assert.Equal(t, hints.DefaultTemplate, cfg.HintTemplate)
	assert.True(t, cfg.CaseInsensitive())
	assert.Zero(t, cfg.Jobs, "zero means one worker per CPU")

	_, err = LoadConfig(path, true)
	assert.Error(t, err)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "config.yaml"), "")
	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().HintTemplate, cfg.HintTemplate)
}

func TestLoadConfig_Fields(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "config.yaml"), `
allowed_tags: [p, blockquote]
stop_words: [дом]
exceptions: [SQL]
match_case_insensitively: false
hint_template: '<abbr title="{0}">{2}</abbr>'
dictionary: terms.yaml
jobs: 3
`)
	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "blockquote"}, cfg.AllowedTags)
	assert.Equal(t, []string{"дом"}, cfg.StopWords)
	assert.Equal(t, []string{"SQL"}, cfg.Exceptions)
	assert.False(t, cfg.CaseInsensitive())
	assert.Equal(t, `<abbr title="{0}">{2}</abbr>`, cfg.HintTemplate)
	assert.Equal(t, "terms.yaml", cfg.Dictionary)
	assert.Equal(t, 3, cfg.Jobs)

	tmpl, err := cfg.Template()
	require.NoError(t, err)
	assert.Equal(t, cfg.HintTemplate, tmpl.String())
	assert.Len(t, cfg.EngineOptions(), 4)
}

func TestLoadConfig_UnknownKeyRejected(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "config.yaml"), "alowed_tags: [p]\n")
	_, err := LoadConfig(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alowed_tags")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad template", func(c *Config) { c.HintTemplate = "{3}" }, "hint_template"},
		{"unclosed template", func(c *Config) { c.HintTemplate = "<b>{0</b>" }, "hint_template"},
		{"negative jobs", func(c *Config) { c.Jobs = -1 }, "jobs"},
		{"too many jobs", func(c *Config) { c.Jobs = 1000 }, "jobs"},
		{"markup in tag", func(c *Config) { c.AllowedTags = []string{"p>"} }, "allowed_tags[0]"},
		{"empty stop word", func(c *Config) { c.StopWords = []string{""} }, "stop_words[0]"},
		{"both dictionaries", func(c *Config) {
			c.Dictionary = "terms.yaml"
			c.DictionaryName = "main"
		}, "dictionary_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dictionary = "terms.yaml"
	cfg.Jobs = 4

	off := false
	cfg.Apply(Overrides{
		StopWords:              []string{"рынок"},
		MatchCaseInsensitively: &off,
		DictionaryName:         "main",
	})
	off = true // the config keeps its own copy

	assert.Equal(t, []string{"рынок"}, cfg.StopWords)
	assert.False(t, cfg.CaseInsensitive())
	assert.Empty(t, cfg.Dictionary)
	assert.Equal(t, "main", cfg.DictionaryName)
	assert.Equal(t, 4, cfg.Jobs, "zero override keeps the file value")
	assert.Equal(t, hints.DefaultAllowedTags, cfg.AllowedTags)
	assert.NoError(t, cfg.Validate())

	cfg.Apply(Overrides{Dictionary: "other.yaml", Jobs: 1})
	assert.Equal(t, "other.yaml", cfg.Dictionary)
	assert.Empty(t, cfg.DictionaryName)
	assert.Equal(t, 1, cfg.Jobs)
}

func TestConfigSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ruhints", "config.yaml")
	cfg := DefaultConfig()
	cfg.Exceptions = []string{"API"}
	cfg.DictionaryName = "main"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigSave_RejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Jobs = -5
	assert.ErrorIs(t, cfg.Save(filepath.Join(t.TempDir(), "config.yaml")), ErrInvalidConfig)
}
