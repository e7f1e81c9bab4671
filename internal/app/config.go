package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aden1s/ruphrasehints/internal/domain/hints"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the project configuration stored in .ruhints/config.yaml.
// Jobs of zero means one worker per CPU.
type Config struct {
	AllowedTags            []string `yaml:"allowed_tags,omitempty" validate:"omitempty,dive,required,alphanum,max=16"`
	StopWords              []string `yaml:"stop_words,omitempty" validate:"dive,required"`
	Exceptions             []string `yaml:"exceptions,omitempty" validate:"dive,required"`
	MatchCaseInsensitively *bool    `yaml:"match_case_insensitively,omitempty"`
	HintTemplate           string   `yaml:"hint_template,omitempty" validate:"omitempty,hinttemplate"`
	Dictionary             string   `yaml:"dictionary,omitempty"`
	DictionaryName         string   `yaml:"dictionary_name,omitempty" validate:"excluded_with=Dictionary"`
	Jobs                   int      `yaml:"jobs,omitempty" validate:"gte=0,lte=256"`
}

// Overrides carries command-line values. Zero values leave the config untouched.
type Overrides struct {
	AllowedTags            []string
	StopWords              []string
	Exceptions             []string
	MatchCaseInsensitively *bool
	HintTemplate           string
	Dictionary             string
	DictionaryName         string
	Jobs                   int
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	configValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = configValidate.RegisterValidation("hinttemplate", validateHintTemplate)
}

func validateHintTemplate(fl validator.FieldLevel) bool {
	_, err := hints.ParseTemplate(fl.Field().String())
	return err == nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	ci := true
	return &Config{
		AllowedTags:            append([]string(nil), hints.DefaultAllowedTags...),
		MatchCaseInsensitively: &ci,
		HintTemplate:           hints.DefaultTemplate,
	}
}

// LoadConfig reads a YAML config on top of the defaults. A missing file yields
// the defaults unless mustExist is set. Unknown keys are rejected.
func LoadConfig(path string, mustExist bool) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Apply merges command-line overrides into the config.
func (c *Config) Apply(o Overrides) {
	if o.AllowedTags != nil {
		c.AllowedTags = o.AllowedTags
	}
	if o.StopWords != nil {
		c.StopWords = o.StopWords
	}
	if o.Exceptions != nil {
		c.Exceptions = o.Exceptions
	}
	if o.MatchCaseInsensitively != nil {
		v := *o.MatchCaseInsensitively
		c.MatchCaseInsensitively = &v
	}
	if o.HintTemplate != "" {
		c.HintTemplate = o.HintTemplate
	}
	// A dictionary given on the command line replaces either source from the file.
	if o.Dictionary != "" {
		c.Dictionary, c.DictionaryName = o.Dictionary, ""
	}
	if o.DictionaryName != "" {
		c.Dictionary, c.DictionaryName = "", o.DictionaryName
	}
	if o.Jobs > 0 {
		c.Jobs = o.Jobs
	}
}

// Validate checks the config against its struct rules.
func (c *Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "hinttemplate":
		return fmt.Sprintf("%s: %q is not a valid template", fe.Field(), fe.Value())
	case "excluded_with":
		return fmt.Sprintf("%s: cannot be combined with dictionary", fe.Field())
	case "required":
		return fmt.Sprintf("%s: empty value", fe.Field())
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s: violates %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s: violates %s (got %v)", fe.Field(), fe.Tag(), fe.Value())
}

// CaseInsensitive reports the effective matching mode (true when unset).
func (c *Config) CaseInsensitive() bool {
	return c.MatchCaseInsensitively == nil || *c.MatchCaseInsensitively
}

// Template parses the configured hint template.
func (c *Config) Template() (*hints.Template, error) {
	if c.HintTemplate == "" {
		return hints.MustParseTemplate(hints.DefaultTemplate), nil
	}
	return hints.ParseTemplate(c.HintTemplate)
}

// EngineOptions translates the config into engine options.
func (c *Config) EngineOptions() []hints.Option {
	opts := []hints.Option{
		hints.WithStopWords(c.StopWords...),
		hints.WithExceptions(c.Exceptions...),
		hints.WithMatchCaseInsensitively(c.CaseInsensitive()),
	}
	if len(c.AllowedTags) > 0 {
		opts = append(opts, hints.WithAllowedTags(c.AllowedTags...))
	}
	return opts
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
