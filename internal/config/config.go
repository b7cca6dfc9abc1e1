package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration location relative to the project root.
const DefaultPath = ".github/config/readme_config.yml"

// TimestampLayout formats the last-update stamp of a run.
const TimestampLayout = "2006-01-02 15:04:05"

// OtherCategory receives files no category pattern matched, when declared.
const OtherCategory = "other"

type Config struct {
	Categories     Categories        `yaml:"categories"`
	IgnorePatterns []string          `yaml:"ignore_patterns"`
	DocOptions     DocOptions        `yaml:"doc_options"`
	Style          Style             `yaml:"style"`
	Badges         Badges            `yaml:"badges"`
	Templates      map[string]string `yaml:"templates"`
}

type DocOptions struct {
	Language              string  `yaml:"language"`
	IncludePrivateMethods bool    `yaml:"include_private_methods"`
	IncludeModuleDoc      bool    `yaml:"include_module_doc"`
	IncludeParameters     bool    `yaml:"include_parameters"`
	IncludeReturnType     bool    `yaml:"include_return_type"`
	IncludeExamples       bool    `yaml:"include_examples"`
	MaxDocLength          int     `yaml:"max_doc_length"`
	WatchMode             bool    `yaml:"watch_mode"`
	WatchDelay            float64 `yaml:"watch_delay"` // seconds
}

type Style struct {
	UseEmojis       bool `yaml:"use_emojis"`
	ShowLineNumbers bool `yaml:"show_line_numbers"`
	ShowSourceLink  bool `yaml:"show_source_link"`
}

type Badges struct {
	Show     bool     `yaml:"show"`
	Types    []string `yaml:"types"`
	Version  string   `yaml:"version"`
	Coverage string   `yaml:"coverage"`
}

// Category is one named bucket of modules, matched by a glob pattern.
type Category struct {
	Name        string
	Pattern     string `yaml:"pattern"`
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Categories keeps the declaration order of the YAML mapping, which decides
// which category wins when patterns overlap.
type Categories []Category

func (c *Categories) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("categories: expected a mapping, got line %d", value.Line)
	}
	out := make(Categories, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var cat Category
		if err := value.Content[i+1].Decode(&cat); err != nil {
			return fmt.Errorf("category %q: %w", value.Content[i].Value, err)
		}
		cat.Name = value.Content[i].Value
		out = append(out, cat)
	}
	*c = out
	return nil
}

// Lookup returns the category declared under name.
func (c Categories) Lookup(name string) (Category, bool) {
	for _, cat := range c {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// DocConfig is the resolved per-run view of the documentation options.
type DocConfig struct {
	Language              string
	IncludePrivateMethods bool
	IncludeModuleDoc      bool
	IncludeParameters     bool
	IncludeReturnType     bool
	IncludeExamples       bool
	MaxDocLength          int
	UseEmojis             bool
	ShowLineNumbers       bool
	ShowSourceLink        bool
	WatchMode             bool
	WatchDelay            time.Duration
	LastUpdate            string
}

// Default returns the configuration used when no file is present. It has no
// categories, so it renders an empty documentation body.
func Default() *Config {
	return &Config{
		DocOptions: DocOptions{
			Language:          "en_US",
			IncludeModuleDoc:  true,
			IncludeParameters: true,
			IncludeReturnType: true,
			IncludeExamples:   true,
			MaxDocLength:      100,
			WatchDelay:        2,
		},
		Style: Style{
			UseEmojis:      true,
			ShowSourceLink: true,
		},
		Badges: Badges{
			Show:     true,
			Version:  "1.0.0",
			Coverage: "80%",
		},
		Templates: map[string]string{},
	}
}

// Load reads the YAML configuration at path on top of the defaults, validates
// it against the embedded schema and applies PYREADME_* environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := validateDocument(file); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if cfg.Templates == nil {
		cfg.Templates = map[string]string{}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrEmpty never fails: a missing or broken file is logged and the
// defaults are returned instead.
func LoadOrEmpty(path string, logger *zap.Logger) *Config {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("config file not found, using defaults", zap.String("path", path))
		} else {
			logger.Error("failed to load config file", zap.String("path", path), zap.Error(err))
		}
		cfg = Default()
		if envErr := cfg.applyEnv(); envErr != nil {
			logger.Warn("ignoring environment overrides", zap.Error(envErr))
		}
		return cfg
	}
	for _, warning := range cfg.TemplateWarnings() {
		logger.Warn("template config", zap.String("detail", warning))
	}
	return cfg
}

func (c *Config) applyEnv() error {
	if lang := os.Getenv("PYREADME_LANGUAGE"); lang != "" {
		c.DocOptions.Language = lang
	}
	if delay := os.Getenv("PYREADME_WATCH_DELAY"); delay != "" {
		v, err := strconv.ParseFloat(delay, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("PYREADME_WATCH_DELAY: invalid value %q", delay)
		}
		c.DocOptions.WatchDelay = v
	}
	if private := os.Getenv("PYREADME_INCLUDE_PRIVATE"); private != "" {
		v, err := strconv.ParseBool(private)
		if err != nil {
			return fmt.Errorf("PYREADME_INCLUDE_PRIVATE: %w", err)
		}
		c.DocOptions.IncludePrivateMethods = v
	}
	return nil
}

// DocConfig resolves the options for one run, stamped with now.
func (c *Config) DocConfig(now time.Time) DocConfig {
	opts := c.DocOptions
	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		lang = "en_US"
	}
	return DocConfig{
		Language:              lang,
		IncludePrivateMethods: opts.IncludePrivateMethods,
		IncludeModuleDoc:      opts.IncludeModuleDoc,
		IncludeParameters:     opts.IncludeParameters,
		IncludeReturnType:     opts.IncludeReturnType,
		IncludeExamples:       opts.IncludeExamples,
		MaxDocLength:          opts.MaxDocLength,
		UseEmojis:             c.Style.UseEmojis,
		ShowLineNumbers:       c.Style.ShowLineNumbers,
		ShowSourceLink:        c.Style.ShowSourceLink,
		WatchMode:             opts.WatchMode,
		WatchDelay:            time.Duration(opts.WatchDelay * float64(time.Second)),
		LastUpdate:            now.Format(TimestampLayout),
	}
}
