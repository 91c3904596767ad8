// Package config loads docforge project configuration.
//
// A project is described by a TOML or YAML file:
//
//	api_docs               = "docs.yaml"
//	api_template_file      = "templates/endpoint.mdx"
//	api_template_directory = "templates/api"
//	api_build_to           = "site/docs/api"
//	api_section_label      = "API Reference"
//	api_root_name          = "."      # optional, see pipeline.Options
//	live_interval          = "1s"
//
//	[[sync]]
//	source      = "templates/guides"
//	destination = "site/docs/guides"
//
// Every key may be overridden from the environment with a DOCFORGE_ prefix,
// e.g. DOCFORGE_API_BUILD_TO. A .env file in the working directory is loaded
// first. Paths are used as given, relative to the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/docforge/pkg/dirsync"
	"github.com/matzehuels/docforge/pkg/errors"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "DOCFORGE_"

// DefaultInterval is the live-mode poll interval when none is configured.
const DefaultInterval = time.Second

// DefaultFiles are the config files searched by [Find], in order.
var DefaultFiles = []string{"docforge.toml", "docforge.yaml", "config.yaml"}

// Config is a docforge project configuration.
type Config struct {
	SpecFile     string     `toml:"api_docs" yaml:"api_docs"`
	TemplateFile string     `toml:"api_template_file" yaml:"api_template_file"`
	TemplateDir  string     `toml:"api_template_directory" yaml:"api_template_directory"`
	BuildDir     string     `toml:"api_build_to" yaml:"api_build_to"`
	SectionLabel string     `toml:"api_section_label" yaml:"api_section_label"`
	RootName     string     `toml:"api_root_name" yaml:"api_root_name"`
	Interval     Duration   `toml:"live_interval" yaml:"live_interval"`
	Sync         []SyncPair `toml:"sync" yaml:"sync"`

	// Path is the file the configuration was loaded from.
	Path string `toml:"-" yaml:"-"`
}

// SyncPair is a directory kept in sync with a source directory in live mode.
type SyncPair struct {
	Source      string `toml:"source" yaml:"source"`
	Destination string `toml:"destination" yaml:"destination"`
}

// Find returns the first of [DefaultFiles] present in dir.
func Find(dir string) (string, error) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrCodeFileNotFound,
		"no config file found (looked for %s)", strings.Join(DefaultFiles, ", "))
}

// Load reads the config file at path, applies environment overrides and
// defaults, and validates the result. Files ending in .toml are decoded as
// TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %q does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %q", path)
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Format is a config file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes config data without applying overrides or defaults.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config format %q", format)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from DOCFORGE_* variables returned by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"API_DOCS":               &c.SpecFile,
		"API_TEMPLATE_FILE":      &c.TemplateFile,
		"API_TEMPLATE_DIRECTORY": &c.TemplateDir,
		"API_BUILD_TO":           &c.BuildDir,
		"API_SECTION_LABEL":      &c.SectionLabel,
		"API_ROOT_NAME":          &c.RootName,
	}
	for key, field := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*field = v
		}
	}
	if v, ok := lookup(EnvPrefix + "LIVE_INTERVAL"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sLIVE_INTERVAL", EnvPrefix)
		}
		c.Interval = Duration(d)
	}
	return nil
}

// SetDefaults fills optional fields.
func (c *Config) SetDefaults() {
	if c.Interval <= 0 {
		c.Interval = Duration(DefaultInterval)
	}
}

// Validate reports missing required keys, incomplete sync pairs and sync
// pairs whose directories overlap.
func (c *Config) Validate() error {
	required := []struct {
		key, value string
	}{
		{"api_docs", c.SpecFile},
		{"api_template_file", c.TemplateFile},
		{"api_template_directory", c.TemplateDir},
		{"api_build_to", c.BuildDir},
		{"api_section_label", c.SectionLabel},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "missing required keys: %s", strings.Join(missing, ", "))
	}

	for i, p := range c.Sync {
		if p.Source == "" || p.Destination == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "sync[%d]: source and destination are required", i)
		}
		if dirsync.Overlaps(p.Source, p.Destination) {
			return errors.New(errors.ErrCodeInvalidConfig,
				"sync[%d]: source %s and destination %s overlap", i, p.Source, p.Destination)
		}
	}
	return nil
}

// Duration is a time.Duration that decodes from "1.5s" style strings or a
// plain number of seconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Duration) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		parsed, err := parseDuration(v)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	case int64:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(v * float64(time.Second))
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	parsed, err := parseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
