// Package config loads the settings of the resolve and serve commands from a TOML or
// YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for settings that cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config holds the asset layer settings.
type Config struct {
	// ProjectRoot is the project directory canonical asset paths resolve against.
	// A leading "~" is expanded to the home directory. Empty means pass-through.
	ProjectRoot string `toml:"project_root" yaml:"project_root"`

	// PageScheme is the transport the scene was served over ("http", "https", "file"
	// or ""). It stands in for the environment probe's page scheme.
	PageScheme string `toml:"page_scheme" yaml:"page_scheme"`

	// BridgeURL is the websocket URL of the native bridge host, if any.
	BridgeURL string `toml:"bridge_url" yaml:"bridge_url"`

	// APIBaseURL is the scheme and host of the HTTP asset API.
	APIBaseURL string `toml:"api_base_url" yaml:"api_base_url"`

	// Listen is the address the serve command binds.
	Listen string `toml:"listen" yaml:"listen"`

	// ProjectsDir is the directory the serve command serves projects from.
	ProjectsDir string `toml:"projects_dir" yaml:"projects_dir"`

	// Workers is the number of concurrent image fetches.
	Workers int `toml:"workers" yaml:"workers"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// StripTransient removes runtime-only objects before resolving.
	StripTransient bool `toml:"strip_transient" yaml:"strip_transient"`
}

// Default returns the settings used when no file is given.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Listen:         "127.0.0.1:5173",
		ProjectsDir:    ".",
		Workers:        max(runtime.NumCPU()-1, 1),
		LogLevel:       "info",
		StripTransient: true,
	}
}

// Load reads a config file over the defaults. The format is chosen by extension:
// .toml, or .yaml/.yml. Unknown keys are rejected. The result is expanded and validated.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the loaded settings
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return cfg, fmt.Errorf("%w: unsupported config format %q", ErrInvalid, filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := cfg.Expand(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Expand resolves "~" in ProjectRoot and ProjectsDir.
//
// Returns:
//   - error: error if the home directory cannot be determined
func (c *Config) Expand() error {
	for _, p := range []*string{&c.ProjectRoot, &c.ProjectsDir} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the settings.
//
// Returns:
//   - error: an ErrInvalid error naming the first bad field
func (c Config) Validate() error {
	switch strings.ToLower(c.PageScheme) {
	case "", "http", "https", "file":
	default:
		return fmt.Errorf("%w: page_scheme %q", ErrInvalid, c.PageScheme)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.BridgeURL != "" && !strings.HasPrefix(c.BridgeURL, "ws://") && !strings.HasPrefix(c.BridgeURL, "wss://") {
		return fmt.Errorf("%w: bridge_url %q is not a websocket url", ErrInvalid, c.BridgeURL)
	}
	return nil
}

// Level parses LogLevel.
//
// Returns:
//   - slog.Level: the level
//   - error: an ErrInvalid error for unknown names
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return level, nil
}
