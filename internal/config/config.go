package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dshills/nwin/internal/config/layer"
	"github.com/dshills/nwin/internal/config/loader"
)

// Config provides layered access to nwin's settings.
type Config struct {
	mu sync.RWMutex

	layers *layer.Stack
	fs     loader.FileSystem

	dir  string
	path string

	// configErrors stores type errors met while building section
	// snapshots.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithConfigDir sets the directory searched for config.toml and
// config.yaml.
func WithConfigDir(dir string) Option {
	return func(c *Config) {
		c.dir = dir
	}
}

// WithFile sets the config file explicitly.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFileSystem replaces the file system used to read config files.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// New creates a Config holding only the defaults.
func New(opts ...Option) *Config {
	c := &Config{
		layers: layer.NewStack(),
		fs:     loader.DefaultFS(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dir == "" {
		c.dir = defaultConfigDir()
	}
	if c.path == "" {
		c.path = c.findFile()
	}
	c.layers.Put(&layer.Layer{Source: layer.SourceDefaults, Data: defaultConfig()})
	return c
}

// Load reads the config file and the environment.
func (c *Config) Load(_ context.Context) error {
	if err := c.Reload(); err != nil {
		return err
	}

	data, err := loader.NewEnvLoader(loader.DefaultPrefix).Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	if len(data) > 0 {
		c.layers.Put(&layer.Layer{Source: layer.SourceEnv, Data: data})
	}
	return nil
}

// Reload re-reads the config file layer. A missing file removes the
// layer.
func (c *Config) Reload() error {
	l, err := loader.ForPath(c.fs, c.path)
	if err != nil {
		return err
	}
	data, err := l.Load()
	if err != nil {
		return err
	}
	if data == nil {
		c.layers.Remove(layer.SourceFile)
	} else {
		c.layers.Put(&layer.Layer{Source: layer.SourceFile, Path: c.path, Data: data})
	}

	c.mu.Lock()
	c.configErrors = nil
	c.mu.Unlock()
	return nil
}

// Path returns the config file path, which may not exist.
func (c *Config) Path() string {
	return c.path
}

// findFile returns the first existing config file in the config
// directory, or the TOML path when there is none.
func (c *Config) findFile() string {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(c.dir, name)
		if _, err := c.fs.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(c.dir, "config.toml")
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	v, _, ok := c.layers.Get(path)
	return v, ok
}

// Source returns the layer that provides the value at path.
func (c *Config) Source(path string) (layer.Source, bool) {
	_, src, ok := c.layers.Get(path)
	return src, ok
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetFloat returns a float64 value at the given path.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// GetDuration returns a duration at the given path. Strings are parsed
// with time.ParseDuration; integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("string %q", val)}
		}
		return d, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	switch val := v.(type) {
	case []string:
		return val, nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	case string:
		return strings.Fields(val), nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// Set overrides the value at path in the flags layer.
func (c *Config) Set(path string, value any) error {
	if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") {
		return ErrInvalidPath
	}
	c.layers.Set(layer.SourceFlags, path, value)
	return nil
}

// Merged returns the fully merged configuration.
func (c *Config) Merged() map[string]any {
	return c.layers.Merge()
}

// defaultConfigDir returns $XDG_CONFIG_HOME/nwin or ~/.config/nwin.
func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nwin")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "nwin")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"ui": map[string]any{
			"backend":         "terminal",
			"frame_rate":      int64(60),
			"message_timeout": "3s",
			"font_path":       "",
			"font_size":       13.0,
			"foreground":      "#ffffff",
			"background":      "#000000",
			"snapshot_dir":    "",
		},
		"editor": map[string]any{
			"command":   "nvim",
			"args":      []any{},
			"multigrid": true,
		},
		"wm": map[string]any{
			"enabled":     true,
			"socket_path": "",
		},
		"log": map[string]any{
			"level": "info",
			"file":  "",
		},
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
