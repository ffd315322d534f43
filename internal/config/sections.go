package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dshills/nwin/internal/renderer/core"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration.

// Backend names.
const (
	BackendTerminal = "terminal"
	BackendRaster   = "raster"
)

// LogLevels lists the accepted log.level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// UIConfig holds the [ui] section.
type UIConfig struct {
	// Backend selects the window system: "terminal" or "raster".
	Backend string

	// FrameRate is the number of frames per second.
	FrameRate int

	// MessageTimeout is how long messages stay up once the cursor moved.
	MessageTimeout time.Duration

	// FontPath is a TrueType/OpenType file for the raster backend.
	// Empty selects the built-in bitmap font.
	FontPath string

	// FontSize is the font size in points.
	FontSize float64

	// Foreground and Background are the colors used until the editor
	// sets its own defaults.
	Foreground core.Color
	Background core.Color

	// SnapshotDir receives a PNG per presented frame from the raster
	// backend when set.
	SnapshotDir string
}

// FrameInterval returns the duration of one frame.
func (u UIConfig) FrameInterval() time.Duration {
	if u.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(u.FrameRate)
}

// EditorConfig holds the [editor] section.
type EditorConfig struct {
	// Command is the editor binary.
	Command string

	// Args are extra arguments passed after --embed.
	Args []string

	// Multigrid requests one window per editor window when the backend
	// supports several windows.
	Multigrid bool
}

// WMConfig holds the [wm] section.
type WMConfig struct {
	// Enabled turns on layout reconciliation with i3 or sway.
	Enabled bool

	// SocketPath overrides the IPC socket lookup.
	SocketPath string
}

// LogConfig holds the [log] section.
type LogConfig struct {
	// Level is one of LogLevels.
	Level string

	// File receives log output; empty means stderr.
	File string
}

// UI returns the [ui] section.
func (c *Config) UI() UIConfig {
	return UIConfig{
		Backend:        c.getStringOr("ui.backend", BackendTerminal),
		FrameRate:      c.getIntOr("ui.frame_rate", 60),
		MessageTimeout: c.getDurationOr("ui.message_timeout", 3*time.Second),
		FontPath:       c.getStringOr("ui.font_path", ""),
		FontSize:       c.getFloatOr("ui.font_size", 13),
		Foreground:     c.getColorOr("ui.foreground", core.ColorWhite),
		Background:     c.getColorOr("ui.background", core.ColorBlack),
		SnapshotDir:    c.getStringOr("ui.snapshot_dir", ""),
	}
}

// Editor returns the [editor] section.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		Command:   c.getStringOr("editor.command", "nvim"),
		Args:      c.getStringSliceOr("editor.args", nil),
		Multigrid: c.getBoolOr("editor.multigrid", true),
	}
}

// WM returns the [wm] section.
func (c *Config) WM() WMConfig {
	return WMConfig{
		Enabled:    c.getBoolOr("wm.enabled", true),
		SocketPath: c.getStringOr("wm.socket_path", ""),
	}
}

// Log returns the [log] section.
func (c *Config) Log() LogConfig {
	return LogConfig{
		Level: c.getStringOr("log.level", "info"),
		File:  c.getStringOr("log.file", ""),
	}
}

// Validate checks every section and returns all problems found.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if b, err := c.GetString("ui.backend"); err != nil {
		errs = append(errs, err)
	} else if b != BackendTerminal && b != BackendRaster {
		invalid("ui.backend", "must be terminal or raster", b)
	}
	if n, err := c.GetInt("ui.frame_rate"); err != nil {
		errs = append(errs, err)
	} else if n < 1 || n > 1000 {
		invalid("ui.frame_rate", "must be between 1 and 1000", n)
	}
	if d, err := c.GetDuration("ui.message_timeout"); err != nil {
		errs = append(errs, err)
	} else if d < 0 {
		invalid("ui.message_timeout", "must not be negative", d)
	}
	if f, err := c.GetFloat("ui.font_size"); err != nil {
		errs = append(errs, err)
	} else if f <= 0 {
		invalid("ui.font_size", "must be positive", f)
	}
	for _, path := range []string{"ui.foreground", "ui.background"} {
		s, err := c.GetString(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := core.ColorFromHex(s); err != nil {
			invalid(path, "must be a #rrggbb color", s)
		}
	}
	if s, err := c.GetString("editor.command"); err != nil {
		errs = append(errs, err)
	} else if s == "" {
		invalid("editor.command", "must not be empty", s)
	}
	if _, err := c.GetStringSlice("editor.args"); err != nil {
		errs = append(errs, err)
	}
	if l, err := c.GetString("log.level"); err != nil {
		errs = append(errs, err)
	} else if !slices.Contains(LogLevels, l) {
		invalid("log.level", fmt.Sprintf("must be one of %v", LogLevels), l)
	}
	return errors.Join(errs...)
}

// These methods only return the default for ErrSettingNotFound.
// Type errors are recorded and return the default.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getFloatOr(path string, defaultValue float64) float64 {
	v, err := c.GetFloat(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getColorOr(path string, defaultValue core.Color) core.Color {
	s, err := c.GetString(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	col, err := core.ColorFromHex(s)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return col
}

func (c *Config) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		c.recordConfigError(path, err)
		return slices.Clone(defaultValue)
	}
	return slices.Clone(v)
}

// recordConfigError stores the first error for each path. Missing
// settings are not errors.
func (c *Config) recordConfigError(path string, err error) {
	if errors.Is(err, ErrSettingNotFound) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns configuration errors encountered during access.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}
