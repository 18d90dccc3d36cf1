package config

import (
	"errors"
	"sync"

	"github.com/dshills/longmode/internal/hook"
	"github.com/dshills/longmode/internal/mode"
)

// Default values for the user-facing settings.
const (
	DefaultThreshold       = 250
	DefaultMaxLinesChecked = 5
	DefaultFallbackMode    = mode.Fundamental
)

// ErrEmptyFallbackMode is returned when an update clears the fallback mode.
var ErrEmptyFallbackMode = errors.New("fallback mode must not be empty")

// Settings is one immutable view of the engine configuration. A pass
// operates on a Snapshot and is unaffected by later mutation.
type Settings struct {
	// Enabled turns the whole engine on or off.
	Enabled bool

	// Threshold is the maximum permitted line length in runes.
	Threshold int

	// MaxLinesChecked bounds how many lines a detection scan examines.
	MaxLinesChecked int

	// TargetModes are the modes (with their descendants) eligible for
	// override consideration.
	TargetModes []mode.ID

	// DisabledMinorModes are deactivated, in order, after an override.
	DisabledMinorModes []mode.ID

	// PostOverrideHooks run in order after minor-mode suppression.
	PostOverrideHooks []hook.Hook

	// FallbackMode is the mode substituted when long lines are detected.
	FallbackMode mode.ID

	// LocalVariables enables file-local variable processing ("on"/"off").
	// When off, neither declaration path is scanned and no inhibition can
	// be discovered.
	LocalVariables string
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		Enabled:         true,
		Threshold:       DefaultThreshold,
		MaxLinesChecked: DefaultMaxLinesChecked,
		TargetModes:     []mode.ID{mode.Prog, mode.CSS},
		DisabledMinorModes: []mode.ID{
			mode.MinorHighlight,
			mode.MinorLineNumbers,
			mode.MinorPrettifySymbols,
			mode.MinorVisualWrap,
			mode.MinorDiffHL,
			mode.MinorHLLine,
		},
		PostOverrideHooks: hook.Defaults(),
		FallbackMode:      DefaultFallbackMode,
		LocalVariables:    "on",
	}
}

// LocalVariablesEnabled reports whether file-local variable processing is on.
func (s Settings) LocalVariablesEnabled() bool {
	return s.LocalVariables != "off"
}

// clone deep-copies the slice-valued fields.
func (s Settings) clone() Settings {
	out := s
	out.TargetModes = append([]mode.ID(nil), s.TargetModes...)
	out.DisabledMinorModes = append([]mode.ID(nil), s.DisabledMinorModes...)
	out.PostOverrideHooks = append([]hook.Hook(nil), s.PostOverrideHooks...)
	return out
}

// validate clamps out-of-range values and rejects unusable ones.
func validate(s *Settings) error {
	if s.Threshold < 0 {
		s.Threshold = 0
	}
	if s.MaxLinesChecked < 0 {
		s.MaxLinesChecked = 0
	}
	if s.FallbackMode == "" {
		return ErrEmptyFallbackMode
	}
	if s.LocalVariables != "off" {
		s.LocalVariables = "on"
	}
	return nil
}

// Config is the single mutable holder of engine settings.
// All methods are safe for concurrent use, though the engine's model only
// requires mutation between passes.
type Config struct {
	mu       sync.RWMutex
	current  Settings
	onChange []func(Settings)
}

// New creates a Config with default settings.
func New() *Config {
	return &Config{current: Default()}
}

// NewFromSettings creates a Config from explicit settings, validating them.
func NewFromSettings(s Settings) (*Config, error) {
	s = s.clone()
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &Config{current: s}, nil
}

// Snapshot returns an immutable copy of the current settings.
func (c *Config) Snapshot() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.clone()
}

// Update applies fn to a copy of the current settings, validates the
// result, and installs it. On validation failure nothing changes.
func (c *Config) Update(fn func(*Settings)) error {
	c.mu.Lock()

	next := c.current.clone()
	fn(&next)
	if err := validate(&next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.current = next

	subscribers := make([]func(Settings), len(c.onChange))
	copy(subscribers, c.onChange)
	snapshot := next.clone()
	c.mu.Unlock()

	for _, sub := range subscribers {
		sub(snapshot)
	}
	return nil
}

// OnChange registers a callback invoked with a snapshot after every
// successful update.
func (c *Config) OnChange(fn func(Settings)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}

// SetEnabled toggles the engine.
func (c *Config) SetEnabled(on bool) {
	_ = c.Update(func(s *Settings) { s.Enabled = on })
}

// Enabled reports whether the engine is enabled.
func (c *Config) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Enabled
}
