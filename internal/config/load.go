package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/longmode/internal/hook"
	"github.com/dshills/longmode/internal/mode"
)

// fileSettings is the on-disk settings schema. Absent fields keep their
// defaults. Hooks are referenced by name; "lua:<file>:<function>" loads a
// Lua hook from a script file.
type fileSettings struct {
	Enabled            *bool    `toml:"enabled" yaml:"enabled"`
	Threshold          *int     `toml:"threshold" yaml:"threshold"`
	MaxLinesChecked    *int     `toml:"max_lines_checked" yaml:"max_lines_checked"`
	TargetModes        []string `toml:"target_modes" yaml:"target_modes"`
	DisabledMinorModes []string `toml:"disabled_minor_modes" yaml:"disabled_minor_modes"`
	PostOverrideHooks  []string `toml:"post_override_hooks" yaml:"post_override_hooks"`
	FallbackMode       string   `toml:"fallback_mode" yaml:"fallback_mode"`
	LocalVariables     string   `toml:"local_variables" yaml:"local_variables"`
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadFile reads settings from a TOML or YAML file, selected by extension,
// applied on top of the defaults. A missing file yields the defaults.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fs fileSettings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fs)
	default:
		err = toml.Unmarshal(data, &fs)
	}
	if err != nil {
		return Settings{}, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	return fs.apply(Default(), filepath.Dir(path))
}

// apply merges file settings onto a base.
func (fs fileSettings) apply(base Settings, dir string) (Settings, error) {
	s := base.clone()

	if fs.Enabled != nil {
		s.Enabled = *fs.Enabled
	}
	if fs.Threshold != nil {
		s.Threshold = *fs.Threshold
	}
	if fs.MaxLinesChecked != nil {
		s.MaxLinesChecked = *fs.MaxLinesChecked
	}
	if fs.TargetModes != nil {
		s.TargetModes = normalizeIDs(fs.TargetModes)
	}
	if fs.DisabledMinorModes != nil {
		s.DisabledMinorModes = normalizeIDs(fs.DisabledMinorModes)
	}
	if fs.FallbackMode != "" {
		s.FallbackMode = mode.Normalize(fs.FallbackMode)
	}
	if fs.LocalVariables != "" {
		s.LocalVariables = fs.LocalVariables
	}

	if fs.PostOverrideHooks != nil {
		hooks, err := resolveHooks(fs.PostOverrideHooks, dir)
		if err != nil {
			return Settings{}, err
		}
		s.PostOverrideHooks = hooks
	}

	if err := validate(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// normalizeIDs converts raw tokens into mode IDs, dropping empty ones.
func normalizeIDs(raw []string) []mode.ID {
	ids := make([]mode.ID, 0, len(raw))
	for _, r := range raw {
		if id := mode.Normalize(r); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// resolveHooks maps configured hook references to Hook values, preserving
// order. Unknown builtin names are an error; the engine must not silently
// drop a configured side effect.
func resolveHooks(refs []string, dir string) ([]hook.Hook, error) {
	hooks := make([]hook.Hook, 0, len(refs))
	scripts := make(map[string]*hook.Script)

	for _, ref := range refs {
		if rest, ok := strings.CutPrefix(ref, "lua:"); ok {
			file, fn, ok := strings.Cut(rest, ":")
			if !ok || file == "" || fn == "" {
				return nil, fmt.Errorf("invalid lua hook reference %q, want lua:<file>:<function>", ref)
			}
			if !filepath.IsAbs(file) {
				file = filepath.Join(dir, file)
			}
			script, ok := scripts[file]
			if !ok {
				var err error
				script, err = hook.LoadScript(file)
				if err != nil {
					return nil, err
				}
				scripts[file] = script
			}
			hooks = append(hooks, hook.NewLuaHook(script, fn))
			continue
		}

		h := hook.Builtin(ref)
		if h == nil {
			return nil, fmt.Errorf("unknown hook %q", ref)
		}
		hooks = append(hooks, h)
	}
	return hooks, nil
}
