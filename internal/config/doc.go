// Package config holds the process-wide settings of the long-line engine.
//
// The host owns a single long-lived Config. User-facing mutation goes
// through Update, which validates and clamps values at the boundary so a
// mode-selection pass never sees an invalid threshold or line count. Each
// pass takes an immutable Snapshot, keeping the decision pipeline pure even
// when the user edits settings between passes.
//
// Settings can be loaded from TOML or YAML files and reloaded live via a
// file watcher.
package config
