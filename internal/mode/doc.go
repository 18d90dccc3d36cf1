// Package mode models editing modes for the long-line decision engine.
//
// A mode is identified by a lowercase name. Modes form a forest via a
// parent-pointer inheritance relation: a derived mode inherits from exactly
// one parent, and ancestor lookups walk the parent chain. The Registry holds
// that relation and answers the classification question the engine needs:
// does a candidate mode equal, or derive from, one of the configured target
// modes?
//
// The package also defines the narrow host-facing interfaces the engine
// consumes (mode activation, minor-mode toggling, local-configuration
// resolution) and MapHost, a self-contained implementation used by the CLI
// probe and by tests.
package mode
