// Package hook runs the post-override side-effect sequence.
//
// Hooks execute in configured order after the fallback mode's own setup has
// completed. Each hook is independently failable: an error or panic in one
// hook is logged and the remaining hooks still run, so a misbehaving hook
// cannot leave the buffer with a half-applied side-effect sequence.
//
// Builtin hooks cover the default configuration (suppressing whitespace
// display, marking the buffer read-only). User-defined hooks can be plain
// Go functions via Func, or Lua functions loaded from a script via Script
// and LuaHook. A Lua hook whose function is absent from the script is
// silently skipped, matching the best-effort treatment of host features
// that are not present.
package hook
