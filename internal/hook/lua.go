package hook

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Script wraps a Lua state holding user-defined hook functions.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes all hook
// calls into the script, which matches the engine's single-threaded pass
// model anyway.
type Script struct {
	mu sync.Mutex
	L  *lua.LState
}

// LoadScript creates a script from a Lua source file.
func LoadScript(path string) (*Script, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading hook script %s: %w", path, err)
	}
	return &Script{L: L}, nil
}

// LoadScriptString creates a script from Lua source text.
func LoadScriptString(src string) (*Script, error) {
	L := lua.NewState()
	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading hook script: %w", err)
	}
	return &Script{L: L}, nil
}

// Close releases the underlying Lua state.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L != nil {
		s.L.Close()
		s.L = nil
	}
}

// HasFunction reports whether the script defines a global function.
func (s *Script) HasFunction(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L == nil {
		return false
	}
	_, ok := s.L.GetGlobal(name).(*lua.LFunction)
	return ok
}

// call invokes a global function with a single table argument describing
// the override. A non-nil, non-false first return value is treated as an
// error message.
func (s *Script) call(name string, ctx *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.L == nil {
		return fmt.Errorf("script is closed")
	}

	fn, ok := s.L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		// Absent functions are skipped, not errors.
		return nil
	}

	arg := s.L.NewTable()
	if ctx.Buffer != nil {
		arg.RawSetString("buffer", lua.LString(ctx.Buffer.ID()))
		arg.RawSetString("name", lua.LString(ctx.Buffer.Name()))
	}
	arg.RawSetString("original_mode", lua.LString(ctx.OriginalMode))
	arg.RawSetString("fallback_mode", lua.LString(ctx.FallbackMode))

	top := s.L.GetTop()
	s.L.Push(fn)
	s.L.Push(arg)
	if err := s.L.PCall(1, lua.MultRet, nil); err != nil {
		return err
	}

	nRet := s.L.GetTop() - top
	defer s.L.Pop(nRet)

	if nRet == 0 {
		return nil
	}
	switch v := s.L.Get(top + 1).(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		if !bool(v) {
			return fmt.Errorf("hook function %q returned false", name)
		}
		return nil
	case lua.LString:
		if v != "" {
			return fmt.Errorf("%s", string(v))
		}
		return nil
	default:
		return nil
	}
}

// LuaHook is a Hook backed by a global function in a Script.
type LuaHook struct {
	script *Script
	fn     string
}

// NewLuaHook creates a hook that calls the named global function.
func NewLuaHook(script *Script, fn string) *LuaHook {
	return &LuaHook{script: script, fn: fn}
}

// Name implements Hook.
func (h *LuaHook) Name() string {
	return "lua:" + h.fn
}

// Run implements Hook.
func (h *LuaHook) Run(ctx *Context) error {
	if h.script == nil {
		return nil
	}
	return h.script.call(h.fn, ctx)
}
