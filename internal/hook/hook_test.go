package hook

import (
	"errors"
	"testing"

	"github.com/dshills/longmode/internal/engine/buffer"
	"github.com/dshills/longmode/internal/log"
	"github.com/dshills/longmode/internal/mode"
)

func TestSequenceRunsInOrder(t *testing.T) {
	var order []string
	hooks := []Hook{
		NewFunc("first", func(*Context) error {
			order = append(order, "first")
			return nil
		}),
		NewFunc("second", func(*Context) error {
			order = append(order, "second")
			return nil
		}),
	}

	seq := NewSequence(hooks, log.Null)
	failed := seq.Run(&Context{})

	if failed != 0 {
		t.Errorf("Run() failed = %d, want 0", failed)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("hooks ran in order %v, want [first second]", order)
	}
}

func TestSequenceFailureIsolation(t *testing.T) {
	ran := false
	hooks := []Hook{
		NewFunc("failing", func(*Context) error {
			return errors.New("boom")
		}),
		NewFunc("after", func(*Context) error {
			ran = true
			return nil
		}),
	}

	seq := NewSequence(hooks, log.Null)
	failed := seq.Run(&Context{})

	if failed != 1 {
		t.Errorf("Run() failed = %d, want 1", failed)
	}
	if !ran {
		t.Error("hook after a failure should still run")
	}
}

func TestSequencePanicIsolation(t *testing.T) {
	ran := false
	hooks := []Hook{
		NewFunc("panicking", func(*Context) error {
			panic("bad hook")
		}),
		NewFunc("after", func(*Context) error {
			ran = true
			return nil
		}),
	}

	seq := NewSequence(hooks, log.Null)
	failed := seq.Run(&Context{})

	if failed != 1 {
		t.Errorf("Run() failed = %d, want 1", failed)
	}
	if !ran {
		t.Error("hook after a panic should still run")
	}
}

func TestSequenceSkipsNilHooks(t *testing.T) {
	seq := NewSequence([]Hook{nil, MakeReadOnly()}, log.Null)

	buf := buffer.NewFromString("x\n")
	failed := seq.Run(&Context{Buffer: buf})

	if failed != 0 {
		t.Errorf("Run() failed = %d, want 0", failed)
	}
	if !buf.ReadOnly() {
		t.Error("read-only hook should still run")
	}
}

func TestMakeReadOnly(t *testing.T) {
	buf := buffer.NewFromString("x\n")
	h := MakeReadOnly()

	if err := h.Run(&Context{Buffer: buf}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !buf.ReadOnly() {
		t.Error("buffer should be read-only after the hook")
	}

	// Nil buffer must not panic.
	if err := h.Run(&Context{}); err != nil {
		t.Errorf("Run() with nil buffer error = %v", err)
	}
}

func TestSuppressWhitespaceDisplay(t *testing.T) {
	host := mode.NewMapHost(mode.Fundamental)
	buf := buffer.NewFromString("x\n")
	host.SetMinorMode(buf, mode.MinorWhitespace, true)

	h := SuppressWhitespaceDisplay()
	if err := h.Run(&Context{Buffer: buf, Minor: host}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if host.IsMinorModeActive(buf, mode.MinorWhitespace) {
		t.Error("whitespace minor mode should be deactivated")
	}
}

func TestSuppressWhitespaceDisplayNoToggler(t *testing.T) {
	h := SuppressWhitespaceDisplay()
	if err := h.Run(&Context{}); err != nil {
		t.Errorf("Run() without toggler error = %v", err)
	}
}

func TestBuiltinLookup(t *testing.T) {
	if h := Builtin(NameReadOnly); h == nil || h.Name() != NameReadOnly {
		t.Error("Builtin(read-only) should return the read-only hook")
	}
	if h := Builtin("nope"); h != nil {
		t.Error("Builtin(nope) should return nil")
	}
}

func TestDefaultsOrder(t *testing.T) {
	hooks := Defaults()
	if len(hooks) != 2 {
		t.Fatalf("Defaults() returned %d hooks, want 2", len(hooks))
	}
	if hooks[len(hooks)-1].Name() != NameReadOnly {
		t.Error("read-only must be the last default hook")
	}
}
