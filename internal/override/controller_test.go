package override

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/longmode/internal/config"
	"github.com/dshills/longmode/internal/engine/buffer"
	"github.com/dshills/longmode/internal/hook"
	"github.com/dshills/longmode/internal/mode"
)

// newController builds an enabled controller with a MapHost selecting the
// given mode for every buffer.
func newController(t *testing.T, selected mode.ID) (*Controller, *mode.MapHost) {
	t.Helper()
	host := mode.NewMapHost(selected)
	c := New(config.New(), host)
	c.Enable()
	return c, host
}

func TestSelectModeShortLinesNoOverride(t *testing.T) {
	c, _ := newController(t, "go")
	buf := buffer.NewFromString(strings.Repeat(strings.Repeat("x", 10)+"\n", 6))

	got := c.SelectMode(buf)

	if got != "go" {
		t.Errorf("SelectMode() = %q, want go", got)
	}
	sess := c.Session(buf)
	if sess.LastState != NoOverride {
		t.Errorf("LastState = %v, want no-override", sess.LastState)
	}
	if sess.OriginalMode != "" {
		t.Errorf("OriginalMode = %q, want empty", sess.OriginalMode)
	}
}

func TestSelectModeLongFirstLineOverrides(t *testing.T) {
	c, host := newController(t, "go")
	buf := buffer.NewFromString(strings.Repeat("x", 300) + "\nshort\n")

	got := c.SelectMode(buf)

	if got != mode.Fundamental {
		t.Errorf("SelectMode() = %q, want fundamental", got)
	}
	sess := c.Session(buf)
	if sess.LastState != Overridden {
		t.Errorf("LastState = %v, want overridden", sess.LastState)
	}
	if sess.OriginalMode != "go" {
		t.Errorf("OriginalMode = %q, want go", sess.OriginalMode)
	}
	if host.ActiveMode(buf) != mode.Fundamental {
		t.Errorf("active mode = %q, want fundamental", host.ActiveMode(buf))
	}
	if !buf.ReadOnly() {
		t.Error("read-only hook should have run")
	}
}

func TestSelectModeHeaderDeclarationInhibits(t *testing.T) {
	c, _ := newController(t, "go")
	content := "-*- mode: text -*-\n" + strings.Repeat(strings.Repeat("x", 1000)+"\n", 10)
	buf := buffer.NewFromString(content)

	got := c.SelectMode(buf)

	if got != "go" {
		t.Errorf("SelectMode() = %q, want the host's selection to stand", got)
	}
	sess := c.Session(buf)
	if sess.LastState != Inhibited {
		t.Errorf("LastState = %v, want inhibited", sess.LastState)
	}
	if len(sess.Inhibited) == 0 || sess.Inhibited[0] != "text" {
		t.Errorf("Inhibited = %v, want [text]", sess.Inhibited)
	}
	if buf.ReadOnly() {
		t.Error("no side effects may run for an inhibited pass")
	}
}

func TestSelectModeTrailingBlockInhibits(t *testing.T) {
	c, _ := newController(t, "go")
	content := strings.Repeat("x", 1000) + "\n// Local Variables:\n// mode: text\n// End:\n"
	buf := buffer.NewFromString(content)

	got := c.SelectMode(buf)

	if got != "go" {
		t.Errorf("SelectMode() = %q, want go", got)
	}
	if sess := c.Session(buf); sess.LastState != Inhibited {
		t.Errorf("LastState = %v, want inhibited", sess.LastState)
	}
}

func TestSelectModeNonTargetMode(t *testing.T) {
	c, _ := newController(t, "markdown")
	buf := buffer.NewFromString(strings.Repeat("x", 1000) + "\n")

	got := c.SelectMode(buf)

	if got != "markdown" {
		t.Errorf("SelectMode() = %q, want markdown", got)
	}
	if sess := c.Session(buf); sess.LastState != NoOverride {
		t.Errorf("LastState = %v, want no-override", sess.LastState)
	}
}

func TestSelectModeDerivedTargetMode(t *testing.T) {
	c, _ := newController(t, "scss") // scss -> css -> prog
	buf := buffer.NewFromString(strings.Repeat("x", 1000) + "\n")

	if got := c.SelectMode(buf); got != mode.Fundamental {
		t.Errorf("SelectMode() = %q, want fundamental for a derived target", got)
	}
}

func TestSelectModeDisabledEngine(t *testing.T) {
	host := mode.NewMapHost("go")
	cfg := config.New()
	cfg.SetEnabled(false)
	c := New(cfg, host)
	c.Enable()

	buf := buffer.NewFromString(strings.Repeat("x", 1000) + "\n")
	host.SetMinorMode(buf, mode.MinorHighlight, true)

	got := c.SelectMode(buf)

	if got != "go" {
		t.Errorf("SelectMode() = %q, want go", got)
	}
	if buf.ReadOnly() {
		t.Error("disabled engine must produce zero side effects")
	}
	if !host.IsMinorModeActive(buf, mode.MinorHighlight) {
		t.Error("disabled engine must not toggle minor modes")
	}
}

func TestSelectModeNotInstalled(t *testing.T) {
	host := mode.NewMapHost("go")
	c := New(config.New(), host)
	// Enable() never called.

	buf := buffer.NewFromString(strings.Repeat("x", 1000) + "\n")
	if got := c.SelectMode(buf); got != "go" {
		t.Errorf("SelectMode() = %q, want pass-through without Enable()", got)
	}
}

func TestEnableDisableIdempotent(t *testing.T) {
	c, _ := newController(t, "go")

	c.Enable()
	c.Enable()
	if !c.Installed() {
		t.Error("Installed() = false after Enable")
	}

	c.Disable()
	c.Disable()
	if c.Installed() {
		t.Error("Installed() = true after Disable")
	}
}

func TestMinorModeSuppression(t *testing.T) {
	c, host := newController(t, "go")
	buf := buffer.NewFromString(strings.Repeat("x", 300) + "\n")
	host.SetMinorMode(buf, mode.MinorHighlight, true)
	host.SetMinorMode(buf, mode.MinorLineNumbers, true)

	c.SelectMode(buf)

	if host.IsMinorModeActive(buf, mode.MinorHighlight) {
		t.Error("highlight minor mode should be suppressed")
	}
	if host.IsMinorModeActive(buf, mode.MinorLineNumbers) {
		t.Error("line-numbers minor mode should be suppressed")
	}
}

func TestRevertRestoresOriginalMode(t *testing.T) {
	c, host := newController(t, "go")
	buf := buffer.NewFromString(strings.Repeat("x", 300) + "\n")

	c.SelectMode(buf)
	if err := c.Revert(buf); err != nil {
		t.Fatalf("Revert() error = %v", err)
	}

	if host.ActiveMode(buf) != "go" {
		t.Errorf("active mode = %q, want go after revert", host.ActiveMode(buf))
	}
	sess := c.Session(buf)
	if sess.OriginalMode != "" {
		t.Errorf("OriginalMode = %q, want cleared", sess.OriginalMode)
	}
	if sess.LastState != Reverted {
		t.Errorf("LastState = %v, want reverted", sess.LastState)
	}
	if buf.ReadOnly() {
		t.Error("revert should clear the read-only flag")
	}
}

func TestRevertAppliesDeclaredMode(t *testing.T) {
	host := mode.NewMapHost("go")
	c := New(config.New(), host, WithResolver(applyOnlyResolver{}))
	c.Enable()

	buf := buffer.NewFromString(strings.Repeat("x", 300) + "\n")

	// The query-only pre-check reports nothing, so the override proceeds.
	if got := c.SelectMode(buf); got != mode.Fundamental {
		t.Fatalf("SelectMode() = %q, want fundamental", got)
	}

	if err := c.Revert(buf); err != nil {
		t.Fatalf("Revert() error = %v", err)
	}

	// Full re-resolution applies the file-local declaration.
	if host.ActiveMode(buf) != "text" {
		t.Errorf("active mode = %q, want text from local config", host.ActiveMode(buf))
	}
}

// applyOnlyResolver declares a mode only during full resolution, modeling a
// host whose trailing-block settings surface when actually applied.
type applyOnlyResolver struct{}

func (applyOnlyResolver) ResolveLocalConfig(buf *buffer.Buffer, queryOnly bool) (mode.ID, bool) {
	if queryOnly {
		return "", false
	}
	return "text", true
}

func TestRevertWithoutOverride(t *testing.T) {
	c, _ := newController(t, "go")
	buf := buffer.NewFromString("short\n")

	c.SelectMode(buf)
	if err := c.Revert(buf); !errors.Is(err, ErrNoOriginalMode) {
		t.Errorf("Revert() error = %v, want ErrNoOriginalMode", err)
	}
}

func TestSecondRevertFails(t *testing.T) {
	c, _ := newController(t, "go")
	buf := buffer.NewFromString(strings.Repeat("x", 300) + "\n")

	c.SelectMode(buf)
	if err := c.Revert(buf); err != nil {
		t.Fatalf("first Revert() error = %v", err)
	}
	if err := c.Revert(buf); !errors.Is(err, ErrNoOriginalMode) {
		t.Errorf("second Revert() error = %v, want ErrNoOriginalMode", err)
	}
}

func TestSessionResetBetweenPasses(t *testing.T) {
	c, _ := newController(t, "go")

	inhibitedContent := "-*- mode: text -*-\n" + strings.Repeat("x", 1000) + "\n"
	buf := buffer.NewFromString(inhibitedContent)

	c.SelectMode(buf)
	if sess := c.Session(buf); !sess.inhibited() {
		t.Fatal("first pass should record the inhibition")
	}

	// A second pass on a clean buffer must not inherit inhibition state.
	clean := buffer.NewFromString(strings.Repeat("x", 1000) + "\n")
	c.SelectMode(clean)
	if sess := c.Session(clean); sess.inhibited() {
		t.Error("inhibition leaked across buffers")
	}
	if sess := c.Session(clean); sess.LastState != Overridden {
		t.Errorf("LastState = %v, want overridden", sess.LastState)
	}
}

func TestHookFailureDoesNotBreakOverride(t *testing.T) {
	host := mode.NewMapHost("go")
	cfg := config.New()
	_ = cfg.Update(func(s *config.Settings) {
		s.PostOverrideHooks = []hook.Hook{
			hook.NewFunc("failing", func(*hook.Context) error {
				return errors.New("boom")
			}),
			hook.MakeReadOnly(),
		}
	})
	c := New(cfg, host)
	c.Enable()

	buf := buffer.NewFromString(strings.Repeat("x", 300) + "\n")
	got := c.SelectMode(buf)

	if got != mode.Fundamental {
		t.Errorf("SelectMode() = %q, want fundamental despite hook failure", got)
	}
	if !buf.ReadOnly() {
		t.Error("hooks after a failing hook must still run")
	}
}

func TestActivationFailureFallsBackToNoOverride(t *testing.T) {
	host := &failingHost{inner: mode.NewMapHost("go")}
	c := New(config.New(), host)
	c.Enable()

	buf := buffer.NewFromString(strings.Repeat("x", 300) + "\n")
	got := c.SelectMode(buf)

	if got != "go" {
		t.Errorf("SelectMode() = %q, want the selected mode when activation fails", got)
	}
	sess := c.Session(buf)
	if sess.LastState != NoOverride || sess.OriginalMode != "" {
		t.Errorf("session = %+v, want no-override with no original mode", sess)
	}
}

func TestDropSession(t *testing.T) {
	c, _ := newController(t, "go")
	buf := buffer.NewFromString(strings.Repeat("x", 300) + "\n")

	c.SelectMode(buf)
	c.DropSession(buf)

	if sess := c.Session(buf); sess.OriginalMode != "" || sess.LastState != Unevaluated {
		t.Errorf("session after drop = %+v, want zero value", sess)
	}
}

// failingHost wraps a MapHost and fails every activation.
type failingHost struct {
	inner *mode.MapHost
}

func (h *failingHost) SelectedMode(buf *buffer.Buffer) mode.ID {
	return h.inner.SelectedMode(buf)
}

func (h *failingHost) Activate(buf *buffer.Buffer, id mode.ID) error {
	return errors.New("activation refused")
}

func (h *failingHost) IsMinorModeActive(buf *buffer.Buffer, id mode.ID) bool {
	return h.inner.IsMinorModeActive(buf, id)
}

func (h *failingHost) SetMinorMode(buf *buffer.Buffer, id mode.ID, on bool) {
	h.inner.SetMinorMode(buf, id, on)
}
