package override

import (
	"errors"
	"sync"

	"github.com/dshills/longmode/internal/config"
	"github.com/dshills/longmode/internal/engine/buffer"
	"github.com/dshills/longmode/internal/hook"
	"github.com/dshills/longmode/internal/localvar"
	"github.com/dshills/longmode/internal/log"
	"github.com/dshills/longmode/internal/mode"
	"github.com/dshills/longmode/internal/scan"
)

// ErrNoOriginalMode is returned by Revert when the buffer has no recorded
// override to undo.
var ErrNoOriginalMode = errors.New("no original mode recorded")

// Controller orchestrates the long-line override decision.
type Controller struct {
	mu        sync.RWMutex
	cfg       *config.Config
	host      mode.Host
	registry  *mode.Registry
	resolver  mode.LocalConfigResolver
	logger    *log.Logger
	sessions  map[string]*Session
	installed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithRegistry sets the mode inheritance registry.
func WithRegistry(r *mode.Registry) Option {
	return func(c *Controller) {
		c.registry = r
	}
}

// WithResolver sets the local-configuration resolver. Pass nil to disable
// the trailing-block inhibition path entirely.
func WithResolver(r mode.LocalConfigResolver) Option {
	return func(c *Controller) {
		c.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a controller for the given configuration and host. By
// default it uses the built-in mode registry and local-variable resolver
// and discards logs.
func New(cfg *config.Config, host mode.Host, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg,
		host:     host,
		registry: mode.DefaultRegistry(),
		resolver: localvar.NewResolver(),
		logger:   log.Null,
		sessions: make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("override")

	return c
}

// Enable installs the mode-selection interception. Idempotent.
func (c *Controller) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.installed = true
}

// Disable removes the interception, restoring plain host behavior.
// Idempotent. Existing overrides stay in effect until reverted.
func (c *Controller) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.installed = false
}

// Installed reports whether the interception is installed.
func (c *Controller) Installed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.installed
}

// Session returns a copy of the buffer's session state.
func (c *Controller) Session(buf *buffer.Buffer) Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if sess, ok := c.sessions[buf.ID()]; ok {
		out := *sess
		out.Inhibited = append([]mode.ID(nil), sess.Inhibited...)
		return out
	}
	return Session{}
}

// session returns the buffer's live session, creating it if needed.
func (c *Controller) session(buf *buffer.Buffer) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.sessions[buf.ID()]
	if !ok {
		sess = &Session{}
		c.sessions[buf.ID()] = sess
	}
	return sess
}

// DropSession discards the session of a closed buffer.
func (c *Controller) DropSession(buf *buffer.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, buf.ID())
}

// SelectMode runs one mode-selection pass for the buffer and returns the
// mode that ends up active. It is the middleware around the host's own
// selection: when the interception is not installed or the engine is
// disabled, the host's choice passes through untouched and no detection
// runs.
func (c *Controller) SelectMode(buf *buffer.Buffer) mode.ID {
	snap := c.cfg.Snapshot()
	sess := c.session(buf)
	sess.resetPass()

	if !c.Installed() || !snap.Enabled {
		sess.LastState = NoOverride
		return c.host.SelectedMode(buf)
	}

	// Header-comment declarations are scanned before delegating, matching
	// the host's own first-line processing order.
	if snap.LocalVariablesEnabled() {
		sess.inhibit(localvar.HeaderModes(buf)...)
	}

	selected := c.host.SelectedMode(buf)

	// The host's selection may itself process file-local variables, so the
	// inhibition signal must be re-checked after delegation, not only
	// before.
	if snap.LocalVariablesEnabled() && c.resolver != nil {
		if declared, ok := c.resolver.ResolveLocalConfig(buf, true); ok {
			sess.inhibit(declared)
		}
	}

	if sess.inhibited() {
		sess.LastState = Inhibited
		c.logger.Debug("buffer %s: override inhibited by declaration %v", buf.ID(), sess.Inhibited)
		return selected
	}

	if !c.registry.IsTarget(selected, snap.TargetModes) {
		sess.LastState = NoOverride
		return selected
	}

	res := scan.DetectResult(buf, snap.MaxLinesChecked, snap.Threshold)
	if !res.Found {
		sess.LastState = NoOverride
		return selected
	}

	if err := c.host.Activate(buf, snap.FallbackMode); err != nil {
		// Defensive default: a failed activation means no override.
		c.logger.Error("buffer %s: activating fallback mode %q failed: %v",
			buf.ID(), snap.FallbackMode, err)
		sess.LastState = NoOverride
		return selected
	}

	sess.OriginalMode = selected
	sess.LastState = Overridden
	c.logger.Info("buffer %s: mode %q replaced by %q (line %d is %d runes, threshold %d)",
		buf.ID(), selected, snap.FallbackMode, res.Line, res.Length, snap.Threshold)

	// Side effects run as a separate phase after the fallback mode's own
	// initialization. Read-only suppression sits last in the default hook
	// order so earlier steps never operate on a read-only buffer.
	c.runSideEffects(buf, snap, selected)

	return snap.FallbackMode
}

// runSideEffects disables configured minor modes, then runs the
// post-override hook sequence.
func (c *Controller) runSideEffects(buf *buffer.Buffer, snap config.Settings, original mode.ID) {
	for _, id := range snap.DisabledMinorModes {
		if c.host.IsMinorModeActive(buf, id) {
			c.host.SetMinorMode(buf, id, false)
		}
	}

	seq := hook.NewSequence(snap.PostOverrideHooks, c.logger)
	failed := seq.Run(&hook.Context{
		Buffer:       buf,
		OriginalMode: original,
		FallbackMode: snap.FallbackMode,
		Minor:        c.host,
		Log:          c.logger,
	})
	if failed > 0 {
		c.logger.Warn("buffer %s: %d post-override hook(s) failed", buf.ID(), failed)
	}
}

// Revert undoes an override: the recorded original mode is reactivated and
// file-local configuration is re-resolved in full so settings belonging to
// the restored mode take effect. Returns ErrNoOriginalMode when the buffer
// has no override to undo.
func (c *Controller) Revert(buf *buffer.Buffer) error {
	sess := c.session(buf)
	if sess.OriginalMode == "" {
		return ErrNoOriginalMode
	}

	restored := sess.OriginalMode
	if err := c.host.Activate(buf, restored); err != nil {
		return err
	}

	// Full local-configuration resolution, not the query-only shortcut:
	// a file-local mode declaration belonging to the restored mode wins.
	if c.resolver != nil {
		if declared, ok := c.resolver.ResolveLocalConfig(buf, false); ok && declared != "" {
			if err := c.host.Activate(buf, declared); err != nil {
				c.logger.Warn("buffer %s: activating declared mode %q failed: %v",
					buf.ID(), declared, err)
			}
		}
	}

	buf.SetReadOnly(false)
	sess.OriginalMode = ""
	sess.LastState = Reverted
	c.logger.Info("buffer %s: override reverted, mode %q restored", buf.ID(), restored)

	return nil
}
