// internal/session/controller.go
//
// The isolated-edit workflow controller. It owns the state transition
// select template → switch into the scratch workspace → edit →
// return to the prior workspace. All editor side effects go through the
// injected Host capability, so the controller runs unchanged against the
// real TUI or a fake host in tests.

package session

import (
	"strings"
)

// Kind classifies what the current selection refers to.
type Kind int

const (
	// KindNone means nothing usable is selected.
	KindNone Kind = iota
	// KindTemplate is a persisted template asset.
	KindTemplate
	// KindInstance is a live object bound to a template.
	KindInstance
)

// Selection describes the object the user currently has selected.
type Selection struct {
	Kind         Kind
	TemplatePath string
}

// State enumerates the controller's coarse phases.
type State int

const (
	// StateIdle: normal workspace, no floating control.
	StateIdle State = iota
	// StateTransitioning: BeginEdit is sequencing the switch.
	StateTransitioning
	// StateEditing: scratch workspace active, floating control visible.
	StateEditing
)

// EditSession is the transient record of one isolated-edit invocation.
type EditSession struct {
	ScratchPath  string
	PriorPath    string
	PriorLabel   string
	TemplatePath string
	InstanceID   string
}

// Host is the editor capability bundle the controller drives. Every
// method maps to one host collaborator; implementations must tolerate
// being called on the editor main thread only.
type Host interface {
	// ActiveWorkspace reports the location and display label of the
	// workspace the user is currently in.
	ActiveWorkspace() (path, label string)
	// PromptSaveChanges offers to persist unsaved changes. It returns
	// false when the user declines, which aborts the operation.
	PromptSaveChanges() bool
	// SwitchTo opens the workspace at path. It fails when the file is
	// absent so the caller can fall back to CreateAt.
	SwitchTo(path string) error
	// CreateAt makes a fresh empty workspace at path and activates it.
	CreateAt(path string) error
	// ClearActive destroys all top-level content of the active workspace.
	ClearActive()
	// SaveActive persists the active workspace to its location.
	SaveActive() error
	// Instantiate spawns a live instance of the template into the active
	// workspace and returns its object ID.
	Instantiate(templatePath string) (string, error)
	// Select makes the object the active selection.
	Select(instanceID string)
	// FocusViewport brings the editing viewport into focus, if any.
	FocusViewport()
}

// Logger is the minimal logging surface the controller uses.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// Controller sequences the isolated-edit workflow. The scratch workspace
// location is fixed at construction and never changes; there is exactly
// one scratch workspace per process, so a second BeginEdit while editing
// restarts the same session.
type Controller struct {
	scratchPath string
	host        Host
	log         Logger

	state   State
	session *EditSession
}

// ControllerOption customizes Controller construction.
type ControllerOption func(*Controller)

// WithLogger injects a logger for workflow progress entries.
func WithLogger(log Logger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// NewController builds a controller around the injected scratch path and
// host capabilities.
func NewController(scratchPath string, host Host, opts ...ControllerOption) *Controller {
	c := &Controller{scratchPath: scratchPath, host: host}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// ScratchPath returns the scratch workspace location this controller
// was constructed with.
func (c *Controller) ScratchPath() string {
	return c.scratchPath
}

// State returns the current workflow state.
func (c *Controller) State() State {
	return c.state
}

// Session returns the active edit session, or nil outside Editing.
func (c *Controller) Session() *EditSession {
	return c.session
}

// ControlVisible reports whether the floating return control is shown.
func (c *Controller) ControlVisible() bool {
	return c.state == StateEditing && c.session != nil
}

// CanEdit reports whether the selection can enter isolated editing. Pure
// query, no side effects; the trigger hotkey is enabled from this.
func (c *Controller) CanEdit(sel Selection) bool {
	return sel.Kind == KindTemplate && strings.TrimSpace(sel.TemplatePath) != ""
}

// BeginEdit validates the selection and transitions into the scratch
// workspace with a fresh live instance of the selected template. Every
// failure path is a silent no-op; declined prompts abort with no state
// mutated.
func (c *Controller) BeginEdit(sel Selection) {
	if !c.CanEdit(sel) {
		return
	}
	if !c.host.PromptSaveChanges() {
		c.logInfo("edit aborted: save prompt declined")
		return
	}

	priorPath, priorLabel := c.host.ActiveWorkspace()
	restart := c.state == StateEditing && c.session != nil
	c.state = StateTransitioning

	next := &EditSession{
		ScratchPath:  c.scratchPath,
		TemplatePath: sel.TemplatePath,
	}
	if priorPath != c.scratchPath {
		next.PriorPath = priorPath
		next.PriorLabel = priorLabel
	} else if restart {
		// Restarting from inside the scratch workspace keeps the
		// original return target.
		next.PriorPath = c.session.PriorPath
		next.PriorLabel = c.session.PriorLabel
	}

	if priorPath != c.scratchPath {
		if err := c.host.SwitchTo(c.scratchPath); err != nil {
			c.logWarn("scratch workspace unavailable (%v), creating fresh", err)
			if err := c.host.CreateAt(c.scratchPath); err != nil {
				c.logWarn("scratch workspace create failed: %v", err)
				c.state = StateIdle
				c.session = nil
				return
			}
		}
	}

	// Idempotent cleanup: leftovers from a previous session go away, and
	// saving the now-empty workspace guarantees the location is a valid
	// artifact for future opens.
	c.host.ClearActive()
	if err := c.host.SaveActive(); err != nil {
		c.logWarn("scratch workspace save failed: %v", err)
	}

	instanceID, err := c.host.Instantiate(sel.TemplatePath)
	if err != nil {
		c.logWarn("instantiate %s failed: %v", sel.TemplatePath, err)
		c.state = StateIdle
		c.session = nil
		return
	}
	next.InstanceID = instanceID
	c.host.Select(instanceID)
	c.host.FocusViewport()

	c.session = next
	c.state = StateEditing
	c.logInfo("editing %s in scratch workspace", sel.TemplatePath)
}

// ReturnToPrevious switches back to the workspace recorded at the most
// recent BeginEdit. Only available while the floating control is shown.
// A declined prompt is a no-op and the control stays open.
func (c *Controller) ReturnToPrevious() {
	if !c.ControlVisible() {
		return
	}
	if !c.host.PromptSaveChanges() {
		return
	}
	prior := c.session.PriorPath
	label := c.session.PriorLabel
	if prior == "" {
		// Nothing to return to; just dismiss.
		c.dismiss("no prior workspace recorded")
		return
	}
	if err := c.host.SwitchTo(prior); err != nil {
		c.logWarn("return to %s failed: %v", prior, err)
		return
	}
	// SwitchTo may already have dismissed the session through a
	// workspace-changed notification; dismiss is idempotent.
	c.dismiss("returned to " + label)
}

// HandleWorkspaceChanged is the push notification path: the host reports
// that the active workspace changed. If the session left the scratch
// workspace by any means, the control self-dismisses.
func (c *Controller) HandleWorkspaceChanged(path string) {
	if c.state != StateEditing {
		return
	}
	if path != c.scratchPath {
		c.dismiss("workspace changed externally")
	}
}

// Tick is the polling fallback for hosts without push notification. It
// performs the same liveness check on every editor frame.
func (c *Controller) Tick() {
	if c.state != StateEditing {
		return
	}
	active, _ := c.host.ActiveWorkspace()
	if active != c.scratchPath {
		c.dismiss("workspace changed externally")
	}
}

func (c *Controller) dismiss(reason string) {
	if c.state == StateIdle && c.session == nil {
		return
	}
	c.logInfo("session closed: %s", reason)
	c.session = nil
	c.state = StateIdle
}

func (c *Controller) logInfo(format string, args ...any) {
	if c.log != nil {
		c.log.Info(format, args...)
	}
}

func (c *Controller) logWarn(format string, args ...any) {
	if c.log != nil {
		c.log.Warn(format, args...)
	}
}
