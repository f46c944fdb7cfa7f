package savehook

import (
	"github.com/prefabworks/prefabedit/internal/scene"
)

// SyncHost is the capability bundle the interceptor needs from the
// editor: which workspace is active, what its top-level objects are, and
// how to push an instance's state back into its template.
type SyncHost interface {
	ActiveWorkspacePath() string
	RootObjects() []*scene.Object
	ApplyToTemplate(root *scene.Object) error
}

// SyncLogger extends Logger with the levels the interceptor reports at.
type SyncLogger interface {
	Logger
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Interceptor syncs template instances back to their source assets when
// the scratch workspace is saved. It is a passive filter: the returned
// path set is always the input, same members, same order.
type Interceptor struct {
	scratchPath string
	host        SyncHost
	log         SyncLogger
}

// NewInterceptor builds an interceptor for the given scratch workspace
// location. The path is fixed for the process lifetime and injected here
// rather than looked up globally.
func NewInterceptor(scratchPath string, host SyncHost, log SyncLogger) *Interceptor {
	return &Interceptor{scratchPath: scratchPath, host: host, log: log}
}

// OnBeforeSave implements Hook. It is a no-op pass-through unless the
// active workspace is the scratch workspace and the scratch workspace's
// own location is among the pending paths. When applicable, every
// top-level object bound to a template has its state pushed back to that
// template before the save proceeds. Apply failures are logged and the
// save continues; nothing here is fatal.
func (i *Interceptor) OnBeforeSave(paths []string) []string {
	if i == nil || i.host == nil {
		return paths
	}
	if i.host.ActiveWorkspacePath() != i.scratchPath {
		return paths
	}
	if !containsPath(paths, i.scratchPath) {
		return paths
	}
	for _, root := range i.host.RootObjects() {
		if root == nil || root.Binding == nil {
			continue
		}
		if err := i.host.ApplyToTemplate(root); err != nil {
			if i.log != nil {
				i.log.Error("savehook: apply %s to %s: %v", root.Name, root.Binding.TemplatePath, err)
			}
			continue
		}
		if i.log != nil {
			i.log.Info("savehook: synced %s → %s", root.Name, root.Binding.TemplatePath)
		}
	}
	return paths
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}
	return false
}
