// internal/savehook/pipeline.go
//
// Before-save hook pipeline. The editor invokes Run with the full list of
// about-to-be-saved locations; every hook may inspect the list, perform
// out-of-band work, and return the (possibly adjusted) list for the next
// hook. The built-in template-sync interceptor lives in interceptor.go.

package savehook

// Hook inspects the pending save paths and returns the set to persist.
// Returning nil keeps the previous set unchanged.
type Hook func(paths []string) []string

// Logger is the minimal logging surface the pipeline needs.
type Logger interface {
	Warn(format string, args ...any)
}

type namedHook struct {
	name string
	hook Hook
}

// Pipeline runs registered hooks in order on the editor main thread. It
// is not goroutine-safe by contract; the host serializes all saves.
type Pipeline struct {
	hooks []namedHook
	log   Logger
}

// PipelineOption customizes Pipeline construction.
type PipelineOption func(*Pipeline)

// WithLogger injects a logger for hook diagnostics.
func WithLogger(log Logger) PipelineOption {
	return func(p *Pipeline) {
		p.log = log
	}
}

// NewPipeline constructs an empty pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Register appends a named hook. Registration order is execution order.
func (p *Pipeline) Register(name string, hook Hook) {
	if hook == nil {
		return
	}
	p.hooks = append(p.hooks, namedHook{name: name, hook: hook})
}

// Len reports how many hooks are registered.
func (p *Pipeline) Len() int {
	return len(p.hooks)
}

// Run passes the pending paths through every hook in order and returns
// the final set. A hook returning nil leaves the set untouched.
func (p *Pipeline) Run(paths []string) []string {
	current := paths
	for _, entry := range p.hooks {
		result := entry.hook(current)
		if result == nil {
			if p.log != nil {
				p.log.Warn("savehook: %s returned nil path set, keeping previous", entry.name)
			}
			continue
		}
		current = result
	}
	return current
}
