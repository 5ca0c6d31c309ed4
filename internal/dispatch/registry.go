package dispatch

import (
	"context"
	"io"
	"sort"

	"github.com/bgdnvk/flowctl/internal/activity"
	"github.com/bgdnvk/flowctl/internal/catalog"
)

// ActionContext is what a pre/post action handler gets to work with.
type ActionContext struct {
	Op          *catalog.Operation
	ProjectRoot string
	RunID       string
	Out         io.Writer
	Recorder    activity.Recorder
}

// ActionFunc runs one named pre or post action.
type ActionFunc func(ctx context.Context, ac ActionContext) error

// Registry maps action identifiers to handlers. Unknown identifiers resolve
// to a no-op so catalogs can name hooks this build does not know about.
type Registry struct {
	handlers map[string]ActionFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]ActionFunc)}
}

// Register binds id to fn, replacing any previous handler.
func (r *Registry) Register(id string, fn ActionFunc) {
	r.handlers[id] = fn
}

// Has reports whether id has a registered handler.
func (r *Registry) Has(id string) bool {
	_, ok := r.handlers[id]
	return ok
}

// Lookup returns the handler for id, or a no-op handler.
func (r *Registry) Lookup(id string) ActionFunc {
	if fn, ok := r.handlers[id]; ok {
		return fn
	}
	return noop
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func noop(context.Context, ActionContext) error { return nil }
