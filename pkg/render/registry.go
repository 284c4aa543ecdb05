package render

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	// ErrRendererNotFound is returned by Get for unknown names.
	ErrRendererNotFound = errors.New("render: renderer not found")
	// ErrDuplicateRenderer is returned when a name is registered twice.
	ErrDuplicateRenderer = errors.New("render: renderer already registered")
)

// Registry maps renderer names to renderers. The HTML page and the terminal
// form are both resolved through it.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]Renderer{}}
}

// Register adds each renderer under its Name(). Nothing is added when any
// renderer is invalid or already present.
func (r *Registry) Register(renderers ...Renderer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make(map[string]Renderer, len(renderers))
	for _, renderer := range renderers {
		if renderer == nil {
			return errors.New("render: renderer is required")
		}
		name := renderer.Name()
		if name == "" {
			return errors.New("render: renderer name is required")
		}
		_, taken := r.byName[name]
		if _, queued := pending[name]; taken || queued {
			return fmt.Errorf("%w: %q", ErrDuplicateRenderer, name)
		}
		pending[name] = renderer
	}
	maps.Copy(r.byName, pending)
	return nil
}

// MustRegister panics when Register fails.
func (r *Registry) MustRegister(renderers ...Renderer) {
	if err := r.Register(renderers...); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.byName))
}
