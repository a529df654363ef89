package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/enhance/pkg/domain"
	"github.com/aretw0/enhance/pkg/ports"
)

// Factory builds a plugin from its configuration block.
type Factory func(config map[string]any) (ports.Plugin, error)

// Registry manages the plugin factories available by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory to the registry.
// If a factory with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// Has reports whether a factory is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build looks up a factory by name and builds a plugin named after it.
// Returns domain.ErrPluginNotFound if the name is unknown.
func (r *Registry) Build(name string, config map[string]any) (ports.NamedPlugin, error) {
	r.mu.RLock()
	fn, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return ports.NamedPlugin{}, fmt.Errorf("%w: %s", domain.ErrPluginNotFound, name)
	}

	p, err := fn(config)
	if err != nil {
		return ports.NamedPlugin{}, fmt.Errorf("plugin %s: %w", name, err)
	}
	return ports.NamedPlugin{Name: name, Plugin: p}, nil
}
