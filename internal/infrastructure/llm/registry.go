package llm

import (
	"fmt"

	"PolicyPal/internal/ports"
)

// Registry keeps a mapping from summarizer names to their implementations.
type Registry struct {
	backends map[string]ports.Summarizer
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: map[string]ports.Summarizer{}}
}

// Register adds or replaces a backend.
func (r *Registry) Register(backend ports.Summarizer) {
	if backend == nil {
		return
	}
	if r.backends == nil {
		r.backends = map[string]ports.Summarizer{}
	}
	r.backends[backend.Name()] = backend
}

// Resolve returns a backend by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.Summarizer, error) {
	if backend, ok := r.backends[name]; ok {
		return backend, nil
	}
	return nil, fmt.Errorf("summarizer %s is not registered", name)
}
