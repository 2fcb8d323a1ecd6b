package sources

import (
	"fmt"
	"strings"
	"sync"
)

// Registry resolves the Source strategy for a configured source name.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// NewRegistry builds a registry holding the given strategies.
func NewRegistry(srcs ...Source) *Registry {
	reg := &Registry{sources: make(map[string]Source)}
	for _, s := range srcs {
		reg.Register(s)
	}
	return reg
}

// Register adds a strategy keyed by its source name.
func (r *Registry) Register(s Source) {
	if s == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(s.Name()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.sources[key] = s
	r.mu.Unlock()
}

// SourceFor returns the strategy registered for the given source name.
func (r *Registry) SourceFor(name string) (Source, error) {
	if r == nil {
		return nil, fmt.Errorf("source registry is nil")
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("source name is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[key]
	if !ok {
		return nil, fmt.Errorf("no source strategy registered for %q", name)
	}
	return s, nil
}

// DefaultRegistry wires up the known source strategies, one session
// client each, for the given configs.
func DefaultRegistry(cfgs []SourceConfig) (*Registry, error) {
	reg := NewRegistry()
	for _, cfg := range cfgs {
		switch strings.ToLower(cfg.Name) {
		case lentaSourceName:
			reg.Register(NewLentaSource(nil, cfg))
		case riaSourceName:
			reg.Register(NewRIASource(nil, cfg))
		default:
			return nil, fmt.Errorf("source %q has no strategy implementation", cfg.Name)
		}
	}
	return reg, nil
}
