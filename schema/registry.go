package schema

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry resolves variant specs by profile name, building each variant
// at most once. Safe for concurrent use.
type Registry struct {
	base     *Spec
	profiles map[string]VariantConfig

	mu    sync.RWMutex
	specs map[string]*Spec

	buildGroup singleflight.Group // dedupe concurrent variant builds
}

// NewRegistry creates a registry over the given base spec and named
// variant profiles. A nil base defaults to the canonical event schema.
func NewRegistry(base *Spec, profiles map[string]VariantConfig) *Registry {
	if base == nil {
		base = Event()
	}
	return &Registry{
		base:     base,
		profiles: profiles,
		specs:    make(map[string]*Spec),
	}
}

// Base returns the registry's base spec.
func (r *Registry) Base() *Spec {
	return r.base
}

// Spec resolves a variant spec by profile name. The empty name resolves
// to the base spec. Unknown names fail with ErrUnknownProfile.
func (r *Registry) Spec(name string) (*Spec, error) {
	if name == "" {
		return r.base, nil
	}

	r.mu.RLock()
	if spec, exists := r.specs[name]; exists {
		r.mu.RUnlock()
		return spec, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.buildGroup.Do(name, func() (interface{}, error) {
		// Double-check cache after acquiring singleflight lock.
		r.mu.RLock()
		if spec, exists := r.specs[name]; exists {
			r.mu.RUnlock()
			return spec, nil
		}
		r.mu.RUnlock()

		cfg, ok := r.profiles[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownProfile)
		}

		spec, err := Variant(r.base, r.base.Name+"/"+name, cfg)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.specs[name] = spec
		r.mu.Unlock()

		return spec, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Spec), nil
}
