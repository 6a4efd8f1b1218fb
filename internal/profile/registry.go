// Package profile resolves certificate profiles against request forms.
//
// The package is pure: Apply, Propagate and Edit take a form snapshot and
// return a new one, so concurrent sessions never share mutable state.
package profile

import (
	"fmt"

	"reactor.de/certprofile/internal/domain"
)

// Registry holds an immutable snapshot of profiles in registration order.
type Registry struct {
	names    []string
	profiles map[string]*domain.Profile
}

// NewRegistry builds a registry from profiles in the order given.
// Duplicate or empty names are rejected.
func NewRegistry(profiles []*domain.Profile) (*Registry, error) {
	r := &Registry{
		names:    make([]string, 0, len(profiles)),
		profiles: make(map[string]*domain.Profile, len(profiles)),
	}
	for _, p := range profiles {
		if p == nil || p.Name == "" {
			return nil, fmt.Errorf("%w: profile name is required", domain.ErrValidation)
		}
		if _, exists := r.profiles[p.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate profile %q", domain.ErrValidation, p.Name)
		}
		r.names = append(r.names, p.Name)
		r.profiles[p.Name] = p
	}
	return r, nil
}

// Get returns the profile registered under name.
func (r *Registry) Get(name string) (*domain.Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, &domain.NotFoundError{Name: name}
	}
	return p, nil
}

// All returns the registered profile names in registration order.
func (r *Registry) All() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(r.names)
}
