// Package provider defines the capability interfaces and implementations for
// enrichment providers. Adapters normalize each vendor's HTTP responses into
// the shared outcome enumeration; a nil result always means "no result" and
// lets the waterfall move on. Adapters never return errors.
package provider

import (
	"context"
	"sync"

	"github.com/signalis/connector-cli/internal/model"
)

// Finder discovers a best candidate email for a record from its name/domain
// or name/company fields.
type Finder interface {
	// Name returns the provider identifier (matches names in the routes table).
	Name() string
	// Find returns an outcome, or nil when the provider has nothing to say
	// (transport failure, parse failure, missing credential).
	Find(ctx context.Context, record *model.NormalizedRecord) *model.EnrichmentResult
}

// Verifier checks whether a known email is deliverable. The provider's
// verdict is authoritative; an ambiguous verdict maps to nil, not a negative.
type Verifier interface {
	Name() string
	Verify(ctx context.Context, email string) *model.EnrichmentResult
}

// Registry manages available find providers by name.
type Registry struct {
	mu      sync.RWMutex
	finders map[string]Finder
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{finders: make(map[string]Finder)}
}

// Register adds a find provider to the registry.
func (r *Registry) Register(f Finder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finders[f.Name()] = f
}

// Get returns a provider by name, or nil if not registered.
func (r *Registry) Get(name string) Finder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.finders[name]
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.finders))
	for name := range r.finders {
		names = append(names, name)
	}
	return names
}
