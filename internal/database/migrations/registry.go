package migrations

import (
	"sort"
	"sync"
)

// DefaultRegistry is the global migration registry
var DefaultRegistry = &Registry{
	migrations: make(map[int]Migration),
}

// Registry holds migrations keyed by version.
type Registry struct {
	mu         sync.RWMutex
	migrations map[int]Migration
}

// Register adds a migration to the registry
func (r *Registry) Register(m Migration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.migrations[m.Version()] = m
}

// Migrations returns all registered migrations sorted by version
func (r *Registry) Migrations() []Migration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Migration, 0, len(r.migrations))
	for _, m := range r.migrations {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Version() < out[j].Version()
	})
	return out
}

// Latest returns the highest registered version, or 0.
func (r *Registry) Latest() int {
	ms := r.Migrations()
	if len(ms) == 0 {
		return 0
	}
	return ms[len(ms)-1].Version()
}

// Register is a convenience function to register migrations with the default registry
func Register(m Migration) {
	DefaultRegistry.Register(m)
}
