package profile

import (
	"fmt"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// Registry holds the available scan profiles in registration order.
type Registry struct {
	profiles map[string]ScanStrategy
	order    []string
}

// NewRegistry creates a registry with all built-in profiles.
func NewRegistry() *Registry {
	return NewRegistryWithProfiles(
		NewQuickScan(),
		NewFullScan(),
		NewCustomScan(),
		NewOfflineScan(),
	)
}

// NewRegistryWithProfiles creates a registry with custom profiles (for testing).
func NewRegistryWithProfiles(profiles ...ScanStrategy) *Registry {
	r := &Registry{
		profiles: make(map[string]ScanStrategy),
	}
	for _, p := range profiles {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a profile.
func (r *Registry) Register(p ScanStrategy) {
	if _, ok := r.profiles[p.ID()]; !ok {
		r.order = append(r.order, p.ID())
	}
	r.profiles[p.ID()] = p
}

// Get returns a profile by ID.
func (r *Registry) Get(id string) (ScanStrategy, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// Lookup returns the scan profile for id, or an error naming it.
func (r *Registry) Lookup(id string) (domain.ScanProfile, error) {
	p, ok := r.Get(id)
	if !ok {
		return domain.ScanProfile{}, fmt.Errorf("scan profile not found: %s", id)
	}
	return ToProfile(p), nil
}

// GetAll returns all profiles in registration order.
func (r *Registry) GetAll() []ScanStrategy {
	result := make([]ScanStrategy, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.profiles[id])
	}
	return result
}

// List returns all profile IDs in registration order.
func (r *Registry) List() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Targets returns the scan targets for a running profile, falling back to
// CriticalSystemFiles for profiles the registry does not know.
func (r *Registry) Targets(p domain.ScanProfile) []string {
	if s, ok := r.Get(p.ID); ok {
		return s.Targets()
	}
	return CriticalSystemFiles
}
