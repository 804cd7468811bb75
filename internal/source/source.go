package source

import (
	"context"
	"fmt"

	"ReleaseRadar/internal/domain"
)

// Role assigns a configured source to one side of the merge.
type Role string

const (
	// RolePrimary marks announcement (web) sources, folded first.
	RolePrimary Role = "primary"
	// RoleSecondary marks update-catalog (OTA) sources, folded second.
	RoleSecondary Role = "secondary"
)

// Request carries all parameters required to execute one fetch.
type Request struct {
	SourceName string
	URL        string
	Options    map[string]string
}

// Fetcher captures a single fetch strategy (releases RSS, OTA catalog, etc.).
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.ReleaseItem, error)
}

// Registry keeps a mapping from fetcher names to their implementations.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces a fetcher implementation.
func (r *Registry) Register(fetcher Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	r.fetchers[fetcher.Name()] = fetcher
}

// Resolve returns a fetcher by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Fetcher, error) {
	if fetcher, ok := r.fetchers[name]; ok {
		return fetcher, nil
	}
	return nil, fmt.Errorf("fetcher %s is not registered", name)
}
