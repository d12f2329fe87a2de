package repositories

import (
	"fmt"
	"sort"
	"strings"

	domainRepos "github.com/rios0rios0/sourcepatch/internal/domain/repositories"
)

// ReleaseFactory is a constructor function that creates a ReleaseRepository given an auth token.
type ReleaseFactory func(token string) domainRepos.ReleaseRepository

// ReleaseProviderRegistry manages all registered release host implementations.
type ReleaseProviderRegistry struct {
	providers map[string]ReleaseFactory
}

var _ domainRepos.ReleaseProvider = (*ReleaseProviderRegistry)(nil)

// NewReleaseProviderRegistry creates an empty registry.
func NewReleaseProviderRegistry() *ReleaseProviderRegistry {
	return &ReleaseProviderRegistry{
		providers: make(map[string]ReleaseFactory),
	}
}

// Register adds a release host factory under the given name (e.g. "github").
func (r *ReleaseProviderRegistry) Register(name string, factory ReleaseFactory) {
	r.providers[name] = factory
}

// Get returns a configured release repository for the given name and token.
func (r *ReleaseProviderRegistry) Get(name, token string) (domainRepos.ReleaseRepository, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf(
			"unknown release provider type: %q (known: %s)", name, strings.Join(r.Names(), ", "),
		)
	}
	return factory(token), nil
}

// Names returns the sorted list of registered provider names.
func (r *ReleaseProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
