package repositories

import "context"

// VersionQuery selects the releases of Package with major version Major in
// the registry at Registry.
type VersionQuery struct {
	Registry string
	Package  string
	Major    int
}

// VersionRepository looks up published versions in a package registry.
type VersionRepository interface {
	// HighestVersion returns the greatest MAJOR.minor.patch release matching
	// the query. Lookup failures are reported as absent, never as errors:
	// callers skip the dependent edit.
	HighestVersion(ctx context.Context, query VersionQuery) (string, bool)
}
