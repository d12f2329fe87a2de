//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
)

// StubVersionRepository implements repositories.VersionRepository with a fixed answer.
type StubVersionRepository struct {
	Version string
	Found   bool
	Queries []repositories.VersionQuery
}

var _ repositories.VersionRepository = (*StubVersionRepository)(nil)

func (s *StubVersionRepository) HighestVersion(
	_ context.Context, query repositories.VersionQuery,
) (string, bool) {
	s.Queries = append(s.Queries, query)
	return s.Version, s.Found
}
