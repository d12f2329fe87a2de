//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/sourcepatch/internal/domain/commands"
	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
)

// StubPkgbuildCommand is a stub implementation of commands.Pkgbuild.
type StubPkgbuildCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	State            entities.PkgbuildState
	LastSettings     *entities.Settings
	LastOpts         commands.PkgbuildOptions
}

var _ commands.Pkgbuild = (*StubPkgbuildCommand)(nil)

func (s *StubPkgbuildCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.PkgbuildOptions,
) (*entities.PkgbuildState, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	state := s.State
	return &state, nil
}
