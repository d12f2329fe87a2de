//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/sourcepatch/internal/domain/commands"
	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
)

// StubOptimizeCommand is a stub implementation of commands.Optimize.
type StubOptimizeCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Report           *entities.Report
	LastSettings     *entities.Settings
	LastOpts         commands.OptimizeOptions
}

var _ commands.Optimize = (*StubOptimizeCommand)(nil)

func (s *StubOptimizeCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.OptimizeOptions,
) (*entities.Report, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	if s.Report == nil {
		return &entities.Report{DryRun: opts.DryRun, WorktreeChanges: -1}, nil
	}
	return s.Report, nil
}
