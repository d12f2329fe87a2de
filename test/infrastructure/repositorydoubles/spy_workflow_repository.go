//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
)

// SpyWorkflowRepository implements repositories.WorkflowRepository and keeps
// every value handed to it.
type SpyWorkflowRepository struct {
	Outputs []entities.KeyValue
	Env     []entities.KeyValue
	Err     error
}

var _ repositories.WorkflowRepository = (*SpyWorkflowRepository)(nil)

func (s *SpyWorkflowRepository) SetOutputs(values []entities.KeyValue) error {
	s.Outputs = append(s.Outputs, values...)
	return s.Err
}

func (s *SpyWorkflowRepository) SetEnv(values []entities.KeyValue) error {
	s.Env = append(s.Env, values...)
	return s.Err
}

// EnvValue returns the last value exported under key.
func (s *SpyWorkflowRepository) EnvValue(key string) (string, bool) {
	for i := len(s.Env) - 1; i >= 0; i-- {
		if s.Env[i].Key == key {
			return s.Env[i].Value, true
		}
	}
	return "", false
}

// StubWorktreeRepository implements repositories.WorktreeRepository.
type StubWorktreeRepository struct {
	Paths []string
	Err   error
	Dirs  []string
}

var _ repositories.WorktreeRepository = (*StubWorktreeRepository)(nil)

func (s *StubWorktreeRepository) ChangedPaths(dir string) ([]string, error) {
	s.Dirs = append(s.Dirs, dir)
	return s.Paths, s.Err
}
