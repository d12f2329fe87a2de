package workflow

import "github.com/rios0rios0/sourcepatch/internal/domain/repositories"

// NewWorkflowRepositoryWithEnv builds a repository reading variables from env.
func NewWorkflowRepositoryWithEnv(env map[string]string) repositories.WorkflowRepository {
	return &GitHubActionsWorkflowRepository{getenv: func(key string) string { return env[key] }}
}
