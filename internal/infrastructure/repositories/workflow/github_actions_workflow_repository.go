package workflow

import (
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
)

const (
	outputFileEnv = "GITHUB_OUTPUT"
	envFileEnv    = "GITHUB_ENV"
)

// GitHubActionsWorkflowRepository implements repositories.WorkflowRepository
// with the files GitHub Actions exposes to a step. Outside of a workflow the
// values are only logged.
type GitHubActionsWorkflowRepository struct {
	getenv func(string) string
}

// NewGitHubActionsWorkflowRepository creates a new GitHubActionsWorkflowRepository.
func NewGitHubActionsWorkflowRepository() repositories.WorkflowRepository {
	return &GitHubActionsWorkflowRepository{getenv: os.Getenv}
}

func (r *GitHubActionsWorkflowRepository) SetOutputs(values []entities.KeyValue) error {
	return r.appendTo(outputFileEnv, values)
}

func (r *GitHubActionsWorkflowRepository) SetEnv(values []entities.KeyValue) error {
	return r.appendTo(envFileEnv, values)
}

func (r *GitHubActionsWorkflowRepository) appendTo(variable string, values []entities.KeyValue) error {
	path := r.getenv(variable)
	if path == "" {
		for _, value := range values {
			logger.Debugf("[workflow] %s unset, skipping %s=%s", variable, value.Key, value.Value)
		}
		return nil
	}

	var builder strings.Builder
	for _, value := range values {
		if strings.ContainsAny(value.Value, "\r\n") {
			return fmt.Errorf("value of %s spans several lines", value.Key)
		}
		builder.WriteString(value.Key + "=" + value.Value + "\n")
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", variable, err)
	}
	defer file.Close()

	if _, err = file.WriteString(builder.String()); err != nil {
		return fmt.Errorf("failed to write %s: %w", variable, err)
	}
	return file.Close()
}
