package repositories

import "github.com/rios0rios0/sourcepatch/internal/domain/entities"

// WorkflowRepository hands values over to later steps of a CI workflow.
type WorkflowRepository interface {
	// SetOutputs appends key=value lines to the step output file.
	SetOutputs(values []entities.KeyValue) error

	// SetEnv appends key=value lines to the environment file.
	SetEnv(values []entities.KeyValue) error
}
