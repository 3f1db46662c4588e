// Package persistence provides the data storage abstraction for workflows
// and execution history.
package persistence

import (
	"context"
	"time"

	"github.com/juriflow/juriflow/pkg/models"
)

// Persistence is the storage contract shared by all backends. Executions are
// append-only: SaveExecution is only called with terminal executions and
// implementations never overwrite an existing record.
// IncrementExecutionStats must be an atomic read-modify-write so concurrent
// executions of the same workflow cannot lose counter updates.
type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error
	IncrementExecutionStats(ctx context.Context, workflowID string, executedAt time.Time) error

	SaveExecution(ctx context.Context, execution *models.Execution) error
	// Executions returns history newest-first by triggered_at; an empty
	// workflowID returns history across all workflows.
	Executions(ctx context.Context, workflowID string) ([]*models.Execution, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
