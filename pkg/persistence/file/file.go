// Package file provides file-based persistence for workflows and execution
// history, suitable for development and single-instance deployments.
package file

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/juriflow/juriflow/pkg/models"
)

// Persistence implements persistence.Persistence on the file system. A
// single mutex guards read-modify-write sequences (execution stats) so
// concurrent executions cannot lose counter updates.
type Persistence struct {
	root          string
	workflowRepo  *WorkflowRepository
	executionRepo *ExecutionRepository
	mu            sync.Mutex
}

// NewPersistence creates file persistence rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:          cleanRoot,
		workflowRepo:  NewWorkflowRepository(cleanRoot),
		executionRepo: NewExecutionRepository(cleanRoot),
	}
}

func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	return fp.workflowRepo.GetAll(ctx)
}

func (fp *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	return fp.workflowRepo.GetByID(ctx, id)
}

func (fp *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	return fp.workflowRepo.Save(ctx, workflow)
}

func (fp *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return fp.workflowRepo.Delete(ctx, id)
}

// IncrementExecutionStats bumps execution_count and last_executed under the
// store mutex.
func (fp *Persistence) IncrementExecutionStats(ctx context.Context, workflowID string, executedAt time.Time) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	workflow, err := fp.workflowRepo.GetByID(ctx, workflowID)
	if err != nil {
		return err
	}

	workflow.ExecutionCount++
	workflow.LastExecuted = &executedAt

	return fp.workflowRepo.Save(ctx, workflow)
}

func (fp *Persistence) SaveExecution(ctx context.Context, execution *models.Execution) error {
	return fp.executionRepo.Save(ctx, execution)
}

func (fp *Persistence) Executions(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	return fp.executionRepo.List(ctx, workflowID)
}
