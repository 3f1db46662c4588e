// Package workflow contains the engine core: the workflow repository, the
// execution engine and the domain-event dispatcher.
package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/persistence"
)

type Repository struct {
	persistence persistence.Persistence
}

func NewRepository(persistence persistence.Persistence) *Repository {
	return &Repository{
		persistence: persistence,
	}
}

func (r *Repository) HealthCheck(ctx context.Context) (string, bool) {
	if r.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := r.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (r *Repository) FetchAll(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := r.persistence.Workflows(ctx)
	if err != nil {
		return make([]*models.Workflow, 0), err
	}

	return workflows, nil
}

func (r *Repository) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	return r.persistence.WorkflowByID(ctx, id)
}

// FetchEnabledByTriggerType returns enabled workflows whose trigger type
// matches. Disabled workflows never fire.
func (r *Repository) FetchEnabledByTriggerType(ctx context.Context, triggerType models.TriggerType) ([]*models.Workflow, error) {
	workflows, err := r.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.Workflow, 0)

	for _, workflow := range workflows {
		if workflow.Enabled && workflow.Trigger.Type == triggerType {
			matched = append(matched, workflow)
		}
	}

	return matched, nil
}

// Create persists a new workflow, assigning an ID and timestamps.
func (r *Repository) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	err := r.persistence.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, err
	}

	return workflow, nil
}

// Update overwrites an existing workflow's definition, preserving its
// creation time and execution stats.
func (r *Repository) Update(ctx context.Context, id string, workflow *models.Workflow) (*models.Workflow, error) {
	existing, err := r.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.ID = id
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()
	workflow.LastExecuted = existing.LastExecuted
	workflow.ExecutionCount = existing.ExecutionCount

	err = r.persistence.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, err
	}

	return workflow, nil
}

// Toggle flips a workflow's enabled flag. Toggling a missing workflow is a
// no-op and returns a nil workflow.
func (r *Repository) Toggle(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := r.persistence.WorkflowByID(ctx, id)
	if persistence.IsWorkflowNotFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	workflow.Enabled = !workflow.Enabled
	workflow.UpdatedAt = time.Now().UTC()

	err = r.persistence.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, err
	}

	return workflow, nil
}

// Delete removes a workflow. Deleting a missing workflow is a no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.persistence.DeleteWorkflow(ctx, id)
}

// Executions returns the execution history, newest-first, optionally
// filtered to one workflow.
func (r *Repository) Executions(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	return r.persistence.Executions(ctx, workflowID)
}

// EnsureSeeded installs the default workflows when the store is empty. It is
// called once at service startup so a fresh installation has working
// automations out of the box.
func (r *Repository) EnsureSeeded(ctx context.Context) error {
	workflows, err := r.FetchAll(ctx)
	if err != nil {
		return err
	}

	if len(workflows) > 0 {
		return nil
	}

	for _, workflow := range DefaultWorkflows() {
		if _, err := r.Create(ctx, workflow); err != nil {
			return err
		}
	}

	return nil
}
