package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/persistence"
)

// WorkflowRepository handles workflow-related database operations.
type WorkflowRepository struct {
	db *sql.DB
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

const workflowColumns = `id, name, description, enabled, trigger, actions,
	created_at, updated_at, last_executed, execution_count`

// GetAll returns all workflows, newest-first.
func (wr *WorkflowRepository) GetAll(ctx context.Context) ([]*models.Workflow, error) {
	query := "SELECT " + workflowColumns + " FROM workflows ORDER BY created_at DESC"

	rows, err := wr.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, rows.Err()
}

// GetByID retrieves a workflow by its ID.
func (wr *WorkflowRepository) GetByID(ctx context.Context, workflowID string) (*models.Workflow, error) {
	query := "SELECT " + workflowColumns + " FROM workflows WHERE id = $1"

	workflow, err := scanWorkflow(wr.db.QueryRowContext(ctx, query, workflowID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewWorkflowError("GetByID", workflowID, persistence.ErrWorkflowNotFound)
	}

	if err != nil {
		return nil, err
	}

	return workflow, nil
}

// EnabledByTriggerType returns enabled workflows whose trigger matches the
// given type.
func (wr *WorkflowRepository) EnabledByTriggerType(ctx context.Context, triggerType models.TriggerType) ([]*models.Workflow, error) {
	query := "SELECT " + workflowColumns + ` FROM workflows
		WHERE enabled AND trigger->>'type' = $1 ORDER BY created_at DESC`

	rows, err := wr.db.QueryContext(ctx, query, string(triggerType))
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows by trigger type: %w", err)
	}
	defer func() { _ = rows.Close() }()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, rows.Err()
}

// Save inserts or updates a workflow.
func (wr *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	triggerJSON, err := json.Marshal(workflow.Trigger)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger: %w", err)
	}

	actionsJSON, err := json.Marshal(workflow.Actions)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}

	query := `
		INSERT INTO workflows (id, name, description, enabled, trigger, actions,
			created_at, updated_at, last_executed, execution_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			enabled = EXCLUDED.enabled,
			trigger = EXCLUDED.trigger,
			actions = EXCLUDED.actions,
			updated_at = EXCLUDED.updated_at,
			last_executed = EXCLUDED.last_executed,
			execution_count = EXCLUDED.execution_count
	`

	_, err = wr.db.ExecContext(ctx, query,
		workflow.ID,
		workflow.Name,
		workflow.Description,
		workflow.Enabled,
		triggerJSON,
		actionsJSON,
		workflow.CreatedAt,
		workflow.UpdatedAt,
		workflow.LastExecuted,
		workflow.ExecutionCount,
	)
	if err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", workflow.ID, err)
	}

	return nil
}

// IncrementExecutionStats bumps execution_count and last_executed in a single
// statement so concurrent executions never lose updates.
func (wr *WorkflowRepository) IncrementExecutionStats(ctx context.Context, workflowID string, executedAt time.Time) error {
	query := `
		UPDATE workflows
		SET execution_count = execution_count + 1, last_executed = $2
		WHERE id = $1
	`

	result, err := wr.db.ExecContext(ctx, query, workflowID, executedAt)
	if err != nil {
		return fmt.Errorf("failed to update execution stats for workflow %s: %w", workflowID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check execution stats update for workflow %s: %w", workflowID, err)
	}

	if affected == 0 {
		return persistence.NewWorkflowError("IncrementExecutionStats", workflowID, persistence.ErrWorkflowNotFound)
	}

	return nil
}

// Delete removes a workflow. Deleting a missing workflow is a no-op.
func (wr *WorkflowRepository) Delete(ctx context.Context, id string) error {
	_, err := wr.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow     models.Workflow
		triggerJSON  []byte
		actionsJSON  []byte
		lastExecuted sql.NullTime
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.Name,
		&workflow.Description,
		&workflow.Enabled,
		&triggerJSON,
		&actionsJSON,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
		&lastExecuted,
		&workflow.ExecutionCount,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(triggerJSON, &workflow.Trigger); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trigger for workflow %s: %w", workflow.ID, err)
	}

	if err := json.Unmarshal(actionsJSON, &workflow.Actions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal actions for workflow %s: %w", workflow.ID, err)
	}

	if lastExecuted.Valid {
		t := lastExecuted.Time
		workflow.LastExecuted = &t
	}

	return &workflow, nil
}
