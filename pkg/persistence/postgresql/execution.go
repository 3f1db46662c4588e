package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/juriflow/juriflow/pkg/models"
)

// ExecutionRepository handles execution history database operations. History
// is append-only; rows are inserted once and never updated.
type ExecutionRepository struct {
	db *sql.DB
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

// Save inserts a finished execution.
func (er *ExecutionRepository) Save(ctx context.Context, execution *models.Execution) error {
	contextJSON, err := json.Marshal(execution.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal execution context: %w", err)
	}

	resultsJSON, err := json.Marshal(execution.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal execution results: %w", err)
	}

	query := `
		INSERT INTO executions (id, workflow_id, status, context, results, error,
			triggered_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = er.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		execution.Status,
		contextJSON,
		resultsJSON,
		execution.Error,
		execution.TriggeredAt,
		execution.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save execution %s: %w", execution.ID, err)
	}

	return nil
}

// List returns executions newest-first, optionally filtered to one workflow.
func (er *ExecutionRepository) List(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	query := `
		SELECT id, workflow_id, status, context, results, error, triggered_at, completed_at
		FROM executions
	`

	args := make([]any, 0, 1)
	if workflowID != "" {
		query += " WHERE workflow_id = $1"

		args = append(args, workflowID)
	}

	query += " ORDER BY triggered_at DESC"

	rows, err := er.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		var (
			execution   models.Execution
			contextJSON []byte
			resultsJSON []byte
			completedAt sql.NullTime
		)

		err := rows.Scan(
			&execution.ID,
			&execution.WorkflowID,
			&execution.Status,
			&contextJSON,
			&resultsJSON,
			&execution.Error,
			&execution.TriggeredAt,
			&completedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		if err := json.Unmarshal(contextJSON, &execution.Context); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution context: %w", err)
		}

		if err := json.Unmarshal(resultsJSON, &execution.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution results: %w", err)
		}

		if completedAt.Valid {
			t := completedAt.Time
			execution.CompletedAt = &t
		}

		executions = append(executions, &execution)
	}

	return executions, rows.Err()
}
