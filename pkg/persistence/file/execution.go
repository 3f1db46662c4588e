package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/juriflow/juriflow/pkg/models"
)

// ExecutionRepository stores execution history as one JSON file per
// execution. History is append-only; Save is never called twice for the same
// execution ID.
type ExecutionRepository struct {
	root string
}

func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{root: root}
}

func (er *ExecutionRepository) Save(_ context.Context, execution *models.Execution) error {
	err := os.MkdirAll(path.Join(er.root, "executions"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create executions directory: %w", err)
	}

	data, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	filePath := path.Join(er.root, "executions", execution.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// List returns executions newest-first by triggered_at, optionally filtered
// to one workflow.
func (er *ExecutionRepository) List(_ context.Context, workflowID string) ([]*models.Execution, error) {
	dir := path.Join(er.root, "executions")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return make([]*models.Execution, 0), nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list execution files: %w", err)
	}

	executions := make([]*models.Execution, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		body, err := os.ReadFile(filepath.Clean(path.Join(dir, file)))
		if err != nil {
			return nil, fmt.Errorf("failed to read execution file %s: %w", file, err)
		}

		var execution models.Execution

		err = json.Unmarshal(body, &execution)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution file %s: %w", file, err)
		}

		if workflowID != "" && execution.WorkflowID != workflowID {
			continue
		}

		executions = append(executions, &execution)
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].TriggeredAt.After(executions[j].TriggeredAt)
	})

	return executions, nil
}
