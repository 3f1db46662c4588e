package file

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/persistence"
)

func TestSaveAndFetchWorkflow(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	wf := &models.Workflow{
		ID:      "wf-1",
		Name:    "invoice follow-up",
		Enabled: true,
		Trigger: models.Trigger{
			Type: models.TriggerFactureOverdue,
			Conditions: []models.Condition{
				{Field: "facture.days_overdue", Operator: models.OperatorEquals, Value: 7},
			},
		},
		Actions: []models.Action{
			{Type: models.ActionSendEmail, Params: map[string]any{"to": "{{client.email}}"}},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	require.NoError(t, p.SaveWorkflow(ctx, wf))

	loaded, err := p.WorkflowByID(ctx, "wf-1")
	require.NoError(t, err)

	assert.Equal(t, wf.Name, loaded.Name)
	assert.Equal(t, models.TriggerFactureOverdue, loaded.Trigger.Type)
	require.Len(t, loaded.Actions, 1)
	assert.Equal(t, models.ActionSendEmail, loaded.Actions[0].Type)
}

func TestWorkflowByID_Missing(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.WorkflowByID(context.Background(), "nope")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflows_EmptyStore(t *testing.T) {
	p := NewPersistence(t.TempDir())

	workflows, err := p.Workflows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, workflows)
}

func TestDeleteWorkflow_MissingIsNoOp(t *testing.T) {
	p := NewPersistence(t.TempDir())

	assert.NoError(t, p.DeleteWorkflow(context.Background(), "nope"))
}

func TestIncrementExecutionStats(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	wf := &models.Workflow{ID: "wf-1", Name: "counted", CreatedAt: time.Now().UTC()}
	require.NoError(t, p.SaveWorkflow(ctx, wf))

	executedAt := time.Now().UTC()
	require.NoError(t, p.IncrementExecutionStats(ctx, "wf-1", executedAt))
	require.NoError(t, p.IncrementExecutionStats(ctx, "wf-1", executedAt))

	loaded, err := p.WorkflowByID(ctx, "wf-1")
	require.NoError(t, err)

	assert.Equal(t, int64(2), loaded.ExecutionCount)
	require.NotNil(t, loaded.LastExecuted)
}

func TestIncrementExecutionStats_Concurrent(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	require.NoError(t, p.SaveWorkflow(ctx, &models.Workflow{ID: "wf-1", Name: "hot", CreatedAt: time.Now().UTC()}))

	const runs = 20

	var wg sync.WaitGroup
	for range runs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = p.IncrementExecutionStats(ctx, "wf-1", time.Now().UTC())
		}()
	}

	wg.Wait()

	loaded, err := p.WorkflowByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, int64(runs), loaded.ExecutionCount)
}

func TestIncrementExecutionStats_MissingWorkflow(t *testing.T) {
	p := NewPersistence(t.TempDir())

	err := p.IncrementExecutionStats(context.Background(), "nope", time.Now().UTC())
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestExecutions_NewestFirstAndFiltered(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	base := time.Now().UTC()

	executions := []*models.Execution{
		{ID: "e1", WorkflowID: "wf-1", Status: models.ExecutionStatusCompleted, TriggeredAt: base.Add(-2 * time.Hour)},
		{ID: "e2", WorkflowID: "wf-2", Status: models.ExecutionStatusFailed, TriggeredAt: base.Add(-1 * time.Hour)},
		{ID: "e3", WorkflowID: "wf-1", Status: models.ExecutionStatusCompleted, TriggeredAt: base},
	}
	for _, execution := range executions {
		require.NoError(t, p.SaveExecution(ctx, execution))
	}

	all, err := p.Executions(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "e3", all[0].ID)
	assert.Equal(t, "e2", all[1].ID)
	assert.Equal(t, "e1", all[2].ID)

	filtered, err := p.Executions(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "e3", filtered[0].ID)
	assert.Equal(t, "e1", filtered[1].ID)
}
