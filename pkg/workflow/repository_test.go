package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/persistence"
	"github.com/juriflow/juriflow/pkg/persistence/file"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	return NewRepository(file.NewPersistence(t.TempDir()))
}

func TestRepository_CreateAssignsIDAndTimestamps(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Create(context.Background(), &models.Workflow{
		Name:    "invoice follow-up",
		Enabled: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, int64(0), created.ExecutionCount)
}

func TestRepository_UpdatePreservesStatsAndCreatedAt(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Workflow{Name: "original", Enabled: true})
	require.NoError(t, err)

	require.NoError(t, repo.persistence.IncrementExecutionStats(ctx, created.ID, created.CreatedAt))

	updated, err := repo.Update(ctx, created.ID, &models.Workflow{
		Name:    "renamed",
		Enabled: false,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, int64(1), updated.ExecutionCount)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
}

func TestRepository_UpdateMissingWorkflow(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Update(context.Background(), "missing", &models.Workflow{Name: "x"})
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestRepository_ToggleFlipsEnabled(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Workflow{Name: "toggle me", Enabled: true})
	require.NoError(t, err)

	toggled, err := repo.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	toggledBack, err := repo.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggledBack.Enabled)
}

func TestRepository_ToggleMissingIsNoOp(t *testing.T) {
	repo := newTestRepository(t)

	toggled, err := repo.Toggle(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, toggled)
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Workflow{Name: "doomed", Enabled: true})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.FetchByID(ctx, created.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestRepository_FetchEnabledByTriggerType(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Workflow{
		Name:    "enabled match",
		Enabled: true,
		Trigger: models.Trigger{Type: models.TriggerDossierCreated},
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.Workflow{
		Name:    "disabled match",
		Enabled: false,
		Trigger: models.Trigger{Type: models.TriggerDossierCreated},
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.Workflow{
		Name:    "other trigger",
		Enabled: true,
		Trigger: models.Trigger{Type: models.TriggerFactureOverdue},
	})
	require.NoError(t, err)

	matched, err := repo.FetchEnabledByTriggerType(ctx, models.TriggerDossierCreated)
	require.NoError(t, err)

	require.Len(t, matched, 1)
	assert.Equal(t, "enabled match", matched[0].Name)
}

func TestRepository_EnsureSeeded(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSeeded(ctx))

	workflows, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, workflows, 5)

	disabledCount := 0

	for _, wf := range workflows {
		assert.NotEmpty(t, wf.ID)
		assert.Equal(t, int64(0), wf.ExecutionCount)

		if !wf.Enabled {
			disabledCount++
		}
	}

	// The document indexing automation ships disabled.
	assert.Equal(t, 1, disabledCount)
}

func TestRepository_EnsureSeededDoesNotReseed(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSeeded(ctx))

	workflows, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, workflows[0].ID))

	require.NoError(t, repo.EnsureSeeded(ctx))

	after, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 4)
}

func TestDefaultWorkflows_ScheduledWorkflowHasCron(t *testing.T) {
	for _, wf := range DefaultWorkflows() {
		if wf.Trigger.Type == models.TriggerScheduled {
			assert.NotEmpty(t, wf.Trigger.Schedule)
		} else {
			assert.Empty(t, wf.Trigger.Schedule)
		}
	}
}
