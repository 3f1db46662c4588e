package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juriflow/juriflow/pkg/events"
	"github.com/juriflow/juriflow/pkg/mocks"
	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/persistence/file"
	"github.com/juriflow/juriflow/pkg/protocol"
	"github.com/juriflow/juriflow/pkg/registry"
)

// spyFactory builds actions that record each invocation and run an optional
// behavior.
type spyFactory struct {
	id     string
	behave func(params map[string]any) (map[string]any, error)
	mu     sync.Mutex
	calls  []map[string]any
}

func (f *spyFactory) ID() string { return f.id }

func (f *spyFactory) Schema() map[string]any {
	return map[string]any{"type": "object"}
}

func (f *spyFactory) Create(params map[string]any) (protocol.Action, error) {
	return &spyAction{factory: f, params: params}, nil
}

func (f *spyFactory) record(params map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, params)
}

func (f *spyFactory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

type spyAction struct {
	factory *spyFactory
	params  map[string]any
}

func (a *spyAction) Execute(_ context.Context, _ models.Execution, _ *slog.Logger) (map[string]any, error) {
	a.factory.record(a.params)

	if a.factory.behave != nil {
		return a.factory.behave(a.params)
	}

	return map[string]any{"ok": true}, nil
}

type executorFixture struct {
	repository *Repository
	executor   *Executor
	publisher  *mocks.PublisherSpy
	factories  map[string]*spyFactory
}

func newExecutorFixture(t *testing.T, actionIDs ...string) *executorFixture {
	t.Helper()

	persistence := file.NewPersistence(t.TempDir())
	repository := NewRepository(persistence)
	publisher := &mocks.PublisherSpy{}

	reg := registry.NewRegistry(slog.Default())
	factories := make(map[string]*spyFactory, len(actionIDs))

	for _, id := range actionIDs {
		factory := &spyFactory{id: id}
		factories[id] = factory

		reg.RegisterAction(factory)
	}

	executor := NewExecutor(repository, reg, publisher, slog.Default()).
		WithDelayUnit(time.Millisecond)

	return &executorFixture{
		repository: repository,
		executor:   executor,
		publisher:  publisher,
		factories:  factories,
	}
}

func (f *executorFixture) createWorkflow(t *testing.T, actions ...models.Action) *models.Workflow {
	t.Helper()

	wf, err := f.repository.Create(context.Background(), &models.Workflow{
		Name:    "test workflow",
		Enabled: true,
		Trigger: models.Trigger{Type: models.TriggerDossierCreated},
		Actions: actions,
	})
	require.NoError(t, err)

	return wf
}

func TestExecutor_RunsActionsInOrder(t *testing.T) {
	fixture := newExecutorFixture(t, "a1", "a2", "a3")

	var order []string

	for id, factory := range fixture.factories {
		actionID := id
		factory.behave = func(map[string]any) (map[string]any, error) {
			order = append(order, actionID)

			return map[string]any{"ran": actionID}, nil
		}
	}

	wf := fixture.createWorkflow(t,
		models.Action{Type: "a1"},
		models.Action{Type: "a2"},
		models.Action{Type: "a3"},
	)

	execution, err := fixture.executor.Execute(context.Background(), wf.ID, map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.Equal(t, []string{"a1", "a2", "a3"}, order)

	require.Len(t, execution.Results, 3)
	for i, id := range []string{"a1", "a2", "a3"} {
		assert.Equal(t, models.ActionType(id), execution.Results[i].Action.Type)
		assert.Equal(t, models.ActionResultSuccess, execution.Results[i].Status)
		assert.Equal(t, id, execution.Results[i].Result["ran"])
	}

	require.NotNil(t, execution.CompletedAt)
}

func TestExecutor_StopsAtFirstFailure(t *testing.T) {
	fixture := newExecutorFixture(t, "a1", "a2", "a3")
	fixture.factories["a2"].behave = func(map[string]any) (map[string]any, error) {
		return nil, errors.New("smtp unavailable")
	}

	wf := fixture.createWorkflow(t,
		models.Action{Type: "a1"},
		models.Action{Type: "a2"},
		models.Action{Type: "a3"},
	)

	execution, err := fixture.executor.Execute(context.Background(), wf.ID, map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
	assert.Contains(t, execution.Error, "smtp unavailable")

	require.Len(t, execution.Results, 1)
	assert.Equal(t, models.ActionType("a1"), execution.Results[0].Action.Type)
	assert.Equal(t, models.ActionResultSuccess, execution.Results[0].Status)

	assert.Equal(t, 0, fixture.factories["a3"].callCount())
}

func TestExecutor_UnknownActionTypeFailsExecution(t *testing.T) {
	fixture := newExecutorFixture(t, "a1")

	wf := fixture.createWorkflow(t, models.Action{Type: "bogus_type"})

	execution, err := fixture.executor.Execute(context.Background(), wf.ID, map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
	assert.Contains(t, execution.Error, "bogus_type")
	assert.Empty(t, execution.Results)
}

func TestExecutor_WorkflowNotFound(t *testing.T) {
	fixture := newExecutorFixture(t)

	execution, err := fixture.executor.Execute(context.Background(), "missing-id", map[string]any{})
	require.Error(t, err)
	assert.Nil(t, execution)

	executions, err := fixture.repository.Executions(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestExecutor_ResolvesParamsAgainstContext(t *testing.T) {
	fixture := newExecutorFixture(t, "create_task")

	wf := fixture.createWorkflow(t, models.Action{
		Type:   "create_task",
		Params: map[string]any{"title": "Review {{dossier.numero}}"},
	})

	triggerContext := map[string]any{
		"dossier": map[string]any{"numero": "DOS-2024-001"},
	}

	execution, err := fixture.executor.Execute(context.Background(), wf.ID, triggerContext)
	require.NoError(t, err)
	require.Equal(t, models.ExecutionStatusCompleted, execution.Status)

	calls := fixture.factories["create_task"].calls
	require.Len(t, calls, 1)
	assert.Equal(t, "Review DOS-2024-001", calls[0]["title"])
}

func TestExecutor_UpdatesStatsOnEveryTerminalRun(t *testing.T) {
	fixture := newExecutorFixture(t, "ok", "boom")
	fixture.factories["boom"].behave = func(map[string]any) (map[string]any, error) {
		return nil, errors.New("boom")
	}

	okWorkflow := fixture.createWorkflow(t, models.Action{Type: "ok"})
	failWorkflow := fixture.createWorkflow(t, models.Action{Type: "boom"})

	ctx := context.Background()

	_, err := fixture.executor.Execute(ctx, okWorkflow.ID, map[string]any{})
	require.NoError(t, err)
	_, err = fixture.executor.Execute(ctx, okWorkflow.ID, map[string]any{})
	require.NoError(t, err)
	_, err = fixture.executor.Execute(ctx, failWorkflow.ID, map[string]any{})
	require.NoError(t, err)

	okStored, err := fixture.repository.FetchByID(ctx, okWorkflow.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), okStored.ExecutionCount)
	require.NotNil(t, okStored.LastExecuted)

	failStored, err := fixture.repository.FetchByID(ctx, failWorkflow.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), failStored.ExecutionCount)
}

func TestExecutor_PersistsExecutionHistory(t *testing.T) {
	fixture := newExecutorFixture(t, "ok")

	wf := fixture.createWorkflow(t, models.Action{Type: "ok"})

	ctx := context.Background()

	first, err := fixture.executor.Execute(ctx, wf.ID, map[string]any{"run": 1})
	require.NoError(t, err)

	second, err := fixture.executor.Execute(ctx, wf.ID, map[string]any{"run": 2})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	executions, err := fixture.repository.Executions(ctx, wf.ID)
	require.NoError(t, err)
	assert.Len(t, executions, 2)
}

func TestExecutor_DelayWaitsBeforeAction(t *testing.T) {
	fixture := newExecutorFixture(t, "slow")

	wf := fixture.createWorkflow(t, models.Action{Type: "slow", Delay: 30})

	start := time.Now()

	execution, err := fixture.executor.Execute(context.Background(), wf.ID, map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestExecutor_CancelledContextFailsExecution(t *testing.T) {
	fixture := newExecutorFixture(t, "slow")

	wf := fixture.createWorkflow(t, models.Action{Type: "slow", Delay: 10_000})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	execution, err := fixture.executor.Execute(ctx, wf.ID, map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
	assert.Equal(t, 0, fixture.factories["slow"].callCount())
}

func TestExecutor_PublishesLifecycleEvents(t *testing.T) {
	fixture := newExecutorFixture(t, "ok")

	wf := fixture.createWorkflow(t, models.Action{Type: "ok"})

	_, err := fixture.executor.Execute(context.Background(), wf.ID, map[string]any{})
	require.NoError(t, err)

	var types []events.EventType
	for _, event := range fixture.publisher.Events {
		types = append(types, event.GetType())
	}

	assert.Contains(t, types, events.ExecutionStartedEvent)
	assert.Contains(t, types, events.ExecutionCompletedEvent)
}
