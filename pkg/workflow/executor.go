package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/juriflow/juriflow/pkg/eventbus"
	"github.com/juriflow/juriflow/pkg/events"
	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/otelhelper"
	"github.com/juriflow/juriflow/pkg/registry"
	"github.com/juriflow/juriflow/pkg/variables"
)

// Executor runs workflows: it resolves each action's params against the
// trigger context, dispatches to the registered executor, and records the
// outcome as an append-only Execution.
type Executor struct {
	repository *Repository
	registry   *registry.Registry
	publisher  eventbus.EventPublisher
	logger     *slog.Logger
	tracer     trace.Tracer
	delayUnit  time.Duration
}

func NewExecutor(repository *Repository, registry *registry.Registry, publisher eventbus.EventPublisher, logger *slog.Logger) *Executor {
	return &Executor{
		repository: repository,
		registry:   registry,
		publisher:  publisher,
		logger:     logger.With("module", "workflow_executor"),
		tracer:     noop.NewTracerProvider().Tracer("juriflow"),
		delayUnit:  time.Minute,
	}
}

// WithTracer replaces the no-op tracer.
func (e *Executor) WithTracer(tracer trace.Tracer) *Executor {
	e.tracer = tracer

	return e
}

// WithDelayUnit overrides the duration one delay unit represents. Production
// uses minutes; tests use shorter units.
func (e *Executor) WithDelayUnit(unit time.Duration) *Executor {
	e.delayUnit = unit

	return e
}

// Execute runs a workflow against a trigger context and returns the terminal
// Execution. Action failures are recorded on the Execution, not returned as
// errors; only a failed workflow lookup (or a persistence failure while
// recording the run) produces a non-nil error.
func (e *Executor) Execute(ctx context.Context, workflowID string, triggerContext map[string]any) (*models.Execution, error) {
	logger := e.logger.With("workflow_id", workflowID)

	workflow, err := e.repository.FetchByID(ctx, workflowID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch workflow", "error", err)

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	execution := &models.Execution{
		ID:          uuid.New().String(),
		WorkflowID:  workflowID,
		Status:      models.ExecutionStatusPending,
		Context:     triggerContext,
		Results:     make([]models.ActionResult, 0, len(workflow.Actions)),
		TriggeredAt: time.Now().UTC(),
	}

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
		attribute.String(otelhelper.WorkflowNameKey, workflow.Name),
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
	)
	defer span.End()

	logger = logger.With("execution_id", execution.ID)
	logger.InfoContext(ctx, "Starting workflow execution", "actions", len(workflow.Actions))

	execution.Status = models.ExecutionStatusRunning
	e.publishStarted(ctx, execution)

	e.runActions(ctx, workflow, execution, logger)

	completedAt := time.Now().UTC()
	execution.CompletedAt = &completedAt

	if err := e.recordTerminal(ctx, execution); err != nil {
		return nil, err
	}

	e.publishTerminal(ctx, execution)

	if execution.Status == models.ExecutionStatusFailed {
		otelhelper.SetError(span, fmt.Errorf("%s", execution.Error))
		logger.WarnContext(ctx, "Workflow execution failed", "error", execution.Error)
	} else {
		logger.InfoContext(ctx, "Workflow execution completed", "results", len(execution.Results))
	}

	return execution, nil
}

// runActions executes the chain in order, stopping at the first failure.
// Successful actions append a result entry; a failing action sets the
// execution's terminal error instead.
func (e *Executor) runActions(ctx context.Context, workflow *models.Workflow, execution *models.Execution, logger *slog.Logger) {
	for index, action := range workflow.Actions {
		actionLogger := logger.With("action_type", string(action.Type), "action_index", index)

		if action.Delay > 0 {
			if err := e.waitDelay(ctx, action.Delay); err != nil {
				e.fail(execution, fmt.Errorf("interrupted before action %q: %w", action.Type, err))

				return
			}
		}

		if err := ctx.Err(); err != nil {
			e.fail(execution, fmt.Errorf("interrupted before action %q: %w", action.Type, err))

			return
		}

		result, err := e.executeAction(ctx, action, execution, actionLogger)
		if err != nil {
			e.fail(execution, err)

			return
		}

		execution.Results = append(execution.Results, models.ActionResult{
			Action: action,
			Status: models.ActionResultSuccess,
			Result: result,
		})
	}

	execution.Status = models.ExecutionStatusCompleted
}

func (e *Executor) executeAction(ctx context.Context, action models.Action, execution *models.Execution, logger *slog.Logger) (map[string]any, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.action",
		attribute.String(otelhelper.ActionTypeKey, string(action.Type)),
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
	)
	defer span.End()

	params := variables.ResolveParams(action.Params, execution.Context)

	executor, err := e.registry.CreateAction(string(action.Type), params)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Failed to create action executor", "error", err)

		return nil, err
	}

	result, err := executor.Execute(ctx, *execution, logger)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Action failed", "error", err)

		return nil, fmt.Errorf("action %q failed: %w", action.Type, err)
	}

	logger.InfoContext(ctx, "Action completed")

	return result, nil
}

// waitDelay blocks for delay units, honoring context cancellation.
func (e *Executor) waitDelay(ctx context.Context, delay int) error {
	timer := time.NewTimer(time.Duration(delay) * e.delayUnit)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) fail(execution *models.Execution, err error) {
	execution.Status = models.ExecutionStatusFailed
	execution.Error = err.Error()
}

// recordTerminal bumps the workflow's execution stats and appends the
// execution to history. A failed run is still a run, so both happen
// regardless of outcome.
func (e *Executor) recordTerminal(ctx context.Context, execution *models.Execution) error {
	err := e.repository.persistence.IncrementExecutionStats(ctx, execution.WorkflowID, *execution.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to update workflow stats: %w", err)
	}

	err = e.repository.persistence.SaveExecution(ctx, execution)
	if err != nil {
		return fmt.Errorf("failed to save execution: %w", err)
	}

	return nil
}

func (e *Executor) publishStarted(ctx context.Context, execution *models.Execution) {
	if e.publisher == nil {
		return
	}

	event := events.ExecutionStarted{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.ExecutionStartedEvent,
			Timestamp: time.Now().UTC(),
		},
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
	}

	if err := e.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish execution started event", "error", err)
	}
}

func (e *Executor) publishTerminal(ctx context.Context, execution *models.Execution) {
	if e.publisher == nil {
		return
	}

	duration := execution.CompletedAt.Sub(execution.TriggeredAt)

	var event eventbus.Event
	if execution.Status == models.ExecutionStatusFailed {
		event = events.ExecutionFailed{
			BaseEvent: events.BaseEvent{
				ID:        uuid.NewString(),
				Type:      events.ExecutionFailedEvent,
				Timestamp: time.Now().UTC(),
			},
			ExecutionID: execution.ID,
			WorkflowID:  execution.WorkflowID,
			Error:       execution.Error,
			Duration:    duration,
		}
	} else {
		event = events.ExecutionCompleted{
			BaseEvent: events.BaseEvent{
				ID:        uuid.NewString(),
				Type:      events.ExecutionCompletedEvent,
				Timestamp: time.Now().UTC(),
			},
			ExecutionID: execution.ID,
			WorkflowID:  execution.WorkflowID,
			Duration:    duration,
		}
	}

	if err := e.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish execution terminal event", "error", err)
	}
}
