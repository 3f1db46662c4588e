package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/juriflow/juriflow/pkg/conditions"
	"github.com/juriflow/juriflow/pkg/events"
)

// Dispatcher reacts to domain trigger events: it finds the enabled workflows
// bound to the trigger type, filters them by their conditions against the
// event context, and executes each match.
type Dispatcher struct {
	repository *Repository
	executor   *Executor
	logger     *slog.Logger
}

func NewDispatcher(repository *Repository, executor *Executor, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		repository: repository,
		executor:   executor,
		logger:     logger.With("module", "workflow_dispatcher"),
	}
}

// Dispatch runs every enabled workflow matching the trigger. Individual
// workflow failures do not stop the remaining matches; the joined errors are
// returned at the end.
func (d *Dispatcher) Dispatch(ctx context.Context, trigger events.DomainTrigger) error {
	logger := d.logger.With("trigger_type", string(trigger.TriggerType), "event_id", trigger.ID)

	if !trigger.TriggerType.IsValid() {
		logger.WarnContext(ctx, "Ignoring unknown trigger type")

		return nil
	}

	workflows, err := d.repository.FetchEnabledByTriggerType(ctx, trigger.TriggerType)
	if err != nil {
		return fmt.Errorf("failed to fetch workflows for trigger %s: %w", trigger.TriggerType, err)
	}

	logger.InfoContext(ctx, "Dispatching domain trigger", "candidates", len(workflows))

	var errs []error

	targetID := scheduledWorkflowID(trigger.Context)

	for _, workflow := range workflows {
		if targetID != "" && workflow.ID != targetID {
			continue
		}

		if !conditions.Matches(workflow.Trigger.Conditions, trigger.Context) {
			logger.DebugContext(ctx, "Workflow conditions not met", "workflow_id", workflow.ID)

			continue
		}

		execution, err := d.executor.Execute(ctx, workflow.ID, trigger.Context)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to execute workflow", "workflow_id", workflow.ID, "error", err)
			errs = append(errs, err)

			continue
		}

		logger.InfoContext(ctx, "Workflow executed",
			"workflow_id", workflow.ID,
			"execution_id", execution.ID,
			"status", string(execution.Status))
	}

	return errors.Join(errs...)
}

// scheduledWorkflowID extracts the target workflow from a schedule tick
// context. Schedule ticks address one workflow; other triggers fan out to
// every match.
func scheduledWorkflowID(triggerContext map[string]any) string {
	schedule, ok := triggerContext["schedule"].(map[string]any)
	if !ok {
		return ""
	}

	id, _ := schedule["workflow_id"].(string)

	return id
}

// HandleEvent adapts Dispatch to the event bus handler signature.
func (d *Dispatcher) HandleEvent(ctx context.Context, event any) error {
	switch trigger := event.(type) {
	case *events.DomainTrigger:
		return d.Dispatch(ctx, *trigger)
	case events.DomainTrigger:
		return d.Dispatch(ctx, trigger)
	default:
		return fmt.Errorf("unexpected event payload %T", event)
	}
}
