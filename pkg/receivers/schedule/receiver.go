// Package schedule fires scheduled workflows: one cron job per enabled
// workflow with a "scheduled" trigger, each publishing a domain trigger on
// the event bus when it ticks.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/juriflow/juriflow/pkg/eventbus"
	"github.com/juriflow/juriflow/pkg/events"
	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/workflow"
)

type Receiver struct {
	repository *workflow.Repository
	publisher  eventbus.EventPublisher
	logger     *slog.Logger
	cron       *cron.Cron
	jobs       map[string]cron.EntryID
	mutex      sync.Mutex
}

func NewReceiver(repository *workflow.Repository, publisher eventbus.EventPublisher, logger *slog.Logger) *Receiver {
	return &Receiver{
		repository: repository,
		publisher:  publisher,
		logger:     logger.With("module", "schedule_receiver"),
		jobs:       make(map[string]cron.EntryID),
	}
}

func (r *Receiver) Start(ctx context.Context) error {
	r.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	workflows, err := r.repository.FetchEnabledByTriggerType(ctx, models.TriggerScheduled)
	if err != nil {
		return fmt.Errorf("failed to fetch scheduled workflows: %w", err)
	}

	r.logger.InfoContext(ctx, "Starting schedule receiver", "workflows", len(workflows))

	for _, wf := range workflows {
		if err := r.addJob(ctx, wf); err != nil {
			return err
		}
	}

	r.cron.Start()

	return nil
}

func (r *Receiver) addJob(ctx context.Context, wf *models.Workflow) error {
	logger := r.logger.With("workflow_id", wf.ID, "cron", wf.Trigger.Schedule)

	if wf.Trigger.Schedule == "" {
		logger.WarnContext(ctx, "Scheduled workflow has no cron expression, skipping")

		return nil
	}

	if _, err := cron.ParseStandard(wf.Trigger.Schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q for workflow %s: %w", wf.Trigger.Schedule, wf.ID, err)
	}

	workflowID := wf.ID
	schedule := wf.Trigger.Schedule

	entryID, err := r.cron.AddFunc(schedule, func() {
		r.publishTick(workflowID, schedule)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule workflow %s: %w", workflowID, err)
	}

	r.mutex.Lock()
	r.jobs[workflowID] = entryID
	r.mutex.Unlock()

	logger.InfoContext(ctx, "Scheduled workflow registered")

	return nil
}

func (r *Receiver) publishTick(workflowID, schedule string) {
	now := time.Now().UTC()

	trigger := events.DomainTrigger{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.DomainTriggerEvent,
			Timestamp: now,
		},
		TriggerType: models.TriggerScheduled,
		Context: map[string]any{
			"schedule": map[string]any{
				"workflow_id": workflowID,
				"cron":        schedule,
				"timestamp":   now.Format(time.RFC3339),
			},
		},
	}

	if err := r.publisher.Publish(context.Background(), workflowID, trigger); err != nil {
		r.logger.Error("Failed to publish schedule tick", "workflow_id", workflowID, "error", err)
	}
}

func (r *Receiver) Stop(ctx context.Context) error {
	r.logger.InfoContext(ctx, "Stopping schedule receiver")

	if r.cron != nil {
		<-r.cron.Stop().Done()
	}

	r.mutex.Lock()
	r.jobs = make(map[string]cron.EntryID)
	r.mutex.Unlock()

	return nil
}
