// Package updatestatus implements the update_status action.
package updatestatus

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/juriflow/juriflow/pkg/eventbus"
	"github.com/juriflow/juriflow/pkg/events"
	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/protocol"
)

type ActionFactory struct {
	publisher eventbus.EventPublisher
}

func NewActionFactory(publisher eventbus.EventPublisher) *ActionFactory {
	return &ActionFactory{publisher: publisher}
}

func (*ActionFactory) ID() string {
	return string(models.ActionUpdateStatus)
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	status, _ := params["status"].(string)
	entity, _ := params["entity"].(string)
	entityID, _ := params["entityId"].(string)

	return &Action{
		status:    status,
		entity:    entity,
		entityID:  entityID,
		publisher: f.publisher,
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status":   map[string]any{"type": "string"},
			"entity":   map[string]any{"type": "string"},
			"entityId": map[string]any{"type": "string"},
		},
	}
}

type Action struct {
	status    string
	entity    string
	entityID  string
	publisher eventbus.EventPublisher
}

func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	logger.Info("Requesting status update", "entity", a.entity, "new_status", a.status)

	event := events.StatusUpdateRequested{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.StatusUpdateRequestedEvent,
			Timestamp: time.Now().UTC(),
		},
		Entity:    a.entity,
		EntityID:  a.entityID,
		NewStatus: a.status,
	}

	if err := a.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		return nil, err
	}

	return map[string]any{
		"updated":   true,
		"newStatus": a.status,
	}, nil
}
