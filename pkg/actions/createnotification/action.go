// Package createnotification implements the create_notification action.
package createnotification

import (
	"context"
	"errors"
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
	return string(models.ActionCreateNotification)
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	title, _ := params["title"].(string)
	if title == "" {
		return nil, errors.New("create_notification action requires a 'title' param")
	}

	message, _ := params["message"].(string)
	userID, _ := params["userId"].(string)

	return &Action{
		title:     title,
		message:   message,
		userID:    userID,
		publisher: f.publisher,
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":   map[string]any{"type": "string"},
			"message": map[string]any{"type": "string"},
			"userId":  map[string]any{"type": "string"},
		},
		"required": []any{"title"},
	}
}

type Action struct {
	title     string
	message   string
	userID    string
	publisher eventbus.EventPublisher
}

func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	notificationID := uuid.NewString()

	logger.Info("Requesting notification", "notification_id", notificationID, "title", a.title)

	event := events.NotificationRequested{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.NotificationRequestedEvent,
			Timestamp: time.Now().UTC(),
		},
		NotificationID: notificationID,
		Title:          a.title,
		Message:        a.message,
		UserID:         a.userID,
	}

	if err := a.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		return nil, err
	}

	return map[string]any{
		"notificationId": notificationID,
		"title":          a.title,
	}, nil
}
