// Package createtask implements the create_task action.
package createtask

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
	return string(models.ActionCreateTask)
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	title, _ := params["title"].(string)
	if title == "" {
		return nil, errors.New("create_task action requires a 'title' param")
	}

	description, _ := params["description"].(string)
	assignedTo, _ := params["assignedTo"].(string)
	dueDate, _ := params["dueDate"].(string)

	return &Action{
		title:       title,
		description: description,
		assignedTo:  assignedTo,
		dueDate:     dueDate,
		publisher:   f.publisher,
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"assignedTo":  map[string]any{"type": "string"},
			"dueDate":     map[string]any{"type": "string"},
		},
		"required": []any{"title"},
	}
}

type Action struct {
	title       string
	description string
	assignedTo  string
	dueDate     string
	publisher   eventbus.EventPublisher
}

func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	taskID := uuid.NewString()

	logger.Info("Requesting task creation", "task_id", taskID, "title", a.title)

	event := events.TaskRequested{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.TaskRequestedEvent,
			Timestamp: time.Now().UTC(),
		},
		TaskID:      taskID,
		Title:       a.title,
		Description: a.description,
		AssignedTo:  a.assignedTo,
		DueDate:     a.dueDate,
	}

	if err := a.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		return nil, err
	}

	return map[string]any{
		"taskId": taskID,
		"title":  a.title,
	}, nil
}
