// Package generatedocument implements the generate_document action.
package generatedocument

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
	return string(models.ActionGenerateDocument)
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	template, _ := params["template"].(string)
	data, _ := params["data"].(map[string]any)

	return &Action{
		template:  template,
		data:      data,
		publisher: f.publisher,
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"template": map[string]any{"type": "string"},
			"data":     map[string]any{"type": "object"},
		},
	}
}

type Action struct {
	template  string
	data      map[string]any
	publisher eventbus.EventPublisher
}

func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	documentID := uuid.NewString()

	logger.Info("Requesting document generation", "document_id", documentID, "template", a.template)

	event := events.DocumentRequested{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.DocumentRequestedEvent,
			Timestamp: time.Now().UTC(),
		},
		DocumentID: documentID,
		Template:   a.template,
		Data:       a.data,
	}

	if err := a.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		return nil, err
	}

	return map[string]any{
		"documentId": documentID,
		"template":   a.template,
	}, nil
}
