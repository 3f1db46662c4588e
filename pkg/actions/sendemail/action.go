// Package sendemail implements the send_email action. The actual delivery is
// the mailer collaborator's responsibility; the executor publishes a
// mail.requested event and reports the request structurally.
package sendemail

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
	return string(models.ActionSendEmail)
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	to, _ := params["to"].(string)
	if to == "" {
		return nil, errors.New("send_email action requires a 'to' param")
	}

	subject, _ := params["subject"].(string)
	body, _ := params["body"].(string)

	return &Action{
		to:        to,
		subject:   subject,
		body:      body,
		publisher: f.publisher,
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient address. Supports {{dot.path}} placeholders.",
			},
			"subject": map[string]any{"type": "string"},
			"body":    map[string]any{"type": "string"},
		},
		"required": []any{"to"},
	}
}

type Action struct {
	to        string
	subject   string
	body      string
	publisher eventbus.EventPublisher
}

func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	logger.Info("Requesting email delivery", "to", a.to, "subject", a.subject)

	event := events.MailRequested{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.MailRequestedEvent,
			Timestamp: time.Now().UTC(),
		},
		To:      a.to,
		Subject: a.subject,
		Body:    a.body,
	}

	if err := a.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		return nil, err
	}

	return map[string]any{
		"sent":    true,
		"to":      a.to,
		"subject": a.subject,
	}, nil
}
