// Package runscript implements the run_script action. Scripts are executed
// by the sandboxed runner collaborator, never in-process.
package runscript

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
	return string(models.ActionRunScript)
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	script, _ := params["script"].(string)
	if script == "" {
		return nil, errors.New("run_script action requires a 'script' param")
	}

	args, _ := params["args"].(map[string]any)

	return &Action{
		script:    script,
		args:      args,
		publisher: f.publisher,
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"script": map[string]any{"type": "string"},
			"args":   map[string]any{"type": "object"},
		},
		"required": []any{"script"},
	}
}

type Action struct {
	script    string
	args      map[string]any
	publisher eventbus.EventPublisher
}

func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	logger.Info("Requesting script run", "script", a.script)

	event := events.ScriptRunRequested{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.ScriptRunRequestedEvent,
			Timestamp: time.Now().UTC(),
		},
		Script: a.script,
		Args:   a.args,
	}

	if err := a.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		return nil, err
	}

	return map[string]any{
		"executed": true,
		"script":   a.script,
	}, nil
}
