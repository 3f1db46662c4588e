// Package registry maps action types to their executor factories.
package registry

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/juriflow/juriflow/pkg/protocol"
)

// ErrUnknownActionType indicates an action type with no registered factory.
// It is fatal to the execution that dispatched it.
var ErrUnknownActionType = errors.New("unknown action type")

type Registry struct {
	logger          *slog.Logger
	actionFactories map[string]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:          logger,
		actionFactories: make(map[string]protocol.ActionFactory),
	}
}

func (r *Registry) RegisterAction(factory protocol.ActionFactory) {
	r.actionFactories[factory.ID()] = factory
}

// CreateAction builds an executor for actionType from resolved params.
func (r *Registry) CreateAction(actionType string, params map[string]any) (protocol.Action, error) {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionType, actionType)
	}

	return factory.Create(params)
}

// ActionSchema returns the JSON schema for an action type's params, used to
// validate workflow definitions on save.
func (r *Registry) ActionSchema(actionType string) (map[string]any, bool) {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return nil, false
	}

	return factory.Schema(), true
}

// AvailableActions returns all registered action types.
func (r *Registry) AvailableActions() []string {
	types := make([]string, 0, len(r.actionFactories))
	for actionType := range r.actionFactories {
		types = append(types, actionType)
	}

	return types
}

func (r *Registry) HealthCheck() (string, bool) {
	if len(r.actionFactories) == 0 {
		return "No action factories registered", false
	}

	return fmt.Sprintf("%d action factories registered", len(r.actionFactories)), true
}
