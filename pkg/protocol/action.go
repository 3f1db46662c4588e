// Package protocol defines the contracts between the engine and action
// executors.
package protocol

import (
	"context"
	"log/slog"

	"github.com/juriflow/juriflow/pkg/models"
)

// Action is one executable workflow step, built by its factory from the
// action's already-resolved params. Execute returns the structured result
// recorded in the execution history; downstream consumers depend on the
// result keys, so executors must keep them stable.
type Action interface {
	Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error)
}

// ActionFactory builds actions of one type from resolved params. Create
// validates required params and fails fast on missing ones.
type ActionFactory interface {
	ID() string
	Create(params map[string]any) (Action, error)
	Schema() map[string]any
}
