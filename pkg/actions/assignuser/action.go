// Package assignuser implements the assign_to_user action. The candidate
// list comes from the resolved params; the strategy decides which candidate
// gets the assignment.
package assignuser

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/juriflow/juriflow/pkg/eventbus"
	"github.com/juriflow/juriflow/pkg/events"
	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/protocol"
)

const (
	StrategyLeastBusy   = "least_busy"
	StrategyRoundRobin  = "round_robin"
	StrategyBySpecialty = "by_specialty"
)

type ActionFactory struct {
	publisher eventbus.EventPublisher
	cursor    atomic.Uint64 // round_robin position, shared across executions
}

func NewActionFactory(publisher eventbus.EventPublisher) *ActionFactory {
	return &ActionFactory{publisher: publisher}
}

func (*ActionFactory) ID() string {
	return string(models.ActionAssignToUser)
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	strategy, _ := params["strategy"].(string)
	userID, _ := params["userId"].(string)
	specialty, _ := params["specialty"].(string)
	entity, _ := params["entity"].(string)
	entityID, _ := params["entityId"].(string)

	candidates, _ := params["users"].([]any)

	return &Action{
		strategy:   strategy,
		userID:     userID,
		specialty:  specialty,
		entity:     entity,
		entityID:   entityID,
		candidates: candidates,
		factory:    f,
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"strategy": map[string]any{
				"type": "string",
				"enum": []any{StrategyLeastBusy, StrategyRoundRobin, StrategyBySpecialty},
			},
			"userId":    map[string]any{"type": "string"},
			"specialty": map[string]any{"type": "string"},
			"users": map[string]any{
				"type":        "array",
				"description": "Candidate users: ids or objects with id, specialty, open_dossiers.",
			},
			"entity":   map[string]any{"type": "string"},
			"entityId": map[string]any{"type": "string"},
		},
	}
}

type Action struct {
	strategy   string
	userID     string
	specialty  string
	entity     string
	entityID   string
	candidates []any
	factory    *ActionFactory
}

func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	selected, err := a.selectUser()
	if err != nil {
		return nil, err
	}

	logger.Info("Requesting assignment", "user_id", selected, "strategy", a.strategy)

	event := events.AssignmentRequested{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.AssignmentRequestedEvent,
			Timestamp: time.Now().UTC(),
		},
		UserID:   selected,
		Strategy: a.strategy,
		Entity:   a.entity,
		EntityID: a.entityID,
	}

	if err := a.factory.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		return nil, err
	}

	return map[string]any{
		"assigned": true,
		"userId":   selected,
	}, nil
}

func (a *Action) selectUser() (string, error) {
	if len(a.candidates) == 0 {
		if a.userID == "" {
			return "", fmt.Errorf("assign_to_user has no candidates and no explicit userId")
		}

		return a.userID, nil
	}

	switch a.strategy {
	case StrategyLeastBusy:
		return a.leastBusy(), nil
	case StrategyRoundRobin:
		index := a.factory.cursor.Add(1) - 1

		return candidateID(a.candidates[index%uint64(len(a.candidates))]), nil
	case StrategyBySpecialty:
		return a.bySpecialty(), nil
	default:
		return candidateID(a.candidates[0]), nil
	}
}

func (a *Action) leastBusy() string {
	best := a.candidates[0]
	bestLoad := candidateLoad(best)

	for _, candidate := range a.candidates[1:] {
		if load := candidateLoad(candidate); load < bestLoad {
			best = candidate
			bestLoad = load
		}
	}

	return candidateID(best)
}

func (a *Action) bySpecialty() string {
	for _, candidate := range a.candidates {
		user, ok := candidate.(map[string]any)
		if !ok {
			continue
		}

		if specialty, _ := user["specialty"].(string); specialty == a.specialty {
			return candidateID(candidate)
		}
	}

	// No specialist available, fall back to the first candidate.
	return candidateID(a.candidates[0])
}

func candidateID(candidate any) string {
	switch v := candidate.(type) {
	case string:
		return v
	case map[string]any:
		id, _ := v["id"].(string)

		return id
	default:
		return fmt.Sprintf("%v", v)
	}
}

func candidateLoad(candidate any) float64 {
	user, ok := candidate.(map[string]any)
	if !ok {
		return 0
	}

	switch load := user["open_dossiers"].(type) {
	case float64:
		return load
	case int:
		return float64(load)
	default:
		return 0
	}
}
