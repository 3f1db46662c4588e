// Package queue consumes domain events pushed by the host application onto a
// Redis list and republishes them as domain triggers on the event bus.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/juriflow/juriflow/pkg/eventbus"
	"github.com/juriflow/juriflow/pkg/events"
	"github.com/juriflow/juriflow/pkg/models"
)

const DefaultQueue = "juriflow:triggers"

// message is the JSON shape the host application pushes, e.g.
// {"trigger_type":"dossier_created","context":{"dossier":{...}}}.
type message struct {
	TriggerType string         `json:"trigger_type"`
	Context     map[string]any `json:"context"`
}

type Receiver struct {
	queue     string
	client    redis.UniversalClient
	publisher eventbus.EventPublisher
	logger    *slog.Logger
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

func NewReceiver(redisURL, queue string, publisher eventbus.EventPublisher, logger *slog.Logger) (*Receiver, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &Receiver{
		queue:     queue,
		client:    redis.NewClient(options),
		publisher: publisher,
		logger:    logger.With("module", "queue_receiver", "queue", queue),
		stopCh:    make(chan struct{}),
	}, nil
}

func (r *Receiver) Start(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	r.logger.InfoContext(ctx, "Starting queue receiver")
	r.wg.Add(1)

	go r.consume(ctx)

	return nil
}

func (r *Receiver) consume(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopCh:
			r.logger.InfoContext(ctx, "Queue receiver stopped")

			return
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "Context cancelled, stopping queue receiver")

			return
		default:
			if err := r.processMessage(ctx); err != nil {
				r.logger.ErrorContext(ctx, "Error processing queue message", "error", err)
				time.Sleep(1 * time.Second)
			}
		}
	}
}

func (r *Receiver) processMessage(ctx context.Context) error {
	result, err := r.client.BLPop(ctx, 1*time.Second, r.queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
			return nil
		}

		return fmt.Errorf("failed to pop message from queue: %w", err)
	}

	if len(result) < 2 {
		return nil
	}

	var msg message
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		r.logger.WarnContext(ctx, "Discarding malformed queue message", "error", err)

		return nil
	}

	triggerType := models.TriggerType(msg.TriggerType)
	if !triggerType.IsValid() {
		r.logger.WarnContext(ctx, "Discarding message with unknown trigger type", "trigger_type", msg.TriggerType)

		return nil
	}

	if msg.Context == nil {
		msg.Context = make(map[string]any)
	}

	trigger := events.DomainTrigger{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.DomainTriggerEvent,
			Timestamp: time.Now().UTC(),
		},
		TriggerType: triggerType,
		Context:     msg.Context,
	}

	return r.publisher.Publish(ctx, string(triggerType), trigger)
}

func (r *Receiver) Stop(ctx context.Context) error {
	r.logger.InfoContext(ctx, "Stopping queue receiver")

	close(r.stopCh)
	r.wg.Wait()

	if err := r.client.Close(); err != nil {
		r.logger.ErrorContext(ctx, "Error closing redis client", "error", err)
	}

	return nil
}
