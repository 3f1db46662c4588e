package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/juriflow/juriflow/pkg/cmd"
	"github.com/juriflow/juriflow/pkg/events"
	"github.com/juriflow/juriflow/pkg/log"
	"github.com/juriflow/juriflow/pkg/otelhelper"
	"github.com/juriflow/juriflow/pkg/receivers/queue"
	"github.com/juriflow/juriflow/pkg/workflow"
)

func main() {
	command := &cli.Command{
		Name:                  "juriflow-worker",
		Usage:                 "Consume domain triggers and execute matching workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the host application trigger queue (empty disables the queue receiver)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OTLP trace export",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: runWorker,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

func runWorker(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("worker")
	logger.InfoContext(ctx, "Initializing Juriflow worker")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), "juriflow-worker", logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	registry := cmd.NewRegistry(logger, eventBus)
	repository := workflow.NewRepository(persistence)

	if err := repository.EnsureSeeded(ctx); err != nil {
		return fmt.Errorf("failed to seed default workflows: %w", err)
	}

	executor := workflow.NewExecutor(repository, registry, eventBus, logger)

	if command.Bool("tracing") {
		tracer, err := otelhelper.NewTracer(ctx, "juriflow-worker")
		if err != nil {
			return fmt.Errorf("failed to initialize tracer: %w", err)
		}

		executor.WithTracer(tracer)
	}

	dispatcher := workflow.NewDispatcher(repository, executor, logger)

	if err := eventBus.Handle(events.DomainTriggerEvent, dispatcher.HandleEvent); err != nil {
		return fmt.Errorf("failed to register trigger handler: %w", err)
	}

	if err := eventBus.Subscribe(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to event bus: %w", err)
	}

	if redisURL := command.String("redis-url"); redisURL != "" {
		receiver, err := queue.NewReceiver(redisURL, "", eventBus, logger)
		if err != nil {
			return err
		}

		if err := receiver.Start(ctx); err != nil {
			return err
		}

		defer func() {
			if err := receiver.Stop(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to stop queue receiver", "error", err)
			}
		}()
	}

	logger.InfoContext(ctx, "Juriflow worker started")

	<-ctx.Done()
	logger.Info("Shutting down Juriflow worker")

	return nil
}
