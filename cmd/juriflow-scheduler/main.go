package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/juriflow/juriflow/pkg/cmd"
	"github.com/juriflow/juriflow/pkg/log"
	"github.com/juriflow/juriflow/pkg/receivers/schedule"
	"github.com/juriflow/juriflow/pkg/workflow"
)

func main() {
	command := &cli.Command{
		Name:                  "juriflow-scheduler",
		Usage:                 "Fire scheduled workflows on their cron expressions",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus type (kafka, gochannel)",
				Value:    "kafka",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("scheduler")
			logger.InfoContext(ctx, "Initializing Juriflow scheduler")

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "juriflow-scheduler", logger)
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

			repository := workflow.NewRepository(persistence)
			receiver := schedule.NewReceiver(repository, eventBus, logger)

			if err := receiver.Start(ctx); err != nil {
				return err
			}

			logger.InfoContext(ctx, "Juriflow scheduler started")

			<-ctx.Done()

			return receiver.Stop(context.Background())
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
