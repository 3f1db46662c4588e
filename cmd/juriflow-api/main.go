package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/juriflow/juriflow/pkg/cmd"
	"github.com/juriflow/juriflow/pkg/log"
	"github.com/juriflow/juriflow/pkg/web"
	"github.com/juriflow/juriflow/pkg/workflow"

	"github.com/go-playground/validator/v10"
)

const defaultPort = 9091

func main() {
	command := &cli.Command{
		Name:                  "juriflow-api",
		Usage:                 "Create and manage legal practice workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
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
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing Juriflow API")

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "juriflow-api", logger)
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
			handlers := web.NewAPIHandlers(repository, executor, validator.New(), registry)
			app := web.NewApp(handlers)

			return app.Listen(fmt.Sprintf(":%d", command.Int("port")))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
