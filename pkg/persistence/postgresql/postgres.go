// Package postgresql provides PostgreSQL-backed persistence for workflows
// and execution history.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/persistence/sqlbase"
)

// Persistence implements persistence.Persistence backed by PostgreSQL.
type Persistence struct {
	db            *sql.DB
	logger        *slog.Logger
	workflowRepo  *WorkflowRepository
	executionRepo *ExecutionRepository
}

// NewPersistence connects to the database, runs pending migrations and
// returns a ready persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	dsn := strings.Replace(databaseURL, "postgres://", "postgresql://", 1)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Persistence{
		db:            db,
		logger:        logger.With("module", "persistence.postgresql"),
		workflowRepo:  NewWorkflowRepository(db),
		executionRepo: NewExecutionRepository(db),
	}

	manager := sqlbase.NewMigrationManager(p.logger, db, migrations())
	if err := manager.RunMigrations(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Persistence) Close(_ context.Context) error {
	return p.db.Close()
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	return p.workflowRepo.GetAll(ctx)
}

func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	return p.workflowRepo.GetByID(ctx, id)
}

func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	return p.workflowRepo.Save(ctx, workflow)
}

func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return p.workflowRepo.Delete(ctx, id)
}

func (p *Persistence) IncrementExecutionStats(ctx context.Context, workflowID string, executedAt time.Time) error {
	return p.workflowRepo.IncrementExecutionStats(ctx, workflowID, executedAt)
}

func (p *Persistence) SaveExecution(ctx context.Context, execution *models.Execution) error {
	return p.executionRepo.Save(ctx, execution)
}

func (p *Persistence) Executions(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	return p.executionRepo.List(ctx, workflowID)
}
