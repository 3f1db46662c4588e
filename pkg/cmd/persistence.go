package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/juriflow/juriflow/pkg/persistence"
	"github.com/juriflow/juriflow/pkg/persistence/file"
	"github.com/juriflow/juriflow/pkg/persistence/postgresql"
)

// NewPersistence selects the persistence backend from the database URL
// scheme: postgres for postgres:// and postgresql://, file otherwise.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseProvider(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parseProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
