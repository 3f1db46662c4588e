// Package cmd provides common initialization functions for the command-line
// binaries.
package cmd

import (
	"log/slog"

	"github.com/juriflow/juriflow/pkg/actions"
	"github.com/juriflow/juriflow/pkg/eventbus"
	"github.com/juriflow/juriflow/pkg/registry"
)

// NewRegistry builds an action registry with every built-in action type
// registered.
func NewRegistry(logger *slog.Logger, publisher eventbus.EventPublisher) *registry.Registry {
	reg := registry.NewRegistry(logger)
	actions.RegisterAll(reg, publisher)

	return reg
}
