// Package web provides the REST API for workflow management and the
// execution history monitoring UI.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/persistence"
	"github.com/juriflow/juriflow/pkg/registry"
	"github.com/juriflow/juriflow/pkg/workflow"
)

type APIHandlers struct {
	repository *workflow.Repository
	executor   *workflow.Executor
	validator  *validator.Validate
	registry   *registry.Registry
}

func NewAPIHandlers(
	repository *workflow.Repository,
	executor *workflow.Executor,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		repository: repository,
		executor:   executor,
		validator:  validator,
		registry:   registry,
	}
}

// NewApp builds the fiber application with all routes registered.
func NewApp(handlers *APIHandlers) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "juriflow-api"})

	app.Get("/health", handlers.HealthCheck)
	app.Get("/actions", handlers.GetActions)
	app.Get("/executions", handlers.GetExecutions)

	app.Get("/workflows", handlers.GetWorkflows)
	app.Post("/workflows", handlers.CreateWorkflow)
	app.Get("/workflows/:id", handlers.GetWorkflow)
	app.Put("/workflows/:id", handlers.UpdateWorkflow)
	app.Delete("/workflows/:id", handlers.DeleteWorkflow)
	app.Post("/workflows/:id/toggle", handlers.ToggleWorkflow)
	app.Post("/workflows/:id/run", handlers.RunWorkflow)
	app.Get("/workflows/:id/executions", handlers.GetWorkflowExecutions)

	return app
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.repository.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetActions(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"actions": h.registry.AvailableActions(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.repository.FetchAll(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": workflows})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	wf, err := h.repository.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := validateDefinition(req.Trigger, req.Actions, h.registry); err != nil {
		return badRequest(c, err.Error())
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	actions := req.Actions
	if actions == nil {
		actions = []models.Action{}
	}

	wf := &models.Workflow{
		Name:        req.Name,
		Description: req.Description,
		Enabled:     enabled,
		Trigger:     req.Trigger,
		Actions:     actions,
	}

	created, err := h.repository.Create(c.Context(), wf)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.repository.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Enabled != nil {
		existing.Enabled = *req.Enabled
	}

	if req.Trigger != nil {
		existing.Trigger = *req.Trigger
	}

	if req.Actions != nil {
		existing.Actions = *req.Actions
	}

	if err := validateDefinition(existing.Trigger, existing.Actions, h.registry); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.repository.Update(c.Context(), id, existing)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.repository.Delete(c.Context(), id); err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	toggled, err := h.repository.Toggle(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	if toggled == nil {
		return notFound(c, "Workflow not found")
	}

	return c.JSON(toggled)
}

// RunWorkflow executes a workflow immediately against the supplied context.
// Manual runs skip trigger condition evaluation.
func (h *APIHandlers) RunWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req RunWorkflowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	if req.Context == nil {
		req.Context = map[string]any{}
	}

	execution, err := h.executor.Execute(c.Context(), id, req.Context)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) GetWorkflowExecutions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	executions, err := h.repository.Executions(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"executions": executions})
}

func (h *APIHandlers) GetExecutions(c fiber.Ctx) error {
	executions, err := h.repository.Executions(c.Context(), c.Query("workflow_id"))
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"executions": executions})
}
