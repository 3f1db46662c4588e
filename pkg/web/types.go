package web

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/registry"
)

// CreateWorkflowRequest is the payload for POST /workflows.
type CreateWorkflowRequest struct {
	Name        string          `json:"name"        validate:"required,min=3"`
	Description string          `json:"description"`
	Enabled     *bool           `json:"enabled"`
	Trigger     models.Trigger  `json:"trigger"`
	Actions     []models.Action `json:"actions"`
}

// UpdateWorkflowRequest is the payload for PUT /workflows/:id. All fields are
// optional; absent fields keep their current value.
type UpdateWorkflowRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=3"`
	Description *string          `json:"description"`
	Enabled     *bool            `json:"enabled"`
	Trigger     *models.Trigger  `json:"trigger"`
	Actions     *[]models.Action `json:"actions"`
}

// RunWorkflowRequest is the payload for POST /workflows/:id/run. The context
// is handed to the engine as-is; trigger conditions are not evaluated for
// manual runs.
type RunWorkflowRequest struct {
	Context map[string]any `json:"context"`
}

// validateDefinition checks trigger and actions against the known trigger
// types, operators and per-action param schemas.
func validateDefinition(trigger models.Trigger, actions []models.Action, reg *registry.Registry) error {
	if trigger.Type != "" && !trigger.Type.IsValid() {
		return fmt.Errorf("unknown trigger type %q", trigger.Type)
	}

	for _, condition := range trigger.Conditions {
		if !condition.Operator.IsValid() {
			return fmt.Errorf("unknown condition operator %q", condition.Operator)
		}

		if condition.Field == "" {
			return fmt.Errorf("condition field is required")
		}
	}

	for index, action := range actions {
		if action.Delay < 0 {
			return fmt.Errorf("action %d: delay must not be negative", index)
		}

		schema, ok := reg.ActionSchema(string(action.Type))
		if !ok {
			return fmt.Errorf("action %d: unknown action type %q", index, action.Type)
		}

		if err := validateParams(schema, action.Params); err != nil {
			return fmt.Errorf("action %d (%s): %w", index, action.Type, err)
		}
	}

	return nil
}

// validateParams checks action params against the factory's JSON schema.
// Params containing {{...}} placeholders still satisfy string-typed schemas,
// since placeholders resolve to strings at execution time.
func validateParams(schema map[string]any, params map[string]any) error {
	if params == nil {
		params = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(params),
	)
	if err != nil {
		return fmt.Errorf("failed to validate params: %w", err)
	}

	if !result.Valid() {
		for _, resultError := range result.Errors() {
			return fmt.Errorf("invalid params: %s", resultError.String())
		}
	}

	return nil
}
