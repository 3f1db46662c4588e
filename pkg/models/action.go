package models

// ActionType identifies which executor handles an action.
type ActionType string

const (
	ActionSendEmail          ActionType = "send_email"
	ActionCreateTask         ActionType = "create_task"
	ActionUpdateStatus       ActionType = "update_status"
	ActionAssignToUser       ActionType = "assign_to_user"
	ActionGenerateDocument   ActionType = "generate_document"
	ActionCreateNotification ActionType = "create_notification"
	ActionWebhook            ActionType = "webhook"
	ActionRunScript          ActionType = "run_script"
)

// Action is one step of a workflow's effect chain. Params values may contain
// {{dot.path}} placeholders resolved against the trigger context before
// dispatch. Delay is the number of minutes to wait before executing; the
// engine does not start the next action before the delay elapses.
type Action struct {
	Type   ActionType     `json:"type"            validate:"required"`
	Params map[string]any `json:"params"`
	Delay  int            `json:"delay,omitempty"`
}
