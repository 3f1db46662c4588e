package models

import "time"

// ExecutionStatus is the lifecycle state of an execution. The only valid
// transitions are pending -> running -> (completed | failed); a failed
// execution never retries automatically.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Terminal reports whether the status is a terminal state.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed
}

const (
	ActionResultSuccess = "success"
	ActionResultError   = "error"
)

// ActionResult records the outcome of one attempted action within an
// execution.
type ActionResult struct {
	Action Action         `json:"action"`
	Status string         `json:"status"`
	Result map[string]any `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Execution is an immutable record of one run of one workflow against one
// trigger context. Results holds one entry per attempted action; its length
// equals the action count only on full success. Once terminal, executions
// are append-only history and are never mutated.
type Execution struct {
	ID          string          `json:"id"`
	WorkflowID  string          `json:"workflow_id"`
	Status      ExecutionStatus `json:"status"`
	Context     map[string]any  `json:"context"`
	Results     []ActionResult  `json:"results"`
	Error       string          `json:"error,omitempty"`
	TriggeredAt time.Time       `json:"triggered_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}
