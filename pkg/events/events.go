// Package events defines the event types exchanged between the engine, the
// host application and external collaborators.
package events

import (
	"time"

	"github.com/juriflow/juriflow/pkg/models"
)

type EventType string

// Topic is the single event topic shared by all juriflow services.
const Topic = "juriflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Domain trigger events, emitted by the host application (or the
	// scheduler / queue receiver) when something happened that workflows may
	// react to.
	DomainTriggerEvent EventType = "domain.trigger"

	// Execution lifecycle events, emitted by the engine.
	ExecutionStartedEvent   EventType = "workflow.execution.started"
	ExecutionCompletedEvent EventType = "workflow.execution.completed"
	ExecutionFailedEvent    EventType = "workflow.execution.failed"

	// Side-effect requests, emitted by action executors and fulfilled by
	// external collaborators (mailer, task service, notification service...).
	MailRequestedEvent         EventType = "mail.requested"
	TaskRequestedEvent         EventType = "task.create.requested"
	StatusUpdateRequestedEvent EventType = "status.update.requested"
	AssignmentRequestedEvent   EventType = "assignment.requested"
	DocumentRequestedEvent     EventType = "document.generate.requested"
	NotificationRequestedEvent EventType = "notification.create.requested"
	ScriptRunRequestedEvent    EventType = "script.run.requested"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// DomainTrigger carries a domain event into the engine: the trigger type plus
// the context object available for condition evaluation and variable
// resolution (e.g. {dossier, client, facture}).
type DomainTrigger struct {
	BaseEvent

	TriggerType models.TriggerType `json:"trigger_type"`
	Context     map[string]any     `json:"context"`
}

func (e DomainTrigger) GetType() EventType { return DomainTriggerEvent }

type ExecutionStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	WorkflowID  string `json:"workflow_id"`
}

func (e ExecutionStarted) GetType() EventType { return ExecutionStartedEvent }

type ExecutionCompleted struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	WorkflowID  string        `json:"workflow_id"`
	Duration    time.Duration `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType { return ExecutionCompletedEvent }

type ExecutionFailed struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	WorkflowID  string        `json:"workflow_id"`
	Error       string        `json:"error"`
	Duration    time.Duration `json:"duration"`
}

func (e ExecutionFailed) GetType() EventType { return ExecutionFailedEvent }

// MailRequested asks the mailer collaborator to send an email.
type MailRequested struct {
	BaseEvent

	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

func (e MailRequested) GetType() EventType { return MailRequestedEvent }

// TaskRequested asks the task service to create a task.
type TaskRequested struct {
	BaseEvent

	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	AssignedTo  string `json:"assigned_to,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

func (e TaskRequested) GetType() EventType { return TaskRequestedEvent }

// StatusUpdateRequested asks the host application to move a dossier or
// facture to a new status.
type StatusUpdateRequested struct {
	BaseEvent

	Entity    string `json:"entity,omitempty"`
	EntityID  string `json:"entity_id,omitempty"`
	NewStatus string `json:"new_status"`
}

func (e StatusUpdateRequested) GetType() EventType { return StatusUpdateRequestedEvent }

// AssignmentRequested reports the user selected by an assign_to_user action.
type AssignmentRequested struct {
	BaseEvent

	UserID   string `json:"user_id"`
	Strategy string `json:"strategy,omitempty"`
	Entity   string `json:"entity,omitempty"`
	EntityID string `json:"entity_id,omitempty"`
}

func (e AssignmentRequested) GetType() EventType { return AssignmentRequestedEvent }

// DocumentRequested asks the document generator to render a template.
type DocumentRequested struct {
	BaseEvent

	DocumentID string         `json:"document_id"`
	Template   string         `json:"template,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

func (e DocumentRequested) GetType() EventType { return DocumentRequestedEvent }

// NotificationRequested asks the notification service to notify a user.
type NotificationRequested struct {
	BaseEvent

	NotificationID string `json:"notification_id"`
	Title          string `json:"title"`
	Message        string `json:"message,omitempty"`
	UserID         string `json:"user_id,omitempty"`
}

func (e NotificationRequested) GetType() EventType { return NotificationRequestedEvent }

// ScriptRunRequested asks the sandboxed script runner to execute a script.
type ScriptRunRequested struct {
	BaseEvent

	Script string         `json:"script"`
	Args   map[string]any `json:"args,omitempty"`
}

func (e ScriptRunRequested) GetType() EventType { return ScriptRunRequestedEvent }
