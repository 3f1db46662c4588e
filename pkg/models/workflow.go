// Package models defines the core domain models for legal-practice workflow automation.
package models

import "time"

// TriggerType identifies the class of domain event that makes a workflow
// eligible to run.
type TriggerType string

const (
	TriggerDossierCreated       TriggerType = "dossier_created"
	TriggerDossierStatusChanged TriggerType = "dossier_status_changed"
	TriggerFactureCreated       TriggerType = "facture_created"
	TriggerFactureOverdue       TriggerType = "facture_overdue"
	TriggerEcheanceApproaching  TriggerType = "echeance_approaching"
	TriggerDocumentUploaded     TriggerType = "document_uploaded"
	TriggerClientCreated        TriggerType = "client_created"
	TriggerScheduled            TriggerType = "scheduled"
)

// TriggerTypes lists every known trigger type.
var TriggerTypes = []TriggerType{
	TriggerDossierCreated,
	TriggerDossierStatusChanged,
	TriggerFactureCreated,
	TriggerFactureOverdue,
	TriggerEcheanceApproaching,
	TriggerDocumentUploaded,
	TriggerClientCreated,
	TriggerScheduled,
}

// IsValid reports whether t is a known trigger type.
func (t TriggerType) IsValid() bool {
	for _, known := range TriggerTypes {
		if t == known {
			return true
		}
	}

	return false
}

// Trigger binds a workflow to a class of domain events. Conditions are
// AND-combined: all of them must match the trigger context for the workflow
// to fire. Schedule carries a cron expression and is only meaningful for
// TriggerScheduled workflows.
type Trigger struct {
	Type       TriggerType `json:"type"       validate:"required"`
	Conditions []Condition `json:"conditions"`
	Schedule   string      `json:"schedule,omitempty"`
}

// Workflow is a stored automation rule: a trigger plus an ordered chain of
// actions. Disabled workflows are never matched automatically but may still
// be run manually.
type Workflow struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"        validate:"required,min=3"`
	Description    string     `json:"description"`
	Enabled        bool       `json:"enabled"`
	Trigger        Trigger    `json:"trigger"`
	Actions        []Action   `json:"actions"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastExecuted   *time.Time `json:"last_executed,omitempty"`
	ExecutionCount int64      `json:"execution_count"`
}
