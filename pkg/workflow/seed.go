package workflow

import "github.com/juriflow/juriflow/pkg/models"

// DefaultWorkflows returns the built-in automations installed on a fresh
// store. They are plain workflow definitions; nothing in the engine
// special-cases them.
func DefaultWorkflows() []*models.Workflow {
	return []*models.Workflow{
		{
			Name:        "Relance facture impayée",
			Description: "Sends a reminder email and opens a follow-up task when an invoice is 7 days overdue.",
			Enabled:     true,
			Trigger: models.Trigger{
				Type: models.TriggerFactureOverdue,
				Conditions: []models.Condition{
					{Field: "facture.days_overdue", Operator: models.OperatorEquals, Value: 7},
				},
			},
			Actions: []models.Action{
				{
					Type: models.ActionSendEmail,
					Params: map[string]any{
						"to":      "{{client.email}}",
						"subject": "Rappel: facture {{facture.numero}} en attente de règlement",
						"body":    "Bonjour {{client.nom}}, votre facture {{facture.numero}} de {{facture.montant}} EUR est en retard de 7 jours.",
					},
				},
				{
					Type: models.ActionCreateTask,
					Params: map[string]any{
						"title":       "Relancer {{client.nom}} pour la facture {{facture.numero}}",
						"description": "Première relance envoyée automatiquement. Vérifier le paiement sous 48h.",
					},
				},
			},
		},
		{
			Name:        "Alerte échéance urgente",
			Description: "Notifies the responsible lawyer and emails them when a high-urgency deadline is 3 days out.",
			Enabled:     true,
			Trigger: models.Trigger{
				Type: models.TriggerEcheanceApproaching,
				Conditions: []models.Condition{
					{Field: "echeance.days_until", Operator: models.OperatorEquals, Value: 3},
					{Field: "echeance.urgency", Operator: models.OperatorIn, Value: []any{"high", "critical"}},
				},
			},
			Actions: []models.Action{
				{
					Type: models.ActionCreateNotification,
					Params: map[string]any{
						"title":   "Échéance dans 3 jours: {{echeance.titre}}",
						"message": "Dossier {{dossier.numero}}, échéance le {{echeance.date}}.",
						"userId":  "{{dossier.responsable_id}}",
					},
				},
				{
					Type: models.ActionSendEmail,
					Params: map[string]any{
						"to":      "{{dossier.responsable_email}}",
						"subject": "Échéance urgente: {{echeance.titre}}",
						"body":    "L'échéance {{echeance.titre}} du dossier {{dossier.numero}} arrive dans 3 jours.",
					},
				},
			},
		},
		{
			Name:        "Ouverture de dossier",
			Description: "Auto-assigns a new dossier, opens a preparation task and notifies the assignee.",
			Enabled:     true,
			Trigger: models.Trigger{
				Type: models.TriggerDossierCreated,
			},
			Actions: []models.Action{
				{
					Type: models.ActionAssignToUser,
					Params: map[string]any{
						"strategy": "least_busy",
					},
				},
				{
					Type: models.ActionCreateTask,
					Params: map[string]any{
						"title":       "Préparer le dossier {{dossier.numero}}",
						"description": "Collecter les pièces et planifier le premier rendez-vous client.",
					},
				},
				{
					Type: models.ActionCreateNotification,
					Params: map[string]any{
						"title":   "Nouveau dossier: {{dossier.numero}}",
						"message": "Le dossier {{dossier.numero}} ({{client.nom}}) vient de vous être attribué.",
					},
				},
			},
		},
		{
			Name:        "Indexation de document",
			Description: "Extracts metadata from uploaded PDF and Word documents and notifies the dossier owner. Disabled by default.",
			Enabled:     false,
			Trigger: models.Trigger{
				Type: models.TriggerDocumentUploaded,
				Conditions: []models.Condition{
					{Field: "document.mime_type", Operator: models.OperatorIn, Value: []any{
						"application/pdf",
						"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
					}},
				},
			},
			Actions: []models.Action{
				{
					Type: models.ActionRunScript,
					Params: map[string]any{
						"script": "extract_document_metadata",
						"args": map[string]any{
							"documentId": "{{document.id}}",
						},
					},
				},
				{
					Type: models.ActionCreateNotification,
					Params: map[string]any{
						"title":   "Document indexé: {{document.nom}}",
						"message": "Le document {{document.nom}} du dossier {{dossier.numero}} a été analysé.",
						"userId":  "{{dossier.responsable_id}}",
					},
				},
			},
		},
		{
			Name:        "Rapport hebdomadaire",
			Description: "Generates the weekly activity report every Monday morning and emails it to the managing partner.",
			Enabled:     true,
			Trigger: models.Trigger{
				Type:     models.TriggerScheduled,
				Schedule: "0 8 * * 1",
			},
			Actions: []models.Action{
				{
					Type: models.ActionGenerateDocument,
					Params: map[string]any{
						"template": "rapport_hebdomadaire",
					},
				},
				{
					Type: models.ActionSendEmail,
					Params: map[string]any{
						"to":      "{{cabinet.associe_gerant_email}}",
						"subject": "Rapport hebdomadaire d'activité",
						"body":    "Veuillez trouver le rapport d'activité de la semaine en pièce jointe.",
					},
					Delay: 1,
				},
			},
		},
	}
}
