package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_SimplePlaceholder(t *testing.T) {
	ctx := map[string]any{
		"dossier": map[string]any{"numero": "DOS-2024-001"},
	}

	result := Resolve("Review {{dossier.numero}}", ctx)
	assert.Equal(t, "Review DOS-2024-001", result)
}

func TestResolve_MultiplePlaceholdersInOneString(t *testing.T) {
	ctx := map[string]any{
		"client":  map[string]any{"nom": "Dupont"},
		"facture": map[string]any{"numero": "F-42", "montant": 1500.5},
	}

	result := Resolve("{{client.nom}}: facture {{facture.numero}} ({{facture.montant}} EUR)", ctx)
	assert.Equal(t, "Dupont: facture F-42 (1500.5 EUR)", result)
}

func TestResolve_UnresolvedPlaceholderStaysLiteral(t *testing.T) {
	ctx := map[string]any{
		"dossier": map[string]any{"numero": "DOS-1"},
	}

	result := Resolve("{{dossier.numero}} for {{client.nom}}", ctx)
	assert.Equal(t, "DOS-1 for {{client.nom}}", result)
}

func TestResolve_NilValueStaysLiteral(t *testing.T) {
	ctx := map[string]any{
		"client": map[string]any{"email": nil},
	}

	result := Resolve("{{client.email}}", ctx)
	assert.Equal(t, "{{client.email}}", result)
}

func TestResolve_NonStringScalarsUnchanged(t *testing.T) {
	ctx := map[string]any{}

	assert.Equal(t, 7, Resolve(7, ctx))
	assert.Equal(t, true, Resolve(true, ctx))
	assert.Equal(t, 2.5, Resolve(2.5, ctx))
	assert.Nil(t, Resolve(nil, ctx))
}

func TestResolve_RecursesIntoSlicesAndMaps(t *testing.T) {
	ctx := map[string]any{
		"dossier": map[string]any{"numero": "DOS-9", "type": "penal"},
	}

	value := map[string]any{
		"title": "Dossier {{dossier.numero}}",
		"tags":  []any{"{{dossier.type}}", "urgent", 3},
		"nested": map[string]any{
			"ref": "{{dossier.numero}}",
		},
	}

	resolved, ok := Resolve(value, ctx).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "Dossier DOS-9", resolved["title"])
	assert.Equal(t, []any{"penal", "urgent", 3}, resolved["tags"])

	nested, ok := resolved["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "DOS-9", nested["ref"])
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	ctx := map[string]any{
		"dossier": map[string]any{"numero": "DOS-1"},
	}

	value := map[string]any{
		"title": "{{dossier.numero}}",
		"tags":  []any{"{{dossier.numero}}"},
	}

	_ = Resolve(value, ctx)

	assert.Equal(t, "{{dossier.numero}}", value["title"])
	assert.Equal(t, []any{"{{dossier.numero}}"}, value["tags"])
}

func TestResolve_Idempotent(t *testing.T) {
	ctx := map[string]any{
		"dossier": map[string]any{"numero": "DOS-1"},
	}

	once := Resolve("Ref {{dossier.numero}} and {{missing.path}}", ctx)
	twice := Resolve(once, ctx)

	assert.Equal(t, once, twice)
}

func TestResolveParams_NilParams(t *testing.T) {
	resolved := ResolveParams(nil, map[string]any{})

	require.NotNil(t, resolved)
	assert.Empty(t, resolved)
}

func TestLookup(t *testing.T) {
	ctx := map[string]any{
		"facture": map[string]any{
			"numero":       "F-1",
			"days_overdue": 7,
			"client":       map[string]any{"email": "a@b.fr"},
		},
	}

	tests := []struct {
		name  string
		path  string
		want  any
		found bool
	}{
		{"top level map", "facture", ctx["facture"], true},
		{"nested value", "facture.numero", "F-1", true},
		{"deeply nested", "facture.client.email", "a@b.fr", true},
		{"numeric value", "facture.days_overdue", 7, true},
		{"missing root", "echeance.date", nil, false},
		{"missing leaf", "facture.montant", nil, false},
		{"traversal through scalar", "facture.numero.x", nil, false},
		{"empty path", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Lookup(ctx, tt.path)

			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
