package assignuser

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juriflow/juriflow/pkg/mocks"
	"github.com/juriflow/juriflow/pkg/models"
)

func execute(t *testing.T, factory *ActionFactory, params map[string]any) map[string]any {
	t.Helper()

	action, err := factory.Create(params)
	require.NoError(t, err)

	result, err := action.Execute(context.Background(), models.Execution{ID: "exec-1", WorkflowID: "wf-1"}, slog.Default())
	require.NoError(t, err)

	return result
}

func TestExecute_LeastBusyPicksLowestLoad(t *testing.T) {
	factory := NewActionFactory(&mocks.PublisherSpy{})

	result := execute(t, factory, map[string]any{
		"strategy": StrategyLeastBusy,
		"users": []any{
			map[string]any{"id": "avocat-1", "open_dossiers": float64(12)},
			map[string]any{"id": "avocat-2", "open_dossiers": float64(3)},
			map[string]any{"id": "avocat-3", "open_dossiers": float64(8)},
		},
	})

	assert.Equal(t, true, result["assigned"])
	assert.Equal(t, "avocat-2", result["userId"])
}

func TestExecute_RoundRobinCyclesThroughCandidates(t *testing.T) {
	factory := NewActionFactory(&mocks.PublisherSpy{})

	params := map[string]any{
		"strategy": StrategyRoundRobin,
		"users":    []any{"avocat-1", "avocat-2"},
	}

	first := execute(t, factory, params)
	second := execute(t, factory, params)
	third := execute(t, factory, params)

	assert.Equal(t, "avocat-1", first["userId"])
	assert.Equal(t, "avocat-2", second["userId"])
	assert.Equal(t, "avocat-1", third["userId"])
}

func TestExecute_BySpecialtyMatches(t *testing.T) {
	factory := NewActionFactory(&mocks.PublisherSpy{})

	result := execute(t, factory, map[string]any{
		"strategy":  StrategyBySpecialty,
		"specialty": "droit_social",
		"users": []any{
			map[string]any{"id": "avocat-1", "specialty": "droit_fiscal"},
			map[string]any{"id": "avocat-2", "specialty": "droit_social"},
		},
	})

	assert.Equal(t, "avocat-2", result["userId"])
}

func TestExecute_BySpecialtyFallsBackToFirstCandidate(t *testing.T) {
	factory := NewActionFactory(&mocks.PublisherSpy{})

	result := execute(t, factory, map[string]any{
		"strategy":  StrategyBySpecialty,
		"specialty": "droit_penal",
		"users": []any{
			map[string]any{"id": "avocat-1", "specialty": "droit_fiscal"},
		},
	})

	assert.Equal(t, "avocat-1", result["userId"])
}

func TestExecute_ExplicitUserIDWithoutCandidates(t *testing.T) {
	factory := NewActionFactory(&mocks.PublisherSpy{})

	result := execute(t, factory, map[string]any{"userId": "avocat-9"})

	assert.Equal(t, "avocat-9", result["userId"])
}

func TestExecute_NoCandidatesAndNoUserIDFails(t *testing.T) {
	factory := NewActionFactory(&mocks.PublisherSpy{})

	action, err := factory.Create(map[string]any{"strategy": StrategyLeastBusy})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.Execution{ID: "exec-1"}, slog.Default())
	assert.Error(t, err)
}
