package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juriflow/juriflow/pkg/models"
)

func TestCreate_RequiresURL(t *testing.T) {
	factory := NewActionFactory()

	_, err := factory.Create(map[string]any{"method": "POST"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'url'")
}

func TestExecute_PostsPayloadWithHeaders(t *testing.T) {
	var (
		gotMethod string
		gotHeader string
		gotBody   map[string]any
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Api-Key")

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	factory := NewActionFactory()
	action, err := factory.Create(map[string]any{
		"url":     server.URL,
		"headers": map[string]any{"X-Api-Key": "secret"},
		"payload": map[string]any{"dossier": "DOS-1"},
	})
	require.NoError(t, err)

	result, err := action.Execute(context.Background(), models.Execution{ID: "exec-1"}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "secret", gotHeader)
	assert.Equal(t, map[string]any{"dossier": "DOS-1"}, gotBody)

	assert.Equal(t, true, result["webhookCalled"])
	assert.Equal(t, server.URL, result["url"])
	assert.Equal(t, http.StatusOK, result["statusCode"])
}

func TestExecute_ErrorStatusFailsAction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	factory := NewActionFactory()
	action, err := factory.Create(map[string]any{"url": server.URL})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.Execution{ID: "exec-1"}, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestExecute_CustomMethod(t *testing.T) {
	var gotMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	factory := NewActionFactory()
	action, err := factory.Create(map[string]any{"url": server.URL, "method": "put"})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.Execution{ID: "exec-1"}, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
}
