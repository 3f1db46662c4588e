package sendemail

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juriflow/juriflow/pkg/events"
	"github.com/juriflow/juriflow/pkg/mocks"
	"github.com/juriflow/juriflow/pkg/models"
)

func TestCreate_RequiresTo(t *testing.T) {
	factory := NewActionFactory(&mocks.PublisherSpy{})

	_, err := factory.Create(map[string]any{"subject": "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'to'")
}

func TestExecute_PublishesMailRequestAndReportsResult(t *testing.T) {
	publisher := &mocks.PublisherSpy{}
	factory := NewActionFactory(publisher)

	action, err := factory.Create(map[string]any{
		"to":      "client@cabinet.fr",
		"subject": "Rappel facture F-42",
		"body":    "Bonjour",
	})
	require.NoError(t, err)

	execution := models.Execution{ID: "exec-1", WorkflowID: "wf-1"}

	result, err := action.Execute(context.Background(), execution, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"sent":    true,
		"to":      "client@cabinet.fr",
		"subject": "Rappel facture F-42",
	}, result)

	require.Len(t, publisher.Events, 1)

	mail, ok := publisher.Events[0].(events.MailRequested)
	require.True(t, ok)
	assert.Equal(t, "client@cabinet.fr", mail.To)
	assert.Equal(t, "Rappel facture F-42", mail.Subject)
	assert.Equal(t, []string{"wf-1"}, publisher.Keys)
}
