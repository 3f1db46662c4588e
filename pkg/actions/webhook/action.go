// Package webhook implements the webhook action: unlike the other executors
// it performs the outbound HTTP call itself.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/protocol"
)

const defaultTimeout = 30 * time.Second

type ActionFactory struct {
	client *http.Client
}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{client: &http.Client{}}
}

func (*ActionFactory) ID() string {
	return string(models.ActionWebhook)
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	url, _ := params["url"].(string)
	if url == "" {
		return nil, errors.New("webhook action requires a 'url' param")
	}

	method, _ := params["method"].(string)
	if method == "" {
		method = http.MethodPost
	}

	headers := make(map[string]string)
	if headersParam, ok := params["headers"].(map[string]any); ok {
		for key, value := range headersParam {
			if str, ok := value.(string); ok {
				headers[key] = str
			}
		}
	}

	payload, _ := params["payload"].(map[string]any)

	return &Action{
		url:     url,
		method:  strings.ToUpper(method),
		headers: headers,
		payload: payload,
		client:  f.client,
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url":     map[string]any{"type": "string"},
			"method":  map[string]any{"type": "string"},
			"headers": map[string]any{"type": "object"},
			"payload": map[string]any{"type": "object"},
		},
		"required": []any{"url"},
	}
}

type Action struct {
	url     string
	method  string
	headers map[string]string
	payload map[string]any
	client  *http.Client
}

func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	logger.Info("Calling webhook", "url", a.url, "method", a.method)

	reqCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var bodyReader io.Reader

	if a.payload != nil {
		body, err := json.Marshal(a.payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal webhook payload: %w", err)
		}

		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(reqCtx, a.method, a.url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	for key, value := range a.headers {
		req.Header.Set(key, value)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close webhook response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return map[string]any{
		"webhookCalled": true,
		"url":           a.url,
		"statusCode":    resp.StatusCode,
	}, nil
}
