package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/foomo/video-upload/internal/models"
	"go.uber.org/zap"
)

// maxErrorBody bounds how much of a rejected response is kept in the error
const maxErrorBody = 512

// httpRecorder posts records to an external API using a bearer token
type httpRecorder struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPRecorder creates a recorder posting JSON records to endpoint
func NewHTTPRecorder(endpoint, apiKey string, client *http.Client, logger *zap.Logger) *httpRecorder {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpRecorder{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   client,
		logger:   logger,
	}
}

// Record sends the record as the JSON body of a POST request
func (r *httpRecorder) Record(ctx context.Context, record *models.UploadRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal upload record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send upload record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("external store returned status %d: %s", resp.StatusCode, string(respBody))
	}

	r.logger.Debug("upload record forwarded",
		zap.String("endpoint", r.endpoint),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}
