package backend

import (
	"bytes"         // Request bodies
	"context"       // Request scoping
	"encoding/json" // Wire format of the backend
	"fmt"           // Error wrapping
	"io"            // Body reading
	"net/http"      // HTTP client
	"time"          // Timeouts and timing

	"github.com/sirupsen/logrus" // Logging of failed calls

	"royal_site/internal/metrics" // Backend call metrics
)

// maxErrorBody bounds how much of an error response is read
const maxErrorBody = 64 << 10

// Client talks to the restaurant REST backend
type Client struct {
	baseURL string             // Backend base URL without trailing slash
	http    *http.Client       // Underlying HTTP client
	metrics *metrics.Collector // Optional metrics, nil disables
}

// NewClient creates a backend client with a per-request timeout
func NewClient(baseURL string, timeout time.Duration, m *metrics.Collector) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		metrics: m,
	}
}

// do sends one JSON request and decodes a 2xx response into out (when not nil).
// Non-2xx responses become *APIError, transport failures are wrapped with op.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.ObserveBackend(op, started, err)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"operation": op,     // Backend operation
				"method":    method, // HTTP method
				"path":      path,   // Request path
				"error":     err,    // Failure
			}).Warn("Backend request failed")
		}
	}()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(op, resp.StatusCode, raw)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body) // Drain so the connection is reused
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil // Empty 2xx body
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// decodeList accepts either {"<key>": [...]} or a bare array
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '[' {
		var items []T
		err := json.Unmarshal(raw, &items)
		return items, err
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	inner, ok := wrapped[key]
	if !ok || string(bytes.TrimSpace(inner)) == "null" {
		return nil, nil
	}
	var items []T
	err := json.Unmarshal(inner, &items)
	return items, err
}
