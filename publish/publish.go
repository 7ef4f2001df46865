// Package publish pushes normalized printer batches to the aggregation
// service's elegoo-sync endpoint.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/john/elegoo_hub/printer"
)

const (
	// SyncPath is the aggregation service endpoint receiving batches.
	SyncPath = "/api/printers/elegoo-sync"

	DefaultTimeout = 10 * time.Second
)

var ErrPublishFailed = errors.New("publish failed")

type requestIDKey struct{}

// WithRequestID attaches an id sent as X-Request-Id on the publish request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Client posts batches with a static bearer token.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

// Result is the service's answer to an accepted batch.
type Result struct {
	Synced int `json:"synced"`
}

// request is the wire body of a publish call.
type request struct {
	Printers printer.Batch `json:"printers"`
}

type errorBody struct {
	Error string `json:"error"`
}

// NewClient creates a publisher for baseURL. A zero timeout uses
// DefaultTimeout.
func NewClient(baseURL, secret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the full sync URL.
func (c *Client) Endpoint() string {
	return c.baseURL + SyncPath
}

// Publish sends batch in one POST. Non-2xx answers return an error wrapping
// ErrPublishFailed with the service's error message.
func (c *Client) Publish(ctx context.Context, batch printer.Batch) (*Result, error) {
	data, err := json.Marshal(request{Printers: batch})
	if err != nil {
		return nil, fmt.Errorf("marshaling batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secret)
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Request-Id", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending batch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w (HTTP %d): %s", ErrPublishFailed, resp.StatusCode, errorMessage(resp.StatusCode, body))
	}

	var result Result
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
	}
	return &result, nil
}

// errorMessage extracts {"error": "..."} from body, falling back to the
// status code.
func errorMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	return fmt.Sprintf("%d", status)
}
