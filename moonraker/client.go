// Package moonraker queries Klipper printers through the Moonraker API and
// provides a small Moonraker-compatible emulator for exercising the hub.
package moonraker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/john/elegoo_hub/logger"
	"github.com/john/elegoo_hub/printer"
)

// DefaultTimeout bounds a single printer query.
const DefaultTimeout = 5 * time.Second

// Client fetches printer status over HTTP or the Moonraker WebSocket.
type Client struct {
	httpClient *http.Client
	dialer     *websocket.Dialer
	timeout    time.Duration
	logger     logger.Logger
	rpcID      atomic.Int64
}

// NewClient creates a client whose queries are bounded by timeout.
// A zero timeout uses DefaultTimeout; a nil logger discards output.
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
			Proxy:            http.ProxyFromEnvironment,
		},
		timeout: timeout,
		logger:  log,
	}
}

// Fetch queries cfg and returns its status, or nil after logging the failure.
func (c *Client) Fetch(ctx context.Context, cfg printer.Config) *printer.Status {
	st, err := c.Query(ctx, cfg)
	if err != nil {
		c.logger.Warn().
			Str("printer", cfg.Name).
			Str("ip", cfg.IP).
			Err(err).
			Msg("Failed to query printer")
		return nil
	}
	return st
}

// Query performs one status query using the printer's configured transport.
func (c *Client) Query(ctx context.Context, cfg printer.Config) (*printer.Status, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if cfg.Transport == printer.TransportWebSocket {
		return c.queryWebSocket(ctx, cfg.IP)
	}
	return c.queryHTTP(ctx, cfg.IP)
}

type queryResponse struct {
	Result *struct {
		Status *printer.Status `json:"status"`
	} `json:"result"`
}

func (r *queryResponse) status() (*printer.Status, error) {
	if r.Result == nil || r.Result.Status == nil {
		return nil, ErrMissingStatus
	}
	return r.Result.Status, nil
}

func (c *Client) queryHTTP(ctx context.Context, addr string) (*printer.Status, error) {
	u := baseURL(addr, "http") + "/printer/objects/query?" + queryString(StatusObjects)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching status: %w", err)
	}
	defer c.closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decoding status: %w", err)
	}
	return qr.status()
}

func (c *Client) closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	if err := resp.Body.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to close response body")
	}
}

// baseURL turns a configured printer address into a URL root. Bare hosts get
// the given scheme; addresses that already carry a scheme are kept, with
// http(s) mapped to ws(s) when a WebSocket scheme is requested.
func baseURL(addr, scheme string) string {
	addr = strings.TrimRight(addr, "/")

	if i := strings.Index(addr, "://"); i >= 0 {
		if scheme == "ws" {
			switch addr[:i] {
			case "http":
				return "ws" + addr[i:]
			case "https":
				return "wss" + addr[i:]
			}
		}
		return addr
	}
	return scheme + "://" + addr
}
