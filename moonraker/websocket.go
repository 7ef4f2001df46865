package moonraker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/john/elegoo_hub/printer"
)

// jsonRPCRequest represents an outgoing JSON-RPC 2.0 request.
type jsonRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int64       `json:"id"`
}

// jsonRPCMessage is any frame received from Moonraker: a response carries an
// id, a notification carries a method and no id.
type jsonRPCMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      *int64          `json:"id,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type objectsQueryParams struct {
	Objects map[string][]string `json:"objects"`
}

// queryWebSocket issues printer.objects.query over the Moonraker WebSocket
// and waits for the matching response, skipping notifications.
func (c *Client) queryWebSocket(ctx context.Context, addr string) (*printer.Status, error) {
	conn, resp, err := c.dialer.DialContext(ctx, baseURL(addr, "ws")+"/websocket", nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dialing websocket: %w", err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	id := c.rpcID.Add(1)
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  "printer.objects.query",
		Params:  objectsQueryParams{Objects: rpcObjects(StatusObjects)},
		ID:      id,
	}
	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("sending query: %w", err)
	}

	for {
		var msg jsonRPCMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		if msg.ID == nil || *msg.ID != id {
			continue
		}

		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)

		if msg.Error != nil {
			return nil, fmt.Errorf("%w %d: %s", ErrRPC, msg.Error.Code, msg.Error.Message)
		}

		var result struct {
			Status *printer.Status `json:"status"`
		}
		if len(msg.Result) == 0 {
			return nil, ErrMissingStatus
		}
		if err := json.Unmarshal(msg.Result, &result); err != nil {
			return nil, fmt.Errorf("decoding status: %w", err)
		}
		if result.Status == nil {
			return nil, ErrMissingStatus
		}
		return result.Status, nil
	}
}
