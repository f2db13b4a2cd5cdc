package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mdstudio/mdstudio-cli/internal/domain/call"
)

// HTTPInvoker calls remote methods with JSON-RPC 2.0 over HTTP POST. The
// method URI is the JSON-RPC method and the payload its params.
type HTTPInvoker struct {
	endpoint string
	client   *http.Client

	mu     sync.Mutex
	lastID int
}

// NewHTTPInvoker creates an invoker for endpoint. A nil client means
// http.DefaultClient.
func NewHTTPInvoker(endpoint string, client *http.Client) *HTTPInvoker {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPInvoker{
		endpoint: endpoint,
		client:   client,
	}
}

func (c *HTTPInvoker) nextID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastID++
	return c.lastID
}

// Invoke sends payload to the method uri and waits for the response.
func (c *HTTPInvoker) Invoke(ctx context.Context, uri string, payload call.Payload) (*Result, error) {
	rpcReq, err := newRequest(c.nextID(), uri, payload)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(rpcReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	slog.Debug("invoking remote method", "endpoint", c.endpoint, "uri", uri, "bytes", len(data))
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code: %d %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var rpcResp JSONRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return toResult(&rpcResp)
}
