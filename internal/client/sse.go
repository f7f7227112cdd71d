package client

import (
	"context"
	"io"
	"log/slog"

	"github.com/Taylor002/OpenMetadata/internal/errors"
	"github.com/Taylor002/OpenMetadata/internal/mcp"
	"github.com/Taylor002/OpenMetadata/internal/message"
)

// sseTransportName is reported by every UnsupportedTransportError of SSEClient.
const sseTransportName = "sse"

// SSEClient is the event-stream MCP client. It performs no network activity.
type SSEClient struct {
	log    *slog.Logger
	server *mcp.SSEServerConfig
}

// NewSSE creates an event-stream client for server.
func NewSSE(log *slog.Logger, server *mcp.SSEServerConfig) *SSEClient {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &SSEClient{
		log:    log.With("component", "sse_client"),
		server: server,
	}
}

func (c *SSEClient) unsupported(op string) error {
	c.log.Debug("Event-stream transport is not implemented", "operation", op, "url", c.url())

	return &errors.UnsupportedTransportError{Transport: sseTransportName}
}

func (c *SSEClient) url() string {
	if c.server == nil {
		return ""
	}

	return c.server.URL
}

// Initialize always fails with UnsupportedTransportError.
func (c *SSEClient) Initialize(context.Context) (*message.InitializeResult, error) {
	return nil, c.unsupported("initialize")
}

// ListTools always fails with UnsupportedTransportError.
func (c *SSEClient) ListTools(context.Context) ([]message.Tool, error) {
	return nil, c.unsupported("list_tools")
}

// ListResources always fails with UnsupportedTransportError.
func (c *SSEClient) ListResources(context.Context) ([]message.Resource, error) {
	return nil, c.unsupported("list_resources")
}

// ListPrompts always fails with UnsupportedTransportError.
func (c *SSEClient) ListPrompts(context.Context) ([]message.Prompt, error) {
	return nil, c.unsupported("list_prompts")
}

// Close always fails with UnsupportedTransportError.
func (c *SSEClient) Close() error {
	return c.unsupported("close")
}
