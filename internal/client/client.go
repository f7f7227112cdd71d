package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Taylor002/OpenMetadata/internal/config"
	"github.com/Taylor002/OpenMetadata/internal/errors"
	"github.com/Taylor002/OpenMetadata/internal/mcp"
	"github.com/Taylor002/OpenMetadata/internal/message"
	"github.com/Taylor002/OpenMetadata/internal/protocol"
	"github.com/Taylor002/OpenMetadata/internal/subprocess"
)

// Client talks to one MCP server over a subprocess stdio transport.
type Client struct {
	log     *slog.Logger
	options *config.Options

	transport  config.Transport
	controller *protocol.Controller
	session    *protocol.Session

	// cancel stops the reader loop; it is not tied to any caller's context.
	cancel context.CancelFunc

	// Lifecycle management
	mu         sync.Mutex
	started    bool
	closed     bool
	closeOnce  sync.Once
	initResult *message.InitializeResult
}

// New creates a new stdio client.
//
// Nothing is spawned until Initialize is called.
func New(options *config.Options) *Client {
	// Default to empty options if nil
	if options == nil {
		options = &config.Options{}
	}

	// Extract logger from options, defaulting to a no-op logger
	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		log:     log.With("component", "client"),
		options: options,
	}
}

// startCore creates and starts the transport and protocol controller.
// Caller must hold c.mu lock.
func (c *Client) startCore(ctx context.Context) error {
	// Create or use injected transport
	var transport config.Transport

	if c.options.Transport != nil {
		transport = c.options.Transport

		c.log.Debug("Using injected custom transport")
	} else {
		server, ok := c.options.Server.(*mcp.StdioServerConfig)
		if !ok {
			return &errors.ProcessStartError{
				Err: fmt.Errorf("stdio client requires a stdio server config, got %T: %w",
					c.options.Server, mcp.ErrMissingCommand),
			}
		}

		transport = subprocess.NewStdioTransport(c.log, server, c.options)
	}

	if err := transport.Start(ctx); err != nil {
		_ = transport.Close()

		return fmt.Errorf("start transport: %w", err)
	}

	// The reader loop must outlive the caller's ctx, which may carry an
	// initialization deadline. Close cancels it.
	loopCtx, cancel := context.WithCancel(context.Background())

	controller := protocol.NewController(c.log, transport, c.options.GetRequestTimeout())
	if err := controller.Start(loopCtx); err != nil {
		cancel()
		_ = transport.Close()

		return fmt.Errorf("start protocol controller: %w", err)
	}

	c.transport = transport
	c.controller = controller
	c.session = protocol.NewSession(c.log, controller, c.options)
	c.cancel = cancel
	c.started = true

	return nil
}

// Initialize starts the server and performs the initialize handshake.
//
// Returns ProcessStartError (wrapped) if the server cannot be spawned,
// ErrAlreadyInitialized on a second call, and ErrClientClosed after Close.
func (c *Client) Initialize(ctx context.Context) (*message.InitializeResult, error) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()

		return nil, errors.ErrClientClosed
	}

	if !c.started {
		c.log.Info("Starting MCP stdio client")

		if err := c.startCore(ctx); err != nil {
			c.mu.Unlock()

			return nil, err
		}
	}

	session := c.session
	c.mu.Unlock()

	// Close may run while the handshake is in flight.
	result, err := session.Initialize(ctx)
	if err != nil {
		return nil, err
	}

	initResult, err := message.ParseInitializeResult(result)
	if err != nil {
		session.Reset()

		return nil, err
	}

	c.mu.Lock()
	c.initResult = initResult
	c.mu.Unlock()

	c.log.Info("MCP server initialized",
		"protocol_version", initResult.ProtocolVersion,
		"server", serverName(initResult),
	)

	return initResult, nil
}

// ListTools returns the tools exposed by the server.
func (c *Client) ListTools(ctx context.Context) ([]message.Tool, error) {
	result, err := c.request(ctx, protocol.MethodListTools)
	if err != nil {
		return nil, err
	}

	tools, err := message.ParseTools(result)
	if err != nil {
		return nil, err
	}

	c.log.Debug("Listed tools", "count", len(tools))

	return tools, nil
}

// ListResources returns the resources exposed by the server.
func (c *Client) ListResources(ctx context.Context) ([]message.Resource, error) {
	result, err := c.request(ctx, protocol.MethodListResources)
	if err != nil {
		return nil, err
	}

	resources, err := message.ParseResources(result)
	if err != nil {
		return nil, err
	}

	c.log.Debug("Listed resources", "count", len(resources))

	return resources, nil
}

// ListPrompts returns the prompts exposed by the server.
func (c *Client) ListPrompts(ctx context.Context) ([]message.Prompt, error) {
	result, err := c.request(ctx, protocol.MethodListPrompts)
	if err != nil {
		return nil, err
	}

	prompts, err := message.ParsePrompts(result)
	if err != nil {
		return nil, err
	}

	c.log.Debug("Listed prompts", "count", len(prompts))

	return prompts, nil
}

// request issues a parameterless call once the transport is running.
func (c *Client) request(ctx context.Context, method string) (json.RawMessage, error) {
	c.mu.Lock()
	session := c.session
	started := c.started
	closed := c.closed
	c.mu.Unlock()

	switch {
	case closed:
		return nil, errors.NewTransportClosedError("client closed")
	case !started:
		return nil, errors.NewTransportClosedError("transport not started")
	}

	return session.Request(ctx, method)
}

// ServerInfo returns the result of a successful Initialize.
// Returns nil if not initialized.
func (c *Client) ServerInfo() *message.InitializeResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.initResult
}

// Close stops the controller, failing any pending calls, and terminates the
// server process.
//
// After Close(), the client cannot be reused - create a new client with New().
// This method is safe to call multiple times, including after a failed start.
func (c *Client) Close() error {
	var closeErr error

	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		wasStarted := c.started
		c.started = false
		c.mu.Unlock()

		if !wasStarted {
			return
		}

		c.log.Info("Closing client")

		// Stop protocol controller
		c.controller.Stop()
		c.cancel()

		// Close transport and capture error
		closeErr = c.transport.Close()

		c.log.Info("Client closed")
	})

	return closeErr
}

func serverName(res *message.InitializeResult) string {
	if res.ServerInfo == nil {
		return ""
	}

	return res.ServerInfo.Name
}
