package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Taylor002/OpenMetadata/internal/config"
	"github.com/Taylor002/OpenMetadata/internal/errors"
)

// Transport defines the minimal interface needed for protocol operations.
//
// This interface is satisfied by the StdioTransport but allows for testing
// with mock transports.
type Transport interface {
	ReadMessages(ctx context.Context) (<-chan []byte, <-chan error)
	SendMessage(ctx context.Context, data []byte) error
}

// Controller multiplexes concurrent calls over one transport.
//
// The Controller handles:
//   - Sending request envelopes with unique ids
//   - Routing response lines to the waiting call by id
//   - Request timeout enforcement
//   - Failing outstanding calls when stopped or when the transport ends
//
// The Controller must be started with Start() before use and runs a single
// reader loop for its lifetime.
type Controller struct {
	log            *slog.Logger
	transport      Transport
	requestTimeout time.Duration

	// Pending calls keyed by request id. closed rejects new registrations.
	pendingMu sync.RWMutex
	pending   map[string]*pendingCall
	started   bool
	closed    bool

	// Fatal error handling - stores error and broadcasts via done channel
	errMu    sync.RWMutex
	fatalErr error

	// Lifecycle management
	closeOnce sync.Once
	done      chan struct{}
	group     errgroup.Group
}

// pendingCall tracks an outgoing request awaiting a response.
type pendingCall struct {
	method string
	result chan callResult
}

// callResult is delivered to a pendingCall exactly once.
type callResult struct {
	response *Response
	err      error
}

// NewController creates a new protocol controller.
//
// A non-positive requestTimeout selects config.DefaultRequestTimeout. The
// transport must be connected before calling Start().
func NewController(log *slog.Logger, transport Transport, requestTimeout time.Duration) *Controller {
	if requestTimeout <= 0 {
		requestTimeout = config.DefaultRequestTimeout
	}

	return &Controller{
		log:            log.With("component", "protocol"),
		transport:      transport,
		requestTimeout: requestTimeout,
		pending:        make(map[string]*pendingCall, 10),
		done:           make(chan struct{}),
	}
}

// closeDone safely closes the done channel exactly once.
func (c *Controller) closeDone() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// SetFatalError stores a fatal error and shuts the controller down.
func (c *Controller) SetFatalError(err error) {
	c.errMu.Lock()

	if c.fatalErr == nil {
		c.fatalErr = err
	}

	c.errMu.Unlock()

	c.shutdown(err.Error())
}

// FatalError returns the fatal error if one occurred.
func (c *Controller) FatalError() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.fatalErr
}

// Done returns a channel that is closed when the controller stops.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Start begins reading messages from the transport and routing responses.
//
// This method spawns the reader loop. The loop stops when the context is
// cancelled, the transport's stream ends, or Stop is called; in every case
// outstanding calls are failed with a TransportClosedError. Calling Start
// again is a no-op; calling it after Stop fails.
func (c *Controller) Start(ctx context.Context) error {
	c.pendingMu.Lock()

	if c.closed {
		c.pendingMu.Unlock()

		return errors.NewTransportClosedError("controller stopped")
	}

	if c.started {
		c.pendingMu.Unlock()

		return nil
	}

	c.started = true
	c.pendingMu.Unlock()

	c.log.Debug("Starting protocol controller")

	messages, errs := c.transport.ReadMessages(ctx)

	c.group.Go(func() error {
		defer c.shutdown("reader loop stopped")

		return c.readLoop(ctx, messages, errs)
	})

	c.log.Info("Protocol controller started")

	return nil
}

// Stop shuts down the controller.
//
// This method signals the read loop to stop, fails all pending calls, and
// waits for the loop to return. It's safe to call Stop multiple times.
func (c *Controller) Stop() {
	c.log.Debug("Stopping protocol controller")

	c.shutdown("controller stopped")

	if err := c.Wait(); err != nil {
		c.log.Debug("Protocol read loop ended with error", "error", err)
	}

	c.log.Info("Protocol controller stopped")
}

// Wait blocks until the reader loop has returned and reports the transport
// error that ended it, if any.
func (c *Controller) Wait() error {
	return c.group.Wait()
}

// shutdown closes done, rejects new calls, and fails every pending call.
func (c *Controller) shutdown(reason string) {
	c.closeDone()

	c.pendingMu.Lock()
	c.closed = true
	calls := c.pending
	c.pending = make(map[string]*pendingCall)
	c.pendingMu.Unlock()

	for id, call := range calls {
		c.log.Debug("Failing pending call", "request_id", id, "method", call.method, "reason", reason)

		call.result <- callResult{err: errors.NewTransportClosedError(reason)}
	}
}

// Call sends a request and waits for its response.
//
// This method generates a unique request id, registers a pending call,
// writes the request envelope, and blocks until the matching response is
// received, the request timeout expires, the controller stops, or ctx is
// done. Nil params are sent as {}.
//
// The raw result member is returned, {} when absent or null. A response
// carrying an error member fails with a ProtocolError holding the payload
// verbatim. Every exit other than a response removes the pending call.
func (c *Controller) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	requestID := c.generateRequestID()

	req, err := NewRequest(method, requestID, params)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(req)
	if err != nil {
		c.log.Error("Failed to marshal request", "error", err)

		return nil, fmt.Errorf("marshal request: %w", err)
	}

	call := &pendingCall{
		method: method,
		result: make(chan callResult, 1),
	}

	c.pendingMu.Lock()

	switch {
	case c.closed:
		c.pendingMu.Unlock()

		return nil, errors.NewTransportClosedError("controller stopped")
	case !c.started:
		c.pendingMu.Unlock()

		return nil, errors.NewTransportClosedError("controller not started")
	}

	c.pending[requestID] = call
	c.pendingMu.Unlock()

	c.log.Debug("Sending request", "request_id", requestID, "method", method)

	if err := c.transport.SendMessage(ctx, data); err != nil {
		c.removePending(requestID)
		c.log.Error("Failed to send request", "request_id", requestID, "method", method, "error", err)

		return nil, fmt.Errorf("send %s request: %w", method, err)
	}

	timer := time.NewTimer(c.requestTimeout)
	defer timer.Stop()

	select {
	case res := <-call.result:
		if res.err != nil {
			return nil, res.err
		}

		if res.response.IsError() {
			c.log.Warn("Request returned error", "request_id", requestID, "method", method)

			return nil, &errors.ProtocolError{Method: method, Payload: res.response.Error}
		}

		c.log.Debug("Received response", "request_id", requestID, "method", method)

		return res.response.Payload(), nil

	case <-timer.C:
		c.removePending(requestID)
		c.log.Warn("Request timed out", "request_id", requestID, "method", method, "timeout", c.requestTimeout)

		return nil, &errors.RequestTimeoutError{Method: method, ID: requestID, Timeout: c.requestTimeout}

	case <-ctx.Done():
		c.removePending(requestID)
		c.log.Debug("Request cancelled", "request_id", requestID, "method", method)

		return nil, ctx.Err()
	}
}

// PendingCount returns the number of calls awaiting a response.
func (c *Controller) PendingCount() int {
	c.pendingMu.RLock()
	defer c.pendingMu.RUnlock()

	return len(c.pending)
}

func (c *Controller) removePending(requestID string) {
	c.pendingMu.Lock()
	delete(c.pending, requestID)
	c.pendingMu.Unlock()
}

// drainErrors returns the first error already buffered on errs without
// blocking. Transports close errs before messages, so an exit error is
// never behind the end of the stream.
func drainErrors(errs <-chan error) error {
	for errs != nil {
		select {
		case err, ok := <-errs:
			if !ok {
				return nil
			}

			if err != nil {
				return err
			}
		default:
			return nil
		}
	}

	return nil
}

// readLoop reads lines from the transport and routes responses.
func (c *Controller) readLoop(
	ctx context.Context,
	messages <-chan []byte,
	errs <-chan error,
) error {
	defer c.log.Debug("Protocol read loop stopped")

	for {
		select {
		case line, ok := <-messages:
			if !ok {
				c.log.Debug("Message channel closed")

				if err := drainErrors(errs); err != nil {
					c.log.Debug("Transport error in protocol", "error", err)
					c.SetFatalError(err)

					return err
				}

				return c.FatalError()
			}

			c.handleLine(line)

		case err, ok := <-errs:
			if !ok {
				// Keep draining messages until the stream ends.
				errs = nil

				continue
			}

			if err != nil {
				c.log.Debug("Transport error in protocol", "error", err)
				c.SetFatalError(err)

				return err
			}

		case <-c.done:
			c.log.Debug("Protocol controller stop signal received")

			return nil

		case <-ctx.Done():
			c.log.Debug("Context cancelled in protocol read loop")

			return nil
		}
	}
}

// handleLine routes one line to the pending call with the matching id.
func (c *Controller) handleLine(line []byte) {
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		c.log.Warn("Skipping malformed line from MCP server", "error", err, "bytes", len(line))

		return
	}

	requestID, ok := resp.RequestID()
	if !ok {
		c.log.Debug("Dropping message without request id")

		return
	}

	// Find and claim pending call atomically
	c.pendingMu.Lock()

	call, exists := c.pending[requestID]
	if exists {
		delete(c.pending, requestID)
	}

	c.pendingMu.Unlock()

	if !exists {
		c.log.Debug("No pending call for response", "request_id", requestID)

		return
	}

	// We own the call now; the channel is buffered.
	call.result <- callResult{response: &resp}
}

// generateRequestID creates a unique request ID using ULID.
func (c *Controller) generateRequestID() string {
	return ulid.Make().String()
}
