package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MCPClientError is the base interface for all client errors.
type MCPClientError interface {
	error
	IsMCPClientError() bool
}

// Compile-time verification that all error types implement MCPClientError.
var (
	_ MCPClientError = (*ProcessStartError)(nil)
	_ MCPClientError = (*TransportClosedError)(nil)
	_ MCPClientError = (*RequestTimeoutError)(nil)
	_ MCPClientError = (*ProtocolError)(nil)
	_ MCPClientError = (*MalformedResponseError)(nil)
	_ MCPClientError = (*UnsupportedTransportError)(nil)
	_ MCPClientError = (*ProcessError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrTransportClosed matches every TransportClosedError.
	ErrTransportClosed = errors.New("transport closed")

	// ErrRequestTimeout matches every RequestTimeoutError.
	ErrRequestTimeout = errors.New("request timeout")

	// ErrUnsupportedTransport matches every UnsupportedTransportError.
	ErrUnsupportedTransport = errors.New("unsupported transport")

	// ErrTransportAlreadyStarted indicates Start was called twice on one transport.
	ErrTransportAlreadyStarted = errors.New("transport already started")

	// ErrAlreadyInitialized indicates Initialize was called twice on one client.
	ErrAlreadyInitialized = errors.New("client already initialized")

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	// It is a TransportClosedError, so it also matches ErrTransportClosed.
	ErrClientClosed error = &TransportClosedError{Reason: "client closed: clients are single-use, create a new one with NewClient()"}
)

// ProcessStartError indicates the MCP server process could not be spawned.
type ProcessStartError struct {
	Command string
	Err     error
}

func (e *ProcessStartError) Error() string {
	return fmt.Sprintf("failed to start MCP server %q: %v", e.Command, e.Err)
}

func (e *ProcessStartError) Unwrap() error {
	return e.Err
}

// IsMCPClientError implements MCPClientError.
func (e *ProcessStartError) IsMCPClientError() bool { return true }

// TransportClosedError indicates a write or call on a connection that was never
// started or has already been closed. Outstanding calls abandoned at close time
// are failed with this error as well.
type TransportClosedError struct {
	Reason string
}

// NewTransportClosedError returns a TransportClosedError with the given reason.
func NewTransportClosedError(reason string) *TransportClosedError {
	return &TransportClosedError{Reason: reason}
}

func (e *TransportClosedError) Error() string {
	if e.Reason == "" {
		return ErrTransportClosed.Error()
	}

	return fmt.Sprintf("%s: %s", ErrTransportClosed, e.Reason)
}

// Is reports whether target is ErrTransportClosed.
func (e *TransportClosedError) Is(target error) bool {
	return target == ErrTransportClosed
}

// IsMCPClientError implements MCPClientError.
func (e *TransportClosedError) IsMCPClientError() bool { return true }

// RequestTimeoutError indicates no response arrived for a call within its timeout.
// The connection itself stays usable.
type RequestTimeoutError struct {
	Method  string
	ID      string
	Timeout time.Duration
}

func (e *RequestTimeoutError) Error() string {
	return fmt.Sprintf("%s: %s (id %s) after %s", ErrRequestTimeout, e.Method, e.ID, e.Timeout)
}

// Is reports whether target is ErrRequestTimeout.
func (e *RequestTimeoutError) Is(target error) bool {
	return target == ErrRequestTimeout
}

// IsMCPClientError implements MCPClientError.
func (e *RequestTimeoutError) IsMCPClientError() bool { return true }

// ProtocolError indicates the server answered a call with an error envelope.
// Payload is the server's error member, unparsed.
type ProtocolError struct {
	Method  string
	Payload json.RawMessage
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("MCP server error for %s: %s", e.Method, string(e.Payload))
}

// Code returns the JSON-RPC error code when the payload carries one.
func (e *ProtocolError) Code() (int, bool) {
	var body struct {
		Code *int `json:"code"`
	}

	if err := json.Unmarshal(e.Payload, &body); err != nil || body.Code == nil {
		return 0, false
	}

	return *body.Code, true
}

// Message returns the payload's message member, or the raw payload when it has none.
func (e *ProtocolError) Message() string {
	var body struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(e.Payload, &body); err == nil && body.Message != "" {
		return body.Message
	}

	return string(e.Payload)
}

// IsMCPClientError implements MCPClientError.
func (e *ProtocolError) IsMCPClientError() bool { return true }

// MalformedResponseError indicates a response that parsed as JSON but lacked
// fields required by the expected result shape.
type MalformedResponseError struct {
	Method string
	Field  string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s response: %s: %v", e.Method, e.Field, e.Err)
	}

	return fmt.Sprintf("malformed %s response: missing %s", e.Method, e.Field)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsMCPClientError implements MCPClientError.
func (e *MalformedResponseError) IsMCPClientError() bool { return true }

// UnsupportedTransportError is returned by every operation of a transport
// variant that is declared but not implemented.
type UnsupportedTransportError struct {
	Transport string
}

func (e *UnsupportedTransportError) Error() string {
	return fmt.Sprintf("%s MCP client not yet implemented", e.Transport)
}

// Is reports whether target is ErrUnsupportedTransport.
func (e *UnsupportedTransportError) Is(target error) bool {
	return target == ErrUnsupportedTransport
}

// IsMCPClientError implements MCPClientError.
func (e *UnsupportedTransportError) IsMCPClientError() bool { return true }

// ProcessError indicates the MCP server process exited unexpectedly.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("MCP server process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("MCP server process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsMCPClientError implements MCPClientError.
func (e *ProcessError) IsMCPClientError() bool { return true }
