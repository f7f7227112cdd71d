package mcpclient

import "github.com/Taylor002/OpenMetadata/internal/errors"

// Re-export error types from internal package

// MCPClientError is the marker interface implemented by every client error.
type MCPClientError = errors.MCPClientError

// ProcessStartError indicates the server process could not be spawned.
type ProcessStartError = errors.ProcessStartError

// TransportClosedError indicates the transport closed while a call was pending
// or before it was started.
type TransportClosedError = errors.TransportClosedError

// RequestTimeoutError indicates no response arrived within the request timeout.
type RequestTimeoutError = errors.RequestTimeoutError

// ProtocolError carries the error member of a JSON-RPC response verbatim.
type ProtocolError = errors.ProtocolError

// MalformedResponseError indicates a result lacked a required field.
type MalformedResponseError = errors.MalformedResponseError

// UnsupportedTransportError is returned by clients for transports not yet implemented.
type UnsupportedTransportError = errors.UnsupportedTransportError

// ProcessError indicates the server process exited with a failure.
type ProcessError = errors.ProcessError

// Re-export sentinel errors from internal package.
var (
	// ErrTransportClosed matches every TransportClosedError.
	ErrTransportClosed = errors.ErrTransportClosed

	// ErrRequestTimeout matches every RequestTimeoutError.
	ErrRequestTimeout = errors.ErrRequestTimeout

	// ErrUnsupportedTransport matches every UnsupportedTransportError.
	ErrUnsupportedTransport = errors.ErrUnsupportedTransport

	// ErrTransportAlreadyStarted indicates Start was called twice on a transport.
	ErrTransportAlreadyStarted = errors.ErrTransportAlreadyStarted

	// ErrAlreadyInitialized indicates Initialize was called twice.
	ErrAlreadyInitialized = errors.ErrAlreadyInitialized

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.ErrClientClosed
)
