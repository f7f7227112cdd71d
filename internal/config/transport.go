// Package config provides configuration types for the MCP client.
package config

import "context"

// Transport defines the interface for framed communication with an MCP server.
// Implement this to provide custom transports for testing or mocking.
//
// The default implementation is subprocess.StdioTransport, which spawns the
// server as a child process. Custom transports can be injected via
// Options.Transport.
type Transport interface {
	// Start spawns or connects the underlying channel.
	// This is called before any messages are sent or received.
	Start(ctx context.Context) error

	// ReadMessages returns channels for receiving raw inbound lines and errors.
	// Both channels are closed when the inbound stream ends.
	// It must only be called once per transport.
	ReadMessages(ctx context.Context) (<-chan []byte, <-chan error)

	// SendMessage writes one JSON message; a trailing newline is appended if missing.
	// This method must be safe for concurrent use.
	SendMessage(ctx context.Context, data []byte) error

	// Close terminates the transport and releases resources.
	// It's safe to call Close multiple times.
	Close() error

	// IsReady returns true if the transport is ready for communication.
	IsReady() bool
}
