package mcpclient

import (
	"context"
)

// Client talks to one MCP server for the duration of one ingestion run.
//
// Initialize must complete before the listing methods are used; listings do
// not re-initialize. The listing methods may be called concurrently; each
// call is correlated by id and fails independently of the others.
//
// Lifecycle: Clients are single-use. After Close(), create a new client with NewClient().
//
// Example usage:
//
//	client := mcpclient.NewClient(
//	    mcpclient.WithCommand("npx", "-y", "@modelcontextprotocol/server-everything"),
//	    mcpclient.WithLogger(slog.Default()),
//	)
//	defer client.Close()
//
//	info, err := client.Initialize(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tools, err := client.ListTools(ctx)
//	if err != nil {
//	    // The connection stays usable; other listings may still succeed.
//	}
type Client interface {
	// Initialize spawns the server and performs the initialize handshake.
	// Returns ProcessStartError if the server cannot be spawned and
	// ErrAlreadyInitialized when called twice.
	Initialize(ctx context.Context) (*InitializeResult, error)

	// ListTools returns the tools exposed by the server.
	// Returns MalformedResponseError if the result lacks required fields.
	ListTools(ctx context.Context) ([]Tool, error)

	// ListResources returns the resources exposed by the server.
	ListResources(ctx context.Context) ([]Resource, error)

	// ListPrompts returns the prompts exposed by the server.
	ListPrompts(ctx context.Context) ([]Prompt, error)

	// Close stops the reader loop, fails pending calls with a
	// TransportClosedError and terminates the server process.
	// It is safe to call multiple times and after a failed Initialize.
	Close() error
}

// NewClient creates a client for the configured server.
//
// A stdio server (WithCommand, WithConnection) selects the subprocess
// client; an event-stream server (WithSSE) selects a client whose every
// method returns UnsupportedTransportError. Nothing is spawned until
// Initialize is called.
func NewClient(opts ...Option) Client {
	return newClientImpl(applyOptions(opts))
}
