package config

import (
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Taylor002/OpenMetadata/internal/mcp"
)

const (
	// DefaultRequestTimeout bounds the wait for any single response.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultTerminateTimeout is how long Close waits for the server to exit
	// after asking it to stop, before killing it.
	DefaultTerminateTimeout = 5 * time.Second

	// DefaultProtocolVersion is sent in the initialize request.
	DefaultProtocolVersion = "1.0.0"
)

// DefaultClientInfo returns the clientInfo sent in the initialize request.
func DefaultClientInfo() *sdkmcp.Implementation {
	return &sdkmcp.Implementation{Name: "OpenMetadata", Version: "1.0.0"}
}

// Options configures the behavior of the MCP client.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Server describes the MCP server to connect to.
	// A *mcp.StdioServerConfig selects the stdio client,
	// a *mcp.SSEServerConfig selects the (unsupported) event-stream client.
	Server mcp.ServerConfig

	// RequestTimeout bounds the wait for each response.
	// If zero, DefaultRequestTimeout is used.
	RequestTimeout time.Duration

	// TerminateTimeout bounds the graceful shutdown of the server process.
	// If zero, DefaultTerminateTimeout is used.
	TerminateTimeout time.Duration

	// Stderr is a callback function for handling stderr output of the server.
	Stderr func(string)

	// ClientInfo is sent as clientInfo in the initialize request.
	// If nil, DefaultClientInfo() is used.
	ClientInfo *sdkmcp.Implementation

	// ProtocolVersion is sent as protocolVersion in the initialize request.
	// If empty, DefaultProtocolVersion is used.
	ProtocolVersion string

	// Transport allows injecting a custom transport implementation.
	// If nil, the stdio subprocess transport is created from Server.
	// This field is not serialized to JSON.
	Transport Transport `json:"-"`
}

// GetRequestTimeout returns the effective per-request timeout.
func (o *Options) GetRequestTimeout() time.Duration {
	if o == nil || o.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}

	return o.RequestTimeout
}

// GetTerminateTimeout returns the effective graceful shutdown window.
func (o *Options) GetTerminateTimeout() time.Duration {
	if o == nil || o.TerminateTimeout <= 0 {
		return DefaultTerminateTimeout
	}

	return o.TerminateTimeout
}

// GetClientInfo returns the effective clientInfo.
func (o *Options) GetClientInfo() *sdkmcp.Implementation {
	if o == nil || o.ClientInfo == nil {
		return DefaultClientInfo()
	}

	return o.ClientInfo
}

// GetProtocolVersion returns the effective protocol version.
func (o *Options) GetProtocolVersion() string {
	if o == nil || o.ProtocolVersion == "" {
		return DefaultProtocolVersion
	}

	return o.ProtocolVersion
}
