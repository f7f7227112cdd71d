package mcpclient

import (
	"log/slog"
	"maps"
	"time"

	"github.com/Taylor002/OpenMetadata/internal/mcp"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// stdioServer returns the stdio server config being built, replacing any
// other server kind.
func stdioServer(o *Options) *mcp.StdioServerConfig {
	server, ok := o.Server.(*mcp.StdioServerConfig)
	if !ok || server == nil {
		server = &mcp.StdioServerConfig{}
		o.Server = server
	}

	return server
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// ===== Server Process =====

// WithCommand sets the executable that runs the MCP server and its arguments.
func WithCommand(command string, args ...string) Option {
	return func(o *Options) {
		server := stdioServer(o)
		server.Command = command

		if len(args) > 0 {
			server.Args = args
		}
	}
}

// WithArgs replaces the server's command line arguments.
func WithArgs(args ...string) Option {
	return func(o *Options) {
		stdioServer(o).Args = args
	}
}

// WithEnv adds environment variables for the server process.
// They are overlaid on the inherited environment; later calls win.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		server := stdioServer(o)
		if server.Env == nil {
			server.Env = make(map[string]string, len(env))
		}

		maps.Copy(server.Env, env)
	}
}

// WithCwd sets the working directory for the server process.
func WithCwd(cwd string) Option {
	return func(o *Options) {
		stdioServer(o).Cwd = cwd
	}
}

// WithStderr sets a callback invoked with every stderr line of the server.
func WithStderr(handler func(string)) Option {
	return func(o *Options) {
		o.Stderr = handler
	}
}

// WithTerminateTimeout sets how long Close waits for the server to exit
// before killing it. Defaults to 5 seconds.
func WithTerminateTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.TerminateTimeout = timeout
	}
}

// ===== Protocol =====

// WithRequestTimeout bounds the wait for each response. Defaults to 30 seconds.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.RequestTimeout = timeout
	}
}

// WithClientInfo sets the clientInfo sent with initialize.
func WithClientInfo(name, version string) Option {
	return func(o *Options) {
		o.ClientInfo = &Implementation{Name: name, Version: version}
	}
}

// WithProtocolVersion sets the protocolVersion sent with initialize.
func WithProtocolVersion(version string) Option {
	return func(o *Options) {
		o.ProtocolVersion = version
	}
}

// ===== Alternate Transports =====

// WithSSE selects the event-stream transport. The resulting client reports
// UnsupportedTransportError from every method.
func WithSSE(url string, headers map[string]string) Option {
	return func(o *Options) {
		o.Server = &mcp.SSEServerConfig{URL: url, Headers: headers}
	}
}

// WithConnection configures the server from a service-connection document.
// An incomplete stdio config surfaces as an error from Initialize.
func WithConnection(conn *Connection) Option {
	return func(o *Options) {
		if conn == nil {
			return
		}

		if serverType, err := mcp.ParseServerType(conn.Transport); err == nil && serverType == mcp.ServerTypeSSE {
			o.Server = &mcp.SSEServerConfig{URL: conn.URL, Headers: conn.Headers}
		} else if conn.Config != nil {
			o.Server = conn.Config
		} else {
			o.Server = &mcp.StdioServerConfig{}
		}

		if conn.RequestTimeout > 0 {
			o.RequestTimeout = conn.RequestTimeout
		}
	}
}

// WithTransport injects a custom transport, bypassing subprocess creation.
func WithTransport(transport Transport) Option {
	return func(o *Options) {
		o.Transport = transport
	}
}
