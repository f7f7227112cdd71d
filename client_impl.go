package mcpclient

import (
	"github.com/Taylor002/OpenMetadata/internal/client"
	"github.com/Taylor002/OpenMetadata/internal/config"
	"github.com/Taylor002/OpenMetadata/internal/mcp"
)

// Compile-time check that both implementations satisfy the Client interface.
var (
	_ Client = (*client.Client)(nil)
	_ Client = (*client.SSEClient)(nil)
)

// newClientImpl selects the internal client implementation from the server type.
func newClientImpl(options *config.Options) Client {
	if sse, ok := options.Server.(*mcp.SSEServerConfig); ok && options.Transport == nil {
		return client.NewSSE(options.Logger, sse)
	}

	return client.New(options)
}
