package mcpclient

import "github.com/Taylor002/OpenMetadata/internal/config"

// Transport defines the interface for exchanging newline-delimited JSON-RPC
// messages with an MCP server.
//
// The client owns the transport's lifecycle: it calls Start before the
// handshake, ReadMessages exactly once, and Close when done. Implement it to
// supply messages from somewhere other than a subprocess (tests, replays).
//
// Inject a custom transport with WithTransport.
type Transport = config.Transport
