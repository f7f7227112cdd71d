// Package subprocess provides the stdio transport for MCP servers.
//
// This package implements the Transport interface by spawning the MCP server
// as a child process and exchanging newline-delimited JSON over its stdin and
// stdout. It handles process lifecycle management, stderr draining, framing of
// writes, and graceful termination.
package subprocess
