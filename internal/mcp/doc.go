// Package mcp describes how to reach an MCP server.
//
// A ServerConfig is either a StdioServerConfig, which names a command to spawn
// and speak JSON-RPC with over its stdin/stdout, or an SSEServerConfig, which
// names an event-stream endpoint. Only the stdio variant is backed by a working
// client; the SSE variant exists so callers can select it and receive a clear
// unsupported-transport error.
package mcp
