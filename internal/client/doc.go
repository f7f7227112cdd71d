// Package client implements the MCP clients behind the public Client interface.
//
// Client drives one MCP server subprocess: Initialize spawns the server,
// starts the protocol controller and performs the initialize handshake; the
// List methods issue one call each and decode the result into value records.
// Calls may be issued concurrently and are correlated by id.
//
// SSEClient is the event-stream variant. It is declared so callers can
// select it by configuration, but every method reports an
// UnsupportedTransportError.
package client
