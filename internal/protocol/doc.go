// Package protocol implements JSON-RPC request/response correlation over a
// line-oriented MCP transport.
//
// The protocol package provides a Controller that multiplexes concurrent
// calls over one transport. Each call gets a fresh correlation id and a
// pending slot; a single reader loop routes every response line to the slot
// with the matching id.
//
// The Controller handles:
//   - Sending request envelopes with unique ids
//   - Receiving and correlating responses by id, in any order
//   - Request timeout enforcement
//   - Skipping malformed lines and dropping unmatched responses
//   - Failing every outstanding call when the transport goes away
//
// A Session sits on top of a Controller and owns the initialize handshake.
//
// Example usage:
//
//	transport := subprocess.NewStdioTransport(log, server, options)
//	transport.Start(ctx)
//
//	controller := protocol.NewController(log, transport, 30*time.Second)
//	controller.Start(ctx)
//
//	result, err := controller.Call(ctx, protocol.MethodListTools, nil)
package protocol
