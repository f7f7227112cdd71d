// Package errors defines error types for the MCP client.
//
// This package provides structured error types for each failure scenario when
// talking to an MCP server over a subprocess transport. All error types support
// error unwrapping and can be checked using errors.Is, errors.As, and errors.AsType.
package errors
