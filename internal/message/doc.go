// Package message provides the value records decoded from MCP responses.
//
// Records are built once from a single result payload and never mutated.
// Decoders validate the fields a record cannot exist without and report
// anything else missing as a MalformedResponseError naming the method and
// the field.
package message
