package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Taylor002/OpenMetadata/internal/message"
)

// jsonrpcVersion is the protocol version tag of every request envelope.
const jsonrpcVersion = "2.0"

// MCP methods issued by the client.
const (
	MethodInitialize    = message.MethodInitialize
	MethodListTools     = message.MethodListTools
	MethodListResources = message.MethodListResources
	MethodListPrompts   = message.MethodListPrompts
)

// emptyObject stands in for absent params and absent results.
const emptyObject = `{}`

// Request is an outgoing call.
//
// Wire format:
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/list",
//	  "id": "01J9Z3K6Q4W5R8T2Y7V0X1B3C4",
//	  "params": {}
//	}
type Request struct {
	// JSONRPC is always "2.0"
	JSONRPC string `json:"jsonrpc"`

	// Method is the MCP method name
	Method string `json:"method"`

	// ID uniquely identifies this request for response correlation
	ID string `json:"id"`

	// Params is always a JSON object
	Params json.RawMessage `json:"params"`
}

// NewRequest builds a request envelope. Nil params are sent as {}.
func NewRequest(method, id string, params any) (*Request, error) {
	req := &Request{
		JSONRPC: jsonrpcVersion,
		Method:  method,
		ID:      id,
		Params:  json.RawMessage(emptyObject),
	}

	switch p := params.(type) {
	case nil:
	case json.RawMessage:
		if len(p) > 0 {
			req.Params = p
		}
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal %s params: %w", method, err)
		}

		if !isNull(data) {
			req.Params = data
		}
	}

	return req, nil
}

// Response is an incoming line, decoded only as far as routing needs.
//
// Wire format for success:
//
//	{"id": "01J9Z3K6Q4W5R8T2Y7V0X1B3C4", "result": {...}}
//
// Wire format for error:
//
//	{"id": "01J9Z3K6Q4W5R8T2Y7V0X1B3C4", "error": {"code": -32601, "message": "..."}}
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// RequestID returns the correlation id. Messages without a string id,
// such as notifications, report false.
func (r *Response) RequestID() (string, bool) {
	if len(r.ID) == 0 {
		return "", false
	}

	var id string
	if err := json.Unmarshal(r.ID, &id); err != nil {
		return "", false
	}

	return id, true
}

// IsError checks if the response carries a non-null error member.
func (r *Response) IsError() bool {
	return len(r.Error) > 0 && !isNull(r.Error)
}

// Payload returns the result member, or {} when it is absent or null.
func (r *Response) Payload() json.RawMessage {
	if len(r.Result) == 0 || isNull(r.Result) {
		return json.RawMessage(emptyObject)
	}

	return r.Result
}

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
