package message

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCP methods whose results are decoded here.
const (
	MethodInitialize    = "initialize"
	MethodListTools     = "tools/list"
	MethodListResources = "resources/list"
	MethodListPrompts   = "prompts/list"
)

// DefaultProtocolVersion is assumed when the server omits protocolVersion.
const DefaultProtocolVersion = "1.0.0"

// InitializeParams is the params object of the initialize request.
type InitializeParams struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	ClientInfo      *sdkmcp.Implementation `json:"clientInfo"`
}

// InitializeResult describes the server as reported by initialize.
type InitializeResult struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	ServerInfo      *sdkmcp.Implementation `json:"serverInfo,omitempty"`
	Capabilities    map[string]any         `json:"capabilities,omitempty"`
	Instructions    string                 `json:"instructions,omitempty"`
}

// HasCapability reports whether the server advertised the named capability.
func (r *InitializeResult) HasCapability(name string) bool {
	if r == nil || r.Capabilities == nil {
		return false
	}

	_, ok := r.Capabilities[name]

	return ok
}

// Tool is a callable operation exposed by the server.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// Schema decodes InputSchema as a JSON Schema. A tool without an input
// schema yields nil.
func (t *Tool) Schema() (*jsonschema.Schema, error) {
	if len(t.InputSchema) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(t.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal input schema of %s: %w", t.Name, err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode input schema of %s: %w", t.Name, err)
	}

	return &schema, nil
}

// Resource is a readable piece of data exposed by the server.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Prompt is a reusable prompt template exposed by the server.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument is one parameter of a Prompt.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}
