package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/Taylor002/OpenMetadata/internal/config"
	"github.com/Taylor002/OpenMetadata/internal/mcp"
	"github.com/Taylor002/OpenMetadata/internal/message"
)

// ServiceTypeMcp is the service type of every MCP service.
const ServiceTypeMcp = "Mcp"

// ServiceConnection wraps the server configuration the way service
// connections are stored.
type ServiceConnection struct {
	Config *ConnectionConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// ConnectionConfig is the typed MCP connection.
type ConnectionConfig struct {
	Type   string                 `json:"type"             yaml:"type"`
	Config *mcp.StdioServerConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// CreateMcpServiceRequest creates or updates an MCP service.
type CreateMcpServiceRequest struct {
	Name               string            `json:"name"                         yaml:"name"`
	ServiceType        string            `json:"serviceType"                  yaml:"serviceType"`
	Connection         ServiceConnection `json:"connection"                   yaml:"connection"`
	ServerInstructions string            `json:"serverInstructions,omitempty" yaml:"serverInstructions,omitempty"`
	AvailableTools     []McpTool         `json:"availableTools,omitempty"     yaml:"availableTools,omitempty"`
	AvailableResources []McpResource     `json:"availableResources,omitempty" yaml:"availableResources,omitempty"`
	AvailablePrompts   []McpPrompt       `json:"availablePrompts,omitempty"   yaml:"availablePrompts,omitempty"`
}

// McpTool is a tool as stored on the service.
type McpTool struct {
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category,omitempty"    yaml:"category,omitempty"`
	InputSchema string `json:"inputSchema,omitempty" yaml:"inputSchema,omitempty"`
}

// McpResource is a resource as stored on the service.
type McpResource struct {
	URI         string `json:"uri"                   yaml:"uri"`
	Name        string `json:"name,omitempty"        yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"    yaml:"mimeType,omitempty"`
}

// McpPrompt is a prompt as stored on the service.
type McpPrompt struct {
	Name        string              `json:"name"                  yaml:"name"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Arguments   []McpPromptArgument `json:"arguments,omitempty"   yaml:"arguments,omitempty"`
}

// McpPromptArgument is one argument of an McpPrompt.
type McpPromptArgument struct {
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty"    yaml:"required,omitempty"`
}

// CreateMcpToolRequest creates a tool entity under a service.
type CreateMcpToolRequest struct {
	McpTool `yaml:",inline"`

	Service string `json:"service" yaml:"service"`
}

// CreateMcpResourceRequest creates a resource entity under a service.
type CreateMcpResourceRequest struct {
	McpResource `yaml:",inline"`

	Service string `json:"service" yaml:"service"`
}

// CreateMcpPromptRequest creates a prompt entity under a service.
type CreateMcpPromptRequest struct {
	McpPrompt `yaml:",inline"`

	Service string `json:"service" yaml:"service"`
}

// MappingError records a record that could not be turned into a request.
type MappingError struct {
	Name string
	Err  error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map %s: %v", e.Name, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// Requests are the create requests built from one collection.
type Requests struct {
	Service   *CreateMcpServiceRequest   `json:"service"   yaml:"service"`
	Tools     []CreateMcpToolRequest     `json:"tools"     yaml:"tools"`
	Resources []CreateMcpResourceRequest `json:"resources" yaml:"resources"`
	Prompts   []CreateMcpPromptRequest   `json:"prompts"   yaml:"prompts"`
	Errors    []*MappingError            `json:"-"         yaml:"-"`
}

// BuildRequests maps collected metadata to create requests for the service
// named serviceName. A record that fails to map is skipped and reported in
// Requests.Errors; the remaining records are still mapped.
func BuildRequests(serviceName string, conn *config.Connection, md *Metadata) *Requests {
	service := &CreateMcpServiceRequest{
		Name:        serviceName,
		ServiceType: ServiceTypeMcp,
		Connection:  serviceConnection(conn),
	}

	if md.Server != nil {
		service.ServerInstructions = md.Server.Instructions
	}

	reqs := &Requests{Service: service}

	for i := range md.Tools {
		tool, err := mapTool(&md.Tools[i])
		if err != nil {
			reqs.Errors = append(reqs.Errors, &MappingError{Name: md.Tools[i].Name, Err: err})

			continue
		}

		service.AvailableTools = append(service.AvailableTools, tool)
		reqs.Tools = append(reqs.Tools, CreateMcpToolRequest{McpTool: tool, Service: serviceName})
	}

	for _, r := range md.Resources {
		resource := mapResource(r)

		service.AvailableResources = append(service.AvailableResources, resource)
		reqs.Resources = append(reqs.Resources, CreateMcpResourceRequest{McpResource: resource, Service: serviceName})
	}

	for _, p := range md.Prompts {
		prompt := mapPrompt(p)

		service.AvailablePrompts = append(service.AvailablePrompts, prompt)
		reqs.Prompts = append(reqs.Prompts, CreateMcpPromptRequest{McpPrompt: prompt, Service: serviceName})
	}

	return reqs
}

func serviceConnection(conn *config.Connection) ServiceConnection {
	if conn == nil || conn.Config == nil {
		return ServiceConnection{}
	}

	return ServiceConnection{Config: &ConnectionConfig{Type: ServiceTypeMcp, Config: conn.Config}}
}

// mapTool serializes the input schema after checking it is a valid JSON Schema.
func mapTool(t *message.Tool) (McpTool, error) {
	tool := McpTool{
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
	}

	schema, err := t.Schema()
	if err != nil {
		return McpTool{}, err
	}

	if schema == nil {
		return tool, nil
	}

	if _, err := schema.Resolve(nil); err != nil {
		return McpTool{}, fmt.Errorf("resolve input schema: %w", err)
	}

	data, err := json.Marshal(t.InputSchema)
	if err != nil {
		return McpTool{}, fmt.Errorf("encode input schema: %w", err)
	}

	tool.InputSchema = string(data)

	return tool, nil
}

func mapResource(r message.Resource) McpResource {
	name := r.Name
	if name == "" {
		name = r.URI
	}

	return McpResource{
		URI:         r.URI,
		Name:        name,
		Description: r.Description,
		MimeType:    r.MimeType,
	}
}

func mapPrompt(p message.Prompt) McpPrompt {
	prompt := McpPrompt{Name: p.Name, Description: p.Description}

	for _, a := range p.Arguments {
		prompt.Arguments = append(prompt.Arguments, McpPromptArgument{
			Name:        a.Name,
			Description: a.Description,
			Required:    a.Required,
		})
	}

	return prompt
}
