package message

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Taylor002/OpenMetadata/internal/errors"
)

// ParseInitializeResult decodes the result of initialize.
//
// protocolVersion defaults to DefaultProtocolVersion when absent. serverInfo
// and capabilities are optional but must be objects when present.
func ParseInitializeResult(result json.RawMessage) (*InitializeResult, error) {
	data, err := decodeObject(MethodInitialize, result)
	if err != nil {
		return nil, err
	}

	res := &InitializeResult{ProtocolVersion: DefaultProtocolVersion}

	if version, ok := data["protocolVersion"].(string); ok && version != "" {
		res.ProtocolVersion = version
	}

	if raw, present := data["serverInfo"]; present && raw != nil {
		info, err := parseImplementation(raw)
		if err != nil {
			return nil, &errors.MalformedResponseError{Method: MethodInitialize, Field: "serverInfo", Err: err}
		}

		res.ServerInfo = info
	}

	if raw, present := data["capabilities"]; present && raw != nil {
		capabilities, ok := raw.(map[string]any)
		if !ok {
			return nil, &errors.MalformedResponseError{
				Method: MethodInitialize,
				Field:  "capabilities",
				Err:    fmt.Errorf("expected object, got %T", raw),
			}
		}

		res.Capabilities = capabilities
	}

	if instructions, ok := data["instructions"].(string); ok {
		res.Instructions = instructions
	}

	return res, nil
}

// ParseTools decodes the result of tools/list.
func ParseTools(result json.RawMessage) ([]Tool, error) {
	items, err := decodeList(MethodListTools, "tools", result)
	if err != nil {
		return nil, err
	}

	tools := make([]Tool, 0, len(items))

	for i, item := range items {
		tool, err := parseTool(item)
		if err != nil {
			return nil, wrapItemError(MethodListTools, "tools", i, err)
		}

		tools = append(tools, tool)
	}

	return tools, nil
}

// ParseResources decodes the result of resources/list.
func ParseResources(result json.RawMessage) ([]Resource, error) {
	items, err := decodeList(MethodListResources, "resources", result)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(items))

	for i, item := range items {
		resource, err := parseResource(item)
		if err != nil {
			return nil, wrapItemError(MethodListResources, "resources", i, err)
		}

		resources = append(resources, resource)
	}

	return resources, nil
}

// ParsePrompts decodes the result of prompts/list.
func ParsePrompts(result json.RawMessage) ([]Prompt, error) {
	items, err := decodeList(MethodListPrompts, "prompts", result)
	if err != nil {
		return nil, err
	}

	prompts := make([]Prompt, 0, len(items))

	for i, item := range items {
		prompt, err := parsePrompt(item)
		if err != nil {
			return nil, wrapItemError(MethodListPrompts, "prompts", i, err)
		}

		prompts = append(prompts, prompt)
	}

	return prompts, nil
}

// fieldError names a record field that is missing or has the wrong type.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.field, e.err)
	}

	return "missing " + e.field
}

func wrapItemError(method, list string, index int, err error) error {
	fe, ok := err.(*fieldError)
	if !ok {
		return &errors.MalformedResponseError{Method: method, Field: fmt.Sprintf("%s[%d]", list, index), Err: err}
	}

	return &errors.MalformedResponseError{
		Method: method,
		Field:  fmt.Sprintf("%s[%d].%s", list, index, fe.field),
		Err:    fe.err,
	}
}

// decodeObject decodes a result that must be a JSON object.
func decodeObject(method string, result json.RawMessage) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(result, &data); err != nil {
		return nil, &errors.MalformedResponseError{Method: method, Field: "result", Err: err}
	}

	if data == nil {
		return nil, &errors.MalformedResponseError{Method: method, Field: "result"}
	}

	return data, nil
}

// decodeList extracts the array member named field from a listing result.
func decodeList(method, field string, result json.RawMessage) ([]map[string]any, error) {
	data, err := decodeObject(method, result)
	if err != nil {
		return nil, err
	}

	raw, present := data[field]
	if !present || raw == nil {
		return nil, &errors.MalformedResponseError{Method: method, Field: field}
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, &errors.MalformedResponseError{
			Method: method,
			Field:  field,
			Err:    fmt.Errorf("expected array, got %T", raw),
		}
	}

	items := make([]map[string]any, 0, len(list))

	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &errors.MalformedResponseError{
				Method: method,
				Field:  fmt.Sprintf("%s[%d]", field, i),
				Err:    fmt.Errorf("expected object, got %T", item),
			}
		}

		items = append(items, obj)
	}

	return items, nil
}

// parseTool parses a Tool. name is required.
func parseTool(data map[string]any) (Tool, error) {
	name, err := requiredString(data, "name")
	if err != nil {
		return Tool{}, err
	}

	tool := Tool{
		Name:        name,
		Description: optionalString(data, "description"),
		Category:    optionalString(data, "category"),
	}

	// Accept the snake_case spelling some servers emit.
	schema, present := data["inputSchema"]
	if !present {
		schema, present = data["input_schema"]
	}

	if present && schema != nil {
		obj, ok := schema.(map[string]any)
		if !ok {
			return Tool{}, &fieldError{field: "inputSchema", err: fmt.Errorf("expected object, got %T", schema)}
		}

		tool.InputSchema = obj
	}

	return tool, nil
}

// parseResource parses a Resource. uri and name are required.
func parseResource(data map[string]any) (Resource, error) {
	uri, err := requiredString(data, "uri")
	if err != nil {
		return Resource{}, err
	}

	name, err := requiredString(data, "name")
	if err != nil {
		return Resource{}, err
	}

	mimeType := optionalString(data, "mimeType")
	if mimeType == "" {
		mimeType = optionalString(data, "mime_type")
	}

	return Resource{
		URI:         uri,
		Name:        name,
		Description: optionalString(data, "description"),
		MimeType:    mimeType,
	}, nil
}

// parsePrompt parses a Prompt. name is required.
//
// arguments may be the standard list of argument objects or an object keyed
// by argument name; the latter is returned sorted by name.
func parsePrompt(data map[string]any) (Prompt, error) {
	name, err := requiredString(data, "name")
	if err != nil {
		return Prompt{}, err
	}

	prompt := Prompt{
		Name:        name,
		Description: optionalString(data, "description"),
	}

	switch args := data["arguments"].(type) {
	case nil:
	case []any:
		prompt.Arguments = make([]PromptArgument, 0, len(args))

		for i, item := range args {
			obj, ok := item.(map[string]any)
			if !ok {
				return Prompt{}, &fieldError{
					field: fmt.Sprintf("arguments[%d]", i),
					err:   fmt.Errorf("expected object, got %T", item),
				}
			}

			argName, err := requiredString(obj, "name")
			if err != nil {
				return Prompt{}, &fieldError{field: fmt.Sprintf("arguments[%d].name", i), err: err.(*fieldError).err}
			}

			prompt.Arguments = append(prompt.Arguments, PromptArgument{
				Name:        argName,
				Description: optionalString(obj, "description"),
				Required:    optionalBool(obj, "required"),
			})
		}
	case map[string]any:
		prompt.Arguments = make([]PromptArgument, 0, len(args))

		for _, argName := range slices.Sorted(maps.Keys(args)) {
			arg := PromptArgument{Name: argName}

			if obj, ok := args[argName].(map[string]any); ok {
				arg.Description = optionalString(obj, "description")
				arg.Required = optionalBool(obj, "required")
			}

			prompt.Arguments = append(prompt.Arguments, arg)
		}
	default:
		return Prompt{}, &fieldError{field: "arguments", err: fmt.Errorf("expected array or object, got %T", args)}
	}

	return prompt, nil
}

// parseImplementation parses a serverInfo object.
func parseImplementation(raw any) (*sdkmcp.Implementation, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", raw)
	}

	return &sdkmcp.Implementation{
		Name:    optionalString(obj, "name"),
		Title:   optionalString(obj, "title"),
		Version: optionalString(obj, "version"),
	}, nil
}

func requiredString(data map[string]any, key string) (string, error) {
	raw, present := data[key]
	if !present || raw == nil {
		return "", &fieldError{field: key}
	}

	s, ok := raw.(string)
	if !ok {
		return "", &fieldError{field: key, err: fmt.Errorf("expected string, got %T", raw)}
	}

	if s == "" {
		return "", &fieldError{field: key, err: fmt.Errorf("empty string")}
	}

	return s, nil
}

func optionalString(data map[string]any, key string) string {
	s, _ := data[key].(string)

	return s
}

func optionalBool(data map[string]any, key string) bool {
	b, _ := data[key].(bool)

	return b
}
