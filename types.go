package mcpclient

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Taylor002/OpenMetadata/internal/config"
	"github.com/Taylor002/OpenMetadata/internal/mcp"
	"github.com/Taylor002/OpenMetadata/internal/message"
)

// Re-export types from internal packages

// ===== Options and Configuration =====

// Options configures the behavior of the MCP client.
type Options = config.Options

// Connection is the service-connection document of an MCP service.
type Connection = config.Connection

// LoadConnection reads a YAML connection document from path.
var LoadConnection = config.LoadConnection

// ServerConfig describes an MCP server to connect to.
type ServerConfig = mcp.ServerConfig

// StdioServerConfig describes a server spawned as a local subprocess.
type StdioServerConfig = mcp.StdioServerConfig

// SSEServerConfig describes a server reached over an event stream.
type SSEServerConfig = mcp.SSEServerConfig

// ===== Protocol Records =====

// Implementation names a client or server and its version.
type Implementation = sdkmcp.Implementation

// InitializeResult is the decoded result of the initialize handshake.
type InitializeResult = message.InitializeResult

// Tool is a tool exposed by an MCP server.
type Tool = message.Tool

// Resource is a resource exposed by an MCP server.
type Resource = message.Resource

// Prompt is a prompt template exposed by an MCP server.
type Prompt = message.Prompt

// PromptArgument is one argument of a Prompt.
type PromptArgument = message.PromptArgument

const (
	// DefaultProtocolVersion is sent in the initialize request.
	DefaultProtocolVersion = config.DefaultProtocolVersion

	// DefaultRequestTimeout bounds the wait for any single response.
	DefaultRequestTimeout = config.DefaultRequestTimeout
)
