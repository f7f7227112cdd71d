package mcp

import (
	"errors"
	"fmt"
)

// ServerType represents the type of MCP server.
type ServerType string

const (
	// ServerTypeStdio uses stdio for communication.
	ServerTypeStdio ServerType = "stdio"
	// ServerTypeSSE uses Server-Sent Events.
	ServerTypeSSE ServerType = "sse"
)

var (
	// ErrMissingCommand indicates a stdio server config without a command.
	ErrMissingCommand = errors.New("stdio server config requires a command")

	// ErrMissingURL indicates an SSE server config without a URL.
	ErrMissingURL = errors.New("sse server config requires a url")
)

// ServerConfig is the interface for MCP server configurations.
type ServerConfig interface {
	GetType() ServerType
	Validate() error
}

// Compile-time verification that all MCP server config types implement ServerConfig.
var (
	_ ServerConfig = (*StdioServerConfig)(nil)
	_ ServerConfig = (*SSEServerConfig)(nil)
)

// StdioServerConfig configures a stdio-based MCP server.
//
// Env is overlaid on the parent environment; Cwd defaults to the parent's
// working directory when empty.
type StdioServerConfig struct {
	Command string            `json:"command"        yaml:"command"`
	Args    []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"  yaml:"env,omitempty"`
	Cwd     string            `json:"cwd,omitempty"  yaml:"cwd,omitempty"`
}

// GetType implements ServerConfig.
func (m *StdioServerConfig) GetType() ServerType { return ServerTypeStdio }

// Validate implements ServerConfig.
func (m *StdioServerConfig) Validate() error {
	if m.Command == "" {
		return ErrMissingCommand
	}

	return nil
}

// SSEServerConfig configures a Server-Sent Events MCP server.
type SSEServerConfig struct {
	URL     string            `json:"url"               yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// GetType implements ServerConfig.
func (m *SSEServerConfig) GetType() ServerType { return ServerTypeSSE }

// Validate implements ServerConfig.
func (m *SSEServerConfig) Validate() error {
	if m.URL == "" {
		return ErrMissingURL
	}

	return nil
}

// ParseServerType normalizes a configured transport name. An empty name means stdio.
func ParseServerType(s string) (ServerType, error) {
	switch ServerType(s) {
	case "", ServerTypeStdio:
		return ServerTypeStdio, nil
	case ServerTypeSSE:
		return ServerTypeSSE, nil
	default:
		return "", fmt.Errorf("unknown MCP server type %q", s)
	}
}
