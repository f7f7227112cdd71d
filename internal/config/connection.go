package config

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/Taylor002/OpenMetadata/internal/mcp"
)

// Connection is the service-connection document of an MCP service.
//
// Example:
//
//	transport: stdio
//	config:
//	  command: npx
//	  args: ["-y", "@modelcontextprotocol/server-everything"]
//	  env:
//	    NODE_ENV: production
//	requestTimeout: 30s
type Connection struct {
	Transport      string                 `json:"transport,omitempty"      yaml:"transport,omitempty"`
	Config         *mcp.StdioServerConfig `json:"config,omitempty"         yaml:"config,omitempty"`
	URL            string                 `json:"url,omitempty"            yaml:"url,omitempty"`
	Headers        map[string]string      `json:"headers,omitempty"        yaml:"headers,omitempty"`
	RequestTimeout time.Duration          `json:"requestTimeout,omitempty" yaml:"requestTimeout,omitempty"`
}

// Overrides are environment-provided values applied on top of a Connection.
type Overrides struct {
	// Command replaces config.command. ENV: MCP_COMMAND
	Command string `env:"MCP_COMMAND"`
	// Cwd replaces config.cwd. ENV: MCP_CWD
	Cwd string `env:"MCP_CWD"`
	// RequestTimeout replaces requestTimeout. ENV: MCP_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"MCP_REQUEST_TIMEOUT"`
	// LogLevel is one of debug, info, warn, error. ENV: MCP_LOG_LEVEL
	LogLevel string `env:"MCP_LOG_LEVEL,default=info"`
}

// LoadConnection reads a YAML connection document from path.
func LoadConnection(path string) (*Connection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read connection file: %w", err)
	}

	return ParseConnection(data)
}

// ParseConnection decodes a YAML (or JSON) connection document.
func ParseConnection(data []byte) (*Connection, error) {
	var conn Connection

	if err := yaml.Unmarshal(data, &conn); err != nil {
		return nil, fmt.Errorf("decode connection: %w", err)
	}

	return &conn, nil
}

// OverridesFromEnv reads Overrides from the process environment.
func OverridesFromEnv() (*Overrides, error) {
	var o Overrides

	if err := envdecode.Decode(&o); err != nil && !stderrors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if o.LogLevel == "" {
		o.LogLevel = "info"
	}

	return &o, nil
}

// Apply copies every set override into c.
func (o *Overrides) Apply(c *Connection) {
	if o == nil {
		return
	}

	if o.Command != "" || o.Cwd != "" {
		if c.Config == nil {
			c.Config = &mcp.StdioServerConfig{}
		}

		if o.Command != "" {
			c.Config.Command = o.Command
		}

		if o.Cwd != "" {
			c.Config.Cwd = o.Cwd
		}
	}

	if o.RequestTimeout > 0 {
		c.RequestTimeout = o.RequestTimeout
	}
}

// Level parses LogLevel into a slog.Level, defaulting to info.
func (o *Overrides) Level() slog.Level {
	var level slog.Level

	if o == nil || level.UnmarshalText([]byte(strings.ToLower(o.LogLevel))) != nil {
		return slog.LevelInfo
	}

	return level
}

// ServerConfig returns the validated server config selected by Transport.
func (c *Connection) ServerConfig() (mcp.ServerConfig, error) {
	serverType, err := mcp.ParseServerType(c.Transport)
	if err != nil {
		return nil, err
	}

	var server mcp.ServerConfig

	switch serverType {
	case mcp.ServerTypeSSE:
		server = &mcp.SSEServerConfig{URL: c.URL, Headers: c.Headers}
	default:
		if c.Config == nil {
			return nil, mcp.ErrMissingCommand
		}

		server = c.Config
	}

	if err := server.Validate(); err != nil {
		return nil, err
	}

	return server, nil
}
