package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Taylor002/OpenMetadata/internal/mcp"
)

func TestParseConnection_Stdio(t *testing.T) {
	doc := []byte(`
config:
  command: npx
  args: ["-y", "@modelcontextprotocol/server-everything"]
  env:
    NODE_ENV: test
  cwd: /srv/mcp
requestTimeout: 45s
`)

	conn, err := ParseConnection(doc)
	require.NoError(t, err)
	require.Equal(t, 45*time.Second, conn.RequestTimeout)

	server, err := conn.ServerConfig()
	require.NoError(t, err)

	stdio, ok := server.(*mcp.StdioServerConfig)
	require.True(t, ok)
	require.Equal(t, "npx", stdio.Command)
	require.Equal(t, []string{"-y", "@modelcontextprotocol/server-everything"}, stdio.Args)
	require.Equal(t, map[string]string{"NODE_ENV": "test"}, stdio.Env)
	require.Equal(t, "/srv/mcp", stdio.Cwd)
}

func TestParseConnection_SSE(t *testing.T) {
	conn, err := ParseConnection([]byte("transport: sse\nurl: http://localhost:8080/sse\n"))
	require.NoError(t, err)

	server, err := conn.ServerConfig()
	require.NoError(t, err)
	require.Equal(t, mcp.ServerTypeSSE, server.GetType())
}

func TestConnection_ServerConfigErrors(t *testing.T) {
	t.Run("stdio without config", func(t *testing.T) {
		_, err := (&Connection{}).ServerConfig()
		require.ErrorIs(t, err, mcp.ErrMissingCommand)
	})

	t.Run("sse without url", func(t *testing.T) {
		_, err := (&Connection{Transport: "sse"}).ServerConfig()
		require.ErrorIs(t, err, mcp.ErrMissingURL)
	})

	t.Run("unknown transport", func(t *testing.T) {
		_, err := (&Connection{Transport: "grpc"}).ServerConfig()
		require.Error(t, err)
	})
}

func TestParseConnection_InvalidYAML(t *testing.T) {
	_, err := ParseConnection([]byte("config: [unterminated"))
	require.Error(t, err)
}

func TestLoadConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config:\n  command: ./server\n"), 0o600))

	conn, err := LoadConnection(path)
	require.NoError(t, err)
	require.Equal(t, "./server", conn.Config.Command)

	_, err = LoadConnection(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestOverridesFromEnv(t *testing.T) {
	t.Setenv("MCP_COMMAND", "/usr/local/bin/mcp-server")
	t.Setenv("MCP_REQUEST_TIMEOUT", "5s")
	t.Setenv("MCP_LOG_LEVEL", "debug")

	overrides, err := OverridesFromEnv()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, overrides.Level())

	conn := &Connection{Config: &mcp.StdioServerConfig{Command: "npx", Args: []string{"server"}}}
	overrides.Apply(conn)

	require.Equal(t, "/usr/local/bin/mcp-server", conn.Config.Command)
	require.Equal(t, []string{"server"}, conn.Config.Args)
	require.Equal(t, 5*time.Second, conn.RequestTimeout)
}

func TestOverrides_ApplyCreatesConfig(t *testing.T) {
	conn := &Connection{}
	(&Overrides{Cwd: "/tmp"}).Apply(conn)

	require.NotNil(t, conn.Config)
	require.Equal(t, "/tmp", conn.Config.Cwd)
}

func TestOverrides_Level(t *testing.T) {
	require.Equal(t, slog.LevelWarn, (&Overrides{LogLevel: "WARN"}).Level())
	require.Equal(t, slog.LevelInfo, (&Overrides{LogLevel: "chatty"}).Level())
	require.Equal(t, slog.LevelInfo, (*Overrides)(nil).Level())
}

func TestOptionsDefaults(t *testing.T) {
	var nilOpts *Options

	require.Equal(t, DefaultRequestTimeout, nilOpts.GetRequestTimeout())
	require.Equal(t, DefaultTerminateTimeout, nilOpts.GetTerminateTimeout())
	require.Equal(t, DefaultProtocolVersion, nilOpts.GetProtocolVersion())
	require.Equal(t, "OpenMetadata", nilOpts.GetClientInfo().Name)

	opts := &Options{RequestTimeout: time.Second, ProtocolVersion: "2025-06-18"}
	require.Equal(t, time.Second, opts.GetRequestTimeout())
	require.Equal(t, "2025-06-18", opts.GetProtocolVersion())
}
