//go:build integration

package integration

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	mcpclient "github.com/Taylor002/OpenMetadata"
)

// serverOptions runs the reference "everything" server, or the command in
// MCP_INTEGRATION_COMMAND.
func serverOptions(extra ...mcpclient.Option) []mcpclient.Option {
	command, args := "npx", []string{"-y", "@modelcontextprotocol/server-everything"}

	if cmd := os.Getenv("MCP_INTEGRATION_COMMAND"); cmd != "" {
		fields := strings.Fields(cmd)
		command, args = fields[0], fields[1:]
	}

	return append([]mcpclient.Option{
		mcpclient.WithCommand(command, args...),
		mcpclient.WithRequestTimeout(60 * time.Second),
	}, extra...)
}

// skipIfServerNotInstalled skips the test if the server executable could not be started.
func skipIfServerNotInstalled(t *testing.T, err error) {
	t.Helper()

	if _, ok := errors.AsType[*mcpclient.ProcessStartError](err); ok {
		t.Skip("MCP server executable not installed")
	}
}
