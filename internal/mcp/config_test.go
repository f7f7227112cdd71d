package mcp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServerConfigGetType(t *testing.T) {
	require.Equal(t, ServerTypeStdio, (&StdioServerConfig{Command: "npx"}).GetType())
	require.Equal(t, ServerTypeSSE, (&SSEServerConfig{URL: "http://localhost:8080/sse"}).GetType())
}

func TestServerConfigValidate(t *testing.T) {
	t.Run("stdio requires command", func(t *testing.T) {
		require.ErrorIs(t, (&StdioServerConfig{Args: []string{"-y"}}).Validate(), ErrMissingCommand)
		require.NoError(t, (&StdioServerConfig{Command: "npx"}).Validate())
	})

	t.Run("sse requires url", func(t *testing.T) {
		require.ErrorIs(t, (&SSEServerConfig{}).Validate(), ErrMissingURL)
		require.NoError(t, (&SSEServerConfig{URL: "http://localhost:8080/sse"}).Validate())
	})
}

func TestParseServerType(t *testing.T) {
	tests := []struct {
		in      string
		want    ServerType
		wantErr bool
	}{
		{in: "", want: ServerTypeStdio},
		{in: "stdio", want: ServerTypeStdio},
		{in: "sse", want: ServerTypeSSE},
		{in: "websocket", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseServerType(tt.in)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
