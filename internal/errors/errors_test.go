package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProcessStartError(t *testing.T) {
	root := errors.New("executable file not found in $PATH")
	err := &ProcessStartError{Command: "npx", Err: root}

	require.Equal(
		t,
		`failed to start MCP server "npx": executable file not found in $PATH`,
		err.Error(),
	)
	require.ErrorIs(t, err, root)
	require.True(t, err.IsMCPClientError())
}

func TestTransportClosedError(t *testing.T) {
	t.Run("with reason", func(t *testing.T) {
		err := NewTransportClosedError("not started")

		require.Equal(t, "transport closed: not started", err.Error())
		require.ErrorIs(t, err, ErrTransportClosed)
		require.True(t, err.IsMCPClientError())
	})

	t.Run("without reason", func(t *testing.T) {
		err := &TransportClosedError{}

		require.Equal(t, "transport closed", err.Error())
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("list tools: %w", NewTransportClosedError("client closed"))

		require.ErrorIs(t, err, ErrTransportClosed)

		closed, ok := errors.AsType[*TransportClosedError](err)
		require.True(t, ok)
		require.Equal(t, "client closed", closed.Reason)
	})

	t.Run("client closed sentinel", func(t *testing.T) {
		err := fmt.Errorf("initialize: %w", ErrClientClosed)

		require.ErrorIs(t, err, ErrClientClosed)
		require.ErrorIs(t, err, ErrTransportClosed)

		closed, ok := errors.AsType[*TransportClosedError](err)
		require.True(t, ok)
		require.Contains(t, closed.Reason, "single-use")
	})
}

func TestRequestTimeoutError(t *testing.T) {
	err := &RequestTimeoutError{Method: "tools/list", ID: "01J", Timeout: 30 * time.Second}

	require.Equal(t, "request timeout: tools/list (id 01J) after 30s", err.Error())
	require.ErrorIs(t, err, ErrRequestTimeout)
	require.NotErrorIs(t, err, ErrTransportClosed)
	require.True(t, err.IsMCPClientError())
}

func TestProtocolError(t *testing.T) {
	t.Run("json-rpc error object", func(t *testing.T) {
		err := &ProtocolError{
			Method:  "tools/list",
			Payload: json.RawMessage(`{"code":-32601,"message":"Method not found"}`),
		}

		require.Equal(
			t,
			`MCP server error for tools/list: {"code":-32601,"message":"Method not found"}`,
			err.Error(),
		)

		code, ok := err.Code()
		require.True(t, ok)
		require.Equal(t, -32601, code)
		require.Equal(t, "Method not found", err.Message())
		require.True(t, err.IsMCPClientError())
	})

	t.Run("opaque payload", func(t *testing.T) {
		err := &ProtocolError{Method: "initialize", Payload: json.RawMessage(`"boom"`)}

		_, ok := err.Code()
		require.False(t, ok)
		require.Equal(t, `"boom"`, err.Message())
	})
}

func TestMalformedResponseError(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		err := &MalformedResponseError{Method: "tools/list", Field: "tools"}

		require.Equal(t, "malformed tools/list response: missing tools", err.Error())
		require.NoError(t, err.Unwrap())
		require.True(t, err.IsMCPClientError())
	})

	t.Run("with cause", func(t *testing.T) {
		root := errors.New("cannot unmarshal number")
		err := &MalformedResponseError{Method: "prompts/list", Field: "prompts[0]", Err: root}

		require.Equal(t, "malformed prompts/list response: prompts[0]: cannot unmarshal number", err.Error())
		require.ErrorIs(t, err, root)
	})
}

func TestUnsupportedTransportError(t *testing.T) {
	err := &UnsupportedTransportError{Transport: "sse"}

	require.Equal(t, "sse MCP client not yet implemented", err.Error())
	require.ErrorIs(t, err, ErrUnsupportedTransport)
	require.True(t, err.IsMCPClientError())
}

func TestProcessError_WithUnderlyingError(t *testing.T) {
	root := errors.New("signal: killed")
	err := &ProcessError{
		ExitCode: -1,
		Stderr:   "ignored when Err is set",
		Err:      root,
	}

	require.Equal(t, "MCP server process failed (exit -1): signal: killed", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsMCPClientError())
}

func TestProcessError_WithStderrOnly(t *testing.T) {
	err := &ProcessError{
		ExitCode: 2,
		Stderr:   "module not found",
	}

	require.Equal(t, "MCP server process failed (exit 2): module not found", err.Error())
	require.NoError(t, err.Unwrap())
}
