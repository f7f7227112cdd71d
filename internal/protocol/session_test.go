package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/Taylor002/OpenMetadata/internal/config"
	"github.com/Taylor002/OpenMetadata/internal/errors"
)

func newTestSession(t *testing.T, options *config.Options) (*Session, *mockTransport) {
	t.Helper()

	controller, transport := newStartedController(t, time.Second)

	return NewSession(slog.Default(), controller, options), transport
}

func TestSession_Initialize_DefaultParams(t *testing.T) {
	session, transport := newTestSession(t, nil)

	done := make(chan error, 1)

	go func() {
		_, err := session.Initialize(context.Background())
		done <- err
	}()

	req := transport.nextRequest(t)
	require.Equal(t, MethodInitialize, req.Method)
	require.JSONEq(t,
		`{"protocolVersion":"1.0.0","clientInfo":{"name":"OpenMetadata","version":"1.0.0"}}`,
		string(req.Params),
	)

	transport.sendToController(fmt.Sprintf(
		`{"id":%q,"result":{"protocolVersion":"1.0.0","serverInfo":{"name":"stub"}}}`, req.ID,
	))

	require.NoError(t, <-done)
	require.True(t, session.Initialized())
	require.JSONEq(t,
		`{"protocolVersion":"1.0.0","serverInfo":{"name":"stub"}}`,
		string(session.InitializationResult()),
	)
}

func TestSession_Initialize_CustomClientInfo(t *testing.T) {
	session, transport := newTestSession(t, &config.Options{
		ProtocolVersion: "2025-06-18",
		ClientInfo:      &sdkmcp.Implementation{Name: "ingest", Version: "2.0.0"},
	})

	done := make(chan error, 1)

	go func() {
		_, err := session.Initialize(context.Background())
		done <- err
	}()

	req := transport.nextRequest(t)

	var params struct {
		ProtocolVersion string                `json:"protocolVersion"`
		ClientInfo      sdkmcp.Implementation `json:"clientInfo"`
	}

	require.NoError(t, json.Unmarshal(req.Params, &params))
	require.Equal(t, "2025-06-18", params.ProtocolVersion)
	require.Equal(t, "ingest", params.ClientInfo.Name)
	require.Equal(t, "2.0.0", params.ClientInfo.Version)

	transport.sendToController(fmt.Sprintf(`{"id":%q,"result":{}}`, req.ID))
	require.NoError(t, <-done)
}

func TestSession_Initialize_Twice(t *testing.T) {
	session, transport := newTestSession(t, nil)

	go func() {
		req := transport.nextRequest(t)
		transport.sendToController(fmt.Sprintf(`{"id":%q,"result":{}}`, req.ID))
	}()

	_, err := session.Initialize(context.Background())
	require.NoError(t, err)

	_, err = session.Initialize(context.Background())
	require.ErrorIs(t, err, errors.ErrAlreadyInitialized)
	require.Len(t, transport.getMessages(), 1, "second initialize must not reach the wire")
}

func TestSession_Initialize_ConcurrentRejected(t *testing.T) {
	session, transport := newTestSession(t, nil)

	first := make(chan error, 1)

	go func() {
		_, err := session.Initialize(context.Background())
		first <- err
	}()

	req := transport.nextRequest(t)

	_, err := session.Initialize(context.Background())
	require.ErrorIs(t, err, errors.ErrAlreadyInitialized)

	transport.sendToController(fmt.Sprintf(`{"id":%q,"result":{}}`, req.ID))
	require.NoError(t, <-first)
}

func TestSession_Initialize_FailureAllowsRetry(t *testing.T) {
	session, transport := newTestSession(t, nil)

	go func() {
		req := transport.nextRequest(t)
		transport.sendToController(fmt.Sprintf(`{"id":%q,"error":{"code":-32602,"message":"bad version"}}`, req.ID))
	}()

	_, err := session.Initialize(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "initialize")
	require.False(t, session.Initialized())
	require.Nil(t, session.InitializationResult())

	go func() {
		req := transport.nextRequest(t)
		transport.sendToController(fmt.Sprintf(`{"id":%q,"result":{}}`, req.ID))
	}()

	_, err = session.Initialize(context.Background())
	require.NoError(t, err)
	require.True(t, session.Initialized())
}

func TestSession_Reset_AllowsRetry(t *testing.T) {
	session, transport := newTestSession(t, nil)

	go func() {
		req := transport.nextRequest(t)
		transport.sendToController(fmt.Sprintf(`{"id":%q,"result":{"serverInfo":"bad"}}`, req.ID))
	}()

	_, err := session.Initialize(context.Background())
	require.NoError(t, err)
	require.True(t, session.Initialized())

	session.Reset()
	require.False(t, session.Initialized())
	require.Nil(t, session.InitializationResult())

	go func() {
		req := transport.nextRequest(t)
		transport.sendToController(fmt.Sprintf(`{"id":%q,"result":{}}`, req.ID))
	}()

	_, err = session.Initialize(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(session.InitializationResult()))
}

func TestSession_Request(t *testing.T) {
	session, transport := newTestSession(t, nil)

	go func() {
		req := transport.nextRequest(t)
		transport.sendToController(fmt.Sprintf(`{"id":%q,"result":{"prompts":[]}}`, req.ID))
	}()

	result, err := session.Request(context.Background(), MethodListPrompts)
	require.NoError(t, err)
	require.JSONEq(t, `{"prompts":[]}`, string(result))
}

// TestSession_InitializationResult_DataRace tests for a data race between
// recording the initialize result and reading it.
// Run with: go test -race -run TestSession_InitializationResult_DataRace.
func TestSession_InitializationResult_DataRace(t *testing.T) {
	session := &Session{log: slog.Default()}

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Go(func() {
			session.initMu.Lock()
			session.initializationResult = json.RawMessage(fmt.Sprintf(`{"n":%d}`, i))
			session.initialized = true
			session.initMu.Unlock()
		})

		wg.Go(func() {
			_ = session.InitializationResult()
			_ = session.Initialized()
		})
	}

	wg.Wait()

	require.True(t, session.Initialized())
}

func TestSession_InitializationResult_ReturnsCopy(t *testing.T) {
	session := &Session{
		log:                  slog.Default(),
		initialized:          true,
		initializationResult: json.RawMessage(`{"a":1}`),
	}

	result := session.InitializationResult()
	result[0] = 'X'

	require.JSONEq(t, `{"a":1}`, string(session.InitializationResult()))
}
