package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Taylor002/OpenMetadata/internal/config"
	"github.com/Taylor002/OpenMetadata/internal/errors"
	"github.com/Taylor002/OpenMetadata/internal/message"
)

// Session owns the initialize handshake on top of a Controller and routes
// the listing calls that follow it.
type Session struct {
	log        *slog.Logger
	controller *Controller
	options    *config.Options

	// Handshake state (protected by initMu)
	initMu               sync.RWMutex
	initializing         bool
	initialized          bool
	initializationResult json.RawMessage
}

// NewSession creates a new Session for protocol handling.
func NewSession(
	log *slog.Logger,
	controller *Controller,
	options *config.Options,
) *Session {
	return &Session{
		log:        log.With("component", "session"),
		controller: controller,
		options:    options,
	}
}

// Initialize sends the initialize request and records the raw result.
//
// Only one handshake may be in flight or completed per session; a second
// call returns ErrAlreadyInitialized. A failed handshake may be retried.
func (s *Session) Initialize(ctx context.Context) (json.RawMessage, error) {
	s.initMu.Lock()

	if s.initialized || s.initializing {
		s.initMu.Unlock()

		return nil, errors.ErrAlreadyInitialized
	}

	s.initializing = true
	s.initMu.Unlock()

	params := &message.InitializeParams{
		ProtocolVersion: s.options.GetProtocolVersion(),
		ClientInfo:      s.options.GetClientInfo(),
	}

	s.log.Debug("Sending initialize request",
		"protocol_version", params.ProtocolVersion,
		"client", params.ClientInfo.Name,
	)

	result, err := s.controller.Call(ctx, MethodInitialize, params)

	s.initMu.Lock()
	defer s.initMu.Unlock()

	s.initializing = false

	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	s.initialized = true
	s.initializationResult = result

	return result, nil
}

// Reset forgets a completed handshake so Initialize may run again.
// Callers use it when the recorded result turns out to be unusable.
func (s *Session) Reset() {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	s.initialized = false
	s.initializationResult = nil
}

// Request issues a call that takes no params, such as a listing method.
func (s *Session) Request(ctx context.Context, method string) (json.RawMessage, error) {
	return s.controller.Call(ctx, method, nil)
}

// Initialized reports whether the handshake has completed.
func (s *Session) Initialized() bool {
	s.initMu.RLock()
	defer s.initMu.RUnlock()

	return s.initialized
}

// InitializationResult returns a copy of the raw initialize result.
// Returns nil if not initialized.
func (s *Session) InitializationResult() json.RawMessage {
	s.initMu.RLock()
	defer s.initMu.RUnlock()

	if s.initializationResult == nil {
		return nil
	}

	return bytes.Clone(s.initializationResult)
}
