package subprocess

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Taylor002/OpenMetadata/internal/cli"
	"github.com/Taylor002/OpenMetadata/internal/config"
	"github.com/Taylor002/OpenMetadata/internal/errors"
	"github.com/Taylor002/OpenMetadata/internal/mcp"
)

const (
	// maxScanTokenSize is the maximum size of a single line read from the server.
	maxScanTokenSize = 1024 * 1024 // 1MB
	// maxStderrBufferSize caps the stderr tail kept for error reports.
	// Stderr reading continues indefinitely (callback receives all lines),
	// but the buffer stops growing after this limit.
	maxStderrBufferSize = 1024 * 1024 // 1MB
)

// StdioTransport implements Transport by spawning an MCP server subprocess.
type StdioTransport struct {
	log              *slog.Logger
	server           *mcp.StdioServerConfig
	terminateTimeout time.Duration
	stderrCallback   func(string)

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	writeMu sync.Mutex // Serializes stdin writes

	mu          sync.Mutex // Protects the lifecycle flags below
	started     bool
	reading     bool // Whether the stdout pump has been launched
	closing     bool // Whether Close() has been called (intentional shutdown)
	stdinClosed bool

	done     chan struct{} // Closed by Close()
	exited   chan struct{} // Closed once the process has been reaped
	waitOnce sync.Once
	waitErr  error

	stderrWg  sync.WaitGroup
	stderrMu  sync.Mutex
	stderrBuf strings.Builder
}

// Compile-time verification that StdioTransport implements the Transport interface.
var _ config.Transport = (*StdioTransport)(nil)

// NewStdioTransport creates a transport for the given server config.
//
// The process is not spawned until Start is called.
func NewStdioTransport(
	log *slog.Logger,
	server *mcp.StdioServerConfig,
	options *config.Options,
) *StdioTransport {
	t := &StdioTransport{
		log:              log.With("component", "stdio_transport"),
		server:           server,
		terminateTimeout: options.GetTerminateTimeout(),
		done:             make(chan struct{}),
		exited:           make(chan struct{}),
	}

	if options != nil {
		t.stderrCallback = options.Stderr
	}

	return t
}

// Start spawns the MCP server subprocess.
//
// It sets up stdin, stdout, and stderr pipes and starts draining stderr.
// Returns ProcessStartError if the process cannot be spawned. Start may be
// called at most once; later calls return ErrTransportAlreadyStarted, or a
// TransportClosedError once Close has run.
//
// The process is not bound to ctx: it lives until Close.
func (t *StdioTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closing {
		return errors.NewTransportClosedError("transport closed before start")
	}

	if t.started {
		return errors.ErrTransportAlreadyStarted
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	command, err := cli.BuildCommand(t.server)
	if err != nil {
		return &errors.ProcessStartError{Command: t.commandName(), Err: err}
	}

	t.log.Info("Starting MCP server subprocess", "command", command.Path)
	t.log.Debug("Built command arguments", "args", command.Args, "cwd", command.Dir)

	//nolint:gosec // G204: Subprocess launching with configured args is the purpose of this transport
	cmd := exec.Command(command.Path, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = command.Env

	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.log.Error("Failed to create stdin pipe", "error", err)

		return &errors.ProcessStartError{Command: command.Path, Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.log.Error("Failed to create stdout pipe", "error", err)

		return &errors.ProcessStartError{Command: command.Path, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		t.log.Error("Failed to create stderr pipe", "error", err)

		return &errors.ProcessStartError{Command: command.Path, Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		t.log.Error("Failed to start MCP server process", "error", err)

		return &errors.ProcessStartError{Command: command.Path, Err: err}
	}

	t.cmd = cmd
	t.stdin = stdin
	t.stdout = stdout
	t.stderr = stderr
	t.started = true

	t.stderrWg.Go(t.drainStderr)

	t.log.Info("MCP server subprocess started successfully", "pid", cmd.Process.Pid)

	return nil
}

// ReadMessages reads newline-delimited messages from the server's stdout.
//
// This method starts the single goroutine that owns stdout. Each non-blank
// line is sent on the messages channel as raw bytes; decoding is left to the
// caller. The goroutine exits when stdout reaches end of stream, the context
// is cancelled, or Close is called, and closes both channels on exit.
//
// A scanner failure or an unexpected process exit is reported on the error
// channel. Calling ReadMessages before Start, or a second time, returns
// channels that are already closed.
func (t *StdioTransport) ReadMessages(ctx context.Context) (<-chan []byte, <-chan error) {
	messages := make(chan []byte)
	errs := make(chan error, 2)

	t.mu.Lock()

	if !t.started || t.reading {
		notStarted := !t.started
		t.mu.Unlock()

		if notStarted {
			errs <- errors.NewTransportClosedError("transport not started")
		}

		close(messages)
		close(errs)

		return messages, errs
	}

	t.reading = true
	t.mu.Unlock()

	go t.pump(ctx, messages, errs)

	return messages, errs
}

// pump copies stdout lines onto messages, then reaps the process.
func (t *StdioTransport) pump(ctx context.Context, messages chan<- []byte, errs chan<- error) {
	defer close(messages)
	defer close(errs)
	defer t.log.Debug("ReadMessages goroutine stopped")

	lineCount := 0
	stopped := false

	err := scanLines(t.stdout, func(line []byte) bool {
		lineCount++
		t.log.Debug("Received line from MCP server", "line_count", lineCount, "bytes", len(line))

		select {
		case messages <- line:
			return true
		case <-t.done:
			t.log.Debug("Transport closed during message send")
		case <-ctx.Done():
			t.log.Debug("Context cancelled during message send", "error", ctx.Err())
		}

		stopped = true

		return false
	})

	if stopped {
		go t.wait()

		return
	}

	if err != nil && !t.isClosing() {
		t.log.Error("Scanner error while reading MCP server output", "error", err)

		errs <- fmt.Errorf("scanner error: %w", err)
	}

	t.log.Debug("Waiting for MCP server process to exit")

	if err := t.wait(); err != nil {
		if t.isClosing() {
			t.log.Debug("MCP server process terminated during shutdown")

			return
		}

		exitCode := 0

		if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
			exitCode = exitErr.ExitCode()
		}

		stderrOutput := t.Stderr()

		t.log.Error("MCP server process exited with error", "exit_code", exitCode, "stderr", stderrOutput)

		errs <- &errors.ProcessError{
			ExitCode: exitCode,
			Stderr:   stderrOutput,
			Err:      err,
		}

		return
	}

	t.log.Info("MCP server process exited")
}

// scanLines calls emit with a private copy of every non-blank line of r until
// r is exhausted or emit returns false.
func scanLines(r io.Reader, emit func(line []byte) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanTokenSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if !emit(bytes.Clone(line)) {
			return nil
		}
	}

	return scanner.Err()
}

// drainStderr buffers and forwards stderr lines until the pipe closes.
func (t *StdioTransport) drainStderr() {
	scanner := bufio.NewScanner(t.stderr)
	scanner.Buffer(make([]byte, 0, 4096), maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()

		t.stderrMu.Lock()

		if t.stderrBuf.Len() < maxStderrBufferSize {
			if t.stderrBuf.Len() > 0 {
				t.stderrBuf.WriteString("\n")
			}

			t.stderrBuf.WriteString(line)
		}

		t.stderrMu.Unlock()

		t.log.Debug("MCP server stderr", "line", line)

		if t.stderrCallback != nil {
			t.stderrCallback(line)
		}
	}

	// Log scanner errors (don't fail - process may have exited)
	if err := scanner.Err(); err != nil {
		t.log.Debug("Stderr scanner error", "error", err)
	}
}

// wait reaps the process exactly once. Stderr must be fully read first.
func (t *StdioTransport) wait() error {
	t.waitOnce.Do(func() {
		t.stderrWg.Wait()
		t.waitErr = t.cmd.Wait()
		close(t.exited)
	})

	return t.waitErr
}

// Stderr returns the buffered stderr output of the server.
func (t *StdioTransport) Stderr() string {
	t.stderrMu.Lock()
	defer t.stderrMu.Unlock()

	return strings.TrimSpace(t.stderrBuf.String())
}

// SendMessage writes one JSON message to the server's stdin.
//
// The data should be a complete JSON message; a newline is appended if
// missing. This method is safe for concurrent use, returns once the write has
// been accepted by the pipe. A cancelled ctx makes the call return ctx.Err()
// once the pending write completes or the transport closes; the connection
// stays usable. Returns a TransportClosedError before Start or after Close.
func (t *StdioTransport) SendMessage(ctx context.Context, data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.mu.Lock()
	stdin := t.stdin
	usable := t.started && !t.closing && !t.stdinClosed
	t.mu.Unlock()

	if !usable {
		if !t.isStarted() {
			return errors.NewTransportClosedError("transport not started")
		}

		return errors.NewTransportClosedError("transport closed")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	t.log.Debug("Sending message to MCP server", "data_len", len(data))

	// Use explicit copy to avoid mutating caller's backing array if slice has spare capacity
	if len(data) == 0 || data[len(data)-1] != '\n' {
		newData := make([]byte, len(data)+1)
		copy(newData, data)
		newData[len(data)] = '\n'
		data = newData
	}

	done := make(chan error, 1)

	go func() {
		_, err := stdin.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			if t.isClosing() {
				return errors.NewTransportClosedError("transport closed during write")
			}

			t.log.Error("Failed to write message to MCP server", "error", err)

			return fmt.Errorf("write to stdin: %w", err)
		}

		return nil

	case <-t.done:
		// Close() closes stdin, which unblocks the pending Write.
		<-done

		return errors.NewTransportClosedError("transport closed during write")

	case <-ctx.Done():
		// Stdin is shared by every call; only Close may close it. Holding
		// writeMu until the write lands keeps a partial frame off the wire.
		t.log.Debug("Context cancelled during write, waiting for write to finish")

		select {
		case <-done:
		case <-t.done:
			<-done
		}

		return ctx.Err()
	}
}

// IsReady checks if the transport is ready for communication.
//
// Returns true if the server process is running and stdin is open.
func (t *StdioTransport) IsReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.started && !t.closing && !t.stdinClosed
}

// Pid returns the server's process id, or 0 before Start.
func (t *StdioTransport) Pid() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cmd == nil || t.cmd.Process == nil {
		return 0
	}

	return t.cmd.Process.Pid
}

// Exited returns a channel that is closed once the server process has been reaped.
func (t *StdioTransport) Exited() <-chan struct{} {
	return t.exited
}

// Close terminates the server process.
//
// Stdin is closed, the process is asked to stop (SIGTERM; Kill on Windows)
// and given the terminate timeout to exit before it is killed. It's safe to
// call Close multiple times, before Start, or after the process already
// exited. A non-zero exit status is not reported as an error.
func (t *StdioTransport) Close() error {
	t.mu.Lock()

	if t.closing {
		t.mu.Unlock()

		return nil
	}

	t.closing = true
	close(t.done)

	if t.stdin != nil && !t.stdinClosed {
		t.log.Debug("Closing stdin pipe")

		_ = t.stdin.Close()
		t.stdinClosed = true
	}

	started := t.started
	reading := t.reading
	t.mu.Unlock()

	if !started {
		return nil
	}

	// Nobody else will reap the process without the stdout pump.
	if !reading {
		go t.wait()
	}

	pid := t.cmd.Process.Pid

	select {
	case <-t.exited:
		t.log.Debug("MCP server process already exited", "pid", pid)

		return nil
	default:
	}

	t.log.Debug("Terminating MCP server process", "pid", pid)

	if err := terminate(t.cmd.Process); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		t.log.Debug("Terminate signal failed", "pid", pid, "error", err)
	}

	select {
	case <-t.exited:
		return nil
	case <-time.After(t.terminateTimeout):
	}

	t.log.Warn("MCP server did not exit after terminate, killing", "pid", pid)

	if err := t.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill MCP server process (pid %d): %w", pid, err)
	}

	select {
	case <-t.exited:
	case <-time.After(t.terminateTimeout):
		t.log.Warn("MCP server process not reaped after kill", "pid", pid)
	}

	return nil
}

func (t *StdioTransport) isClosing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.closing
}

func (t *StdioTransport) isStarted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.started
}

func (t *StdioTransport) commandName() string {
	if t.server == nil {
		return ""
	}

	return t.server.Command
}

// terminate asks the process to stop.
func terminate(p *os.Process) error {
	if runtime.GOOS == "windows" {
		return p.Kill()
	}

	return p.Signal(syscall.SIGTERM)
}
