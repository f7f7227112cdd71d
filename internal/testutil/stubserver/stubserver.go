// Package stubserver turns a test binary into a scripted MCP server.
//
// Tests re-execute their own binary with GO_WANT_HELPER_PROCESS=1 and a mode
// argument; the binary's TestHelperProcess calls Serve, which speaks the stdio
// wire format on stdin/stdout and exits.
//
//	func TestHelperProcess(t *testing.T) { stubserver.Serve() }
//
//	server := stubserver.Config("mcp")
package stubserver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Taylor002/OpenMetadata/internal/mcp"
)

// EnvVar marks a helper-process invocation.
const EnvVar = "GO_WANT_HELPER_PROCESS"

// Modes understood by Serve.
const (
	// ModeEcho copies every stdin line to stdout.
	ModeEcho = "echo"
	// ModeEnv prints {"value":$ARG,"cwd":wd} once, then drains stdin.
	ModeEnv = "env"
	// ModeStderr writes two stderr lines, then behaves like ModeEcho.
	ModeStderr = "stderr"
	// ModeExit writes to stderr and exits with status 3.
	ModeExit = "exit"
	// ModeHang never reads or writes; it dies on SIGTERM.
	ModeHang = "hang"
	// ModeIgnoreTerm ignores SIGTERM and blocks until killed.
	ModeIgnoreTerm = "ignore-term"
	// ModeMCP answers initialize and the three list methods.
	ModeMCP = "mcp"
	// ModeNoisy is ModeMCP preceded by a garbage line and a notification per response.
	ModeNoisy = "noisy"
	// ModeSilent reads requests and never answers.
	ModeSilent = "silent"
	// ModeMalformed answers list methods with results missing their arrays.
	ModeMalformed = "malformed"
)

// Config returns a server config that re-executes the current test binary in mode.
func Config(mode string, args ...string) *mcp.StdioServerConfig {
	return &mcp.StdioServerConfig{
		Command: os.Args[0],
		Args:    append([]string{"-test.run=TestHelperProcess", "--", mode}, args...),
		Env:     map[string]string{EnvVar: "1"},
	}
}

// Tools is the tool listing served in ModeMCP.
func Tools() []*sdkmcp.Tool {
	return []*sdkmcp.Tool{
		{
			Name:        "read_file",
			Description: "Read a file from disk",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"path": {Type: "string"},
				},
				Required: []string{"path"},
			},
		},
		{
			Name: "list_dir",
		},
	}
}

// Resources is the resource listing served in ModeMCP.
func Resources() []*sdkmcp.Resource {
	return []*sdkmcp.Resource{
		{URI: "file:///etc/motd", Name: "motd", MIMEType: "text/plain"},
	}
}

// Prompts is the prompt listing served in ModeMCP.
func Prompts() []*sdkmcp.Prompt {
	return []*sdkmcp.Prompt{
		{
			Name:        "summarize",
			Description: "Summarize a document",
			Arguments: []*sdkmcp.PromptArgument{
				{Name: "text", Description: "Text to summarize", Required: true},
			},
		},
	}
}

// Serve runs the stub server when the helper env var is set and never returns.
// Otherwise it returns immediately.
func Serve() {
	if os.Getenv(EnvVar) != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "stubserver: missing mode")
		os.Exit(2)
	}

	os.Exit(run(args[1], args[2:], os.Stdin, os.Stdout, os.Stderr))
}

func run(mode string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	switch mode {
	case ModeEcho:
		echo(scanner, stdout)
	case ModeEnv:
		cwd, _ := os.Getwd()

		var value string
		if len(args) > 0 {
			value = os.Getenv(args[0])
		}

		writeJSON(stdout, map[string]string{"value": value, "cwd": cwd})

		for scanner.Scan() {
		}
	case ModeStderr:
		fmt.Fprintln(stderr, "warming up")
		fmt.Fprintln(stderr, "ready")
		echo(scanner, stdout)
	case ModeExit:
		fmt.Fprintln(stderr, "fatal: boom")

		return 3
	case ModeHang:
		select {}
	case ModeIgnoreTerm:
		signal.Ignore(syscall.SIGTERM)
		select {}
	case ModeMCP, ModeNoisy, ModeMalformed, ModeSilent:
		serveMCP(mode, scanner, stdout)
	default:
		fmt.Fprintf(stderr, "stubserver: unknown mode %q\n", mode)

		return 2
	}

	return 0
}

func echo(scanner *bufio.Scanner, stdout io.Writer) {
	for scanner.Scan() {
		fmt.Fprintln(stdout, scanner.Text())
	}
}

type request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func serveMCP(mode string, scanner *bufio.Scanner, stdout io.Writer) {
	for scanner.Scan() {
		var req request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}

		if mode == ModeSilent {
			continue
		}

		if mode == ModeNoisy {
			fmt.Fprintln(stdout, `{"id": this is not json`)
			writeJSON(stdout, map[string]any{
				"jsonrpc": "2.0",
				"method":  "notifications/message",
				"params":  map[string]any{"level": "info", "data": "handling " + req.Method},
			})
		}

		result, rpcErr := handle(mode, req)

		resp := map[string]any{"id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}

		writeJSON(stdout, resp)
	}
}

func handle(mode string, req request) (any, any) {
	switch req.Method {
	case "initialize":
		var params struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			ClientInfo      *sdkmcp.Implementation `json:"clientInfo"`
		}

		_ = json.Unmarshal(req.Params, &params)

		return map[string]any{
			"protocolVersion": params.ProtocolVersion,
			"serverInfo":      &sdkmcp.Implementation{Name: "stub", Version: "0.1.0"},
			"capabilities": map[string]any{
				"tools":     map[string]any{},
				"resources": map[string]any{},
				"prompts":   map[string]any{},
			},
			"instructions": "greeted " + clientName(params.ClientInfo),
		}, nil
	case "tools/list":
		if mode == ModeMalformed {
			return map[string]any{}, nil
		}

		return map[string]any{"tools": Tools()}, nil
	case "resources/list":
		if mode == ModeMalformed {
			return map[string]any{"resources": []map[string]any{{"name": "no-uri"}}}, nil
		}

		return map[string]any{"resources": Resources()}, nil
	case "prompts/list":
		if mode == ModeMalformed {
			return map[string]any{"prompts": "not-a-list"}, nil
		}

		return map[string]any{"prompts": Prompts()}, nil
	default:
		return nil, map[string]any{"code": -32601, "message": "Method not found"}
	}
}

func clientName(info *sdkmcp.Implementation) string {
	if info == nil {
		return ""
	}

	return info.Name
}

func writeJSON(w io.Writer, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	fmt.Fprintln(w, string(data))
}
