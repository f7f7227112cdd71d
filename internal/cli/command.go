package cli

import (
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/Taylor002/OpenMetadata/internal/mcp"
)

// Command represents the server command to execute.
type Command struct {
	// Path is the executable, resolved through PATH by os/exec when it has no separator.
	Path string

	// Args are the command line arguments, excluding Path.
	Args []string

	// Env are the environment variables in KEY=VALUE form.
	Env []string

	// Dir is the working directory; empty inherits the parent's.
	Dir string
}

// BuildCommand constructs the Command for a stdio server config.
func BuildCommand(cfg *mcp.StdioServerConfig) (*Command, error) {
	if cfg == nil {
		return nil, mcp.ErrMissingCommand
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Command{
		Path: cfg.Command,
		Args: slices.Clone(cfg.Args),
		Env:  BuildEnvironment(cfg.Env),
		Dir:  cfg.Cwd,
	}, nil
}

// BuildEnvironment returns the parent environment overlaid with overlay.
// Inherited entries whose key appears in overlay are dropped; overlay entries
// are appended in key order.
func BuildEnvironment(overlay map[string]string) []string {
	parent := os.Environ()
	env := make([]string, 0, len(parent)+len(overlay))

	for _, kv := range parent {
		key, _, _ := strings.Cut(kv, "=")
		if _, replaced := overlay[key]; replaced {
			continue
		}

		env = append(env, kv)
	}

	for _, key := range slices.Sorted(maps.Keys(overlay)) {
		env = append(env, key+"="+overlay[key])
	}

	return env
}
