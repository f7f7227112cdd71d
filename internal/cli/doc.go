// Package cli builds the command line and environment used to launch an MCP
// server process.
//
//	cmd, err := cli.BuildCommand(&mcp.StdioServerConfig{
//	    Command: "npx",
//	    Args:    []string{"-y", "@modelcontextprotocol/server-everything"},
//	    Env:     map[string]string{"NODE_ENV": "production"},
//	})
//
// The environment is the parent's environment with the configured variables
// overlaid: a configured key replaces any inherited value of the same key.
package cli
