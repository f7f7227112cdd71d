// Command mcpingest reads the catalog of an MCP server and prints the create
// requests of its service, tools, resources and prompts.
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	mcpclient "github.com/Taylor002/OpenMetadata"
	"github.com/Taylor002/OpenMetadata/internal/config"
)

// errTestFailed marks a connection test that ran but did not pass.
var errTestFailed = stderrors.New("connection test failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()

	if stderrors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run loads the connection, applies environment overrides and dispatches to
// collection or connection test.
func run(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	args, err := parseFlags(argv, stderr)
	if err != nil {
		return err
	}

	overrides, err := config.OverridesFromEnv()
	if err != nil {
		return fmt.Errorf("loading overrides: %w", err)
	}

	level := overrides.Level()
	if args.verbose {
		level = slog.LevelDebug
	}

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	conn, err := mcpclient.LoadConnection(args.config)
	if err != nil {
		return fmt.Errorf("loading connection: %w", err)
	}

	overrides.Apply(conn)

	if _, err := conn.ServerConfig(); err != nil {
		return fmt.Errorf("invalid connection %s: %w", args.config, err)
	}

	ctx, cancel := context.WithTimeout(ctx, args.timeout)
	defer cancel()

	client := mcpclient.NewClient(
		mcpclient.WithConnection(conn),
		mcpclient.WithLogger(log),
		mcpclient.WithStderr(func(line string) { log.Debug("server stderr", "line", line) }),
	)

	if args.test {
		report := mcpclient.TestConnection(ctx, client, log)

		if err := encode(stdout, args.format, report); err != nil {
			return err
		}

		if !report.Passed() {
			return errTestFailed
		}

		return nil
	}

	md, err := mcpclient.Collect(ctx, client, log)
	if err != nil {
		return fmt.Errorf("collecting metadata: %w", err)
	}

	service := args.service
	if service == "" {
		service = strings.TrimSuffix(filepath.Base(args.config), filepath.Ext(args.config))
	}

	reqs := mcpclient.BuildRequests(service, conn, md)

	for _, mapErr := range reqs.Errors {
		log.Warn("Skipped record", "name", mapErr.Name, "error", mapErr.Err)
	}

	log.Info("Collection finished",
		"run_id", md.RunID,
		"tools", len(reqs.Tools),
		"resources", len(reqs.Resources),
		"prompts", len(reqs.Prompts),
		"step_errors", len(md.Errors),
	)

	return encode(stdout, args.format, reqs)
}

func encode(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return enc.Close()
}
