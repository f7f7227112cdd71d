package main

import (
	"flag"
	"fmt"
	"io"
	"time"
)

type cliArgs struct {
	config  string
	service string
	test    bool
	format  string
	timeout time.Duration
	verbose bool
}

func parseFlags(argv []string, output io.Writer) (cliArgs, error) {
	var args cliArgs

	fs := flag.NewFlagSet("mcpingest", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&args.config, "config", "", "Path to the YAML connection file (required)")
	fs.StringVar(&args.service, "service", "", "Service name (defaults to the connection file name)")
	fs.BoolVar(&args.test, "test", false, "Run a connection test instead of a collection")
	fs.StringVar(&args.format, "format", "yaml", "Output format: yaml or json")
	fs.DurationVar(&args.timeout, "timeout", 2*time.Minute, "Overall deadline for the run")
	fs.BoolVar(&args.verbose, "v", false, "Enable debug logging")

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}

	if args.config == "" {
		return cliArgs{}, fmt.Errorf("-config is required")
	}

	switch args.format {
	case "yaml", "json":
	default:
		return cliArgs{}, fmt.Errorf("unknown -format %q", args.format)
	}

	return args, nil
}
