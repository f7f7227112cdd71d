package mcpclient

import (
	"context"
	"fmt"
)

// WithClient manages client lifecycle with automatic cleanup.
//
// This helper creates a client with the provided options, performs the
// initialize handshake, executes the callback function, and ensures proper
// cleanup via Close() when done, also when initialization fails.
//
// If Close() fails, a warning is logged but does not override the callback's error.
//
// Example usage:
//
//	err := mcpclient.WithClient(ctx, func(c mcpclient.Client) error {
//	    tools, err := c.ListTools(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    for _, tool := range tools {
//	        fmt.Println(tool.Name)
//	    }
//	    return nil
//	},
//	    mcpclient.WithCommand("npx", "-y", "@modelcontextprotocol/server-everything"),
//	)
func WithClient(ctx context.Context, fn func(Client) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	client := newClientImpl(options)

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn("failed to close client", "error", closeErr)
		}
	}()

	if _, err := client.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}

	return fn(client)
}
