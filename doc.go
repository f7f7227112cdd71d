// Package mcpclient provides a client for reading the catalog of a Model
// Context Protocol (MCP) server: its tools, resources and prompts.
//
// The server is spawned as a local subprocess and spoken to with
// newline-delimited JSON-RPC 2.0 over its stdin and stdout. Requests are
// correlated with responses by id, so the listing methods may be called
// concurrently over one connection.
//
// # Basic Usage
//
// Use WithClient for automatic lifecycle management:
//
//	err := mcpclient.WithClient(ctx, func(c mcpclient.Client) error {
//	    tools, err := c.ListTools(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    for _, tool := range tools {
//	        fmt.Println(tool.Name, tool.Description)
//	    }
//	    return nil
//	},
//	    mcpclient.WithCommand("npx", "-y", "@modelcontextprotocol/server-everything"),
//	    mcpclient.WithLogger(slog.Default()),
//	)
//
// Or use NewClient directly for more control:
//
//	client := mcpclient.NewClient(mcpclient.WithCommand("my-server", "--stdio"))
//	defer client.Close()
//
//	info, err := client.Initialize(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(info.ServerInfo.Name)
//
// # Ingestion
//
// Collect initializes a client, gathers all three listings concurrently and
// closes the client. A failed listing is recorded in Metadata.Errors without
// discarding the others:
//
//	md, err := mcpclient.Collect(ctx, mcpclient.NewClient(opts...), slog.Default())
//
// # Error Handling
//
// The typed errors all implement MCPClientError and are wrapped with %w when
// context is added. Use errors.Is with the sentinels (ErrTransportClosed,
// ErrRequestTimeout, ErrUnsupportedTransport) or errors.As with the typed
// errors (*ProcessStartError, *ProtocolError, *MalformedResponseError) to
// inspect failures.
//
// # Transports
//
// Only the stdio transport is implemented. A client configured WithSSE
// returns UnsupportedTransportError from every method.
package mcpclient
