// Package ingest turns the catalog of an MCP server into metadata ingestion
// records.
//
// Collect gathers the server's tools, resources and prompts through a
// Client, recording per-listing failures instead of aborting. TestConnection
// runs the same steps as a pass/fail report. BuildRequests maps collected
// metadata to the create requests of an MCP service and its entities.
package ingest
