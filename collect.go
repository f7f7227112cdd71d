package mcpclient

import (
	"context"
	"log/slog"

	"github.com/Taylor002/OpenMetadata/internal/ingest"
)

// Metadata is everything collected from one server in one run.
type Metadata = ingest.Metadata

// StepError records the failure of one collection step.
type StepError = ingest.StepError

// ConnectionReport is the per-step result of TestConnection.
type ConnectionReport = ingest.ConnectionReport

// Requests are the create requests built from collected Metadata.
type Requests = ingest.Requests

// MappingError records a record that could not be turned into a create request.
type MappingError = ingest.MappingError

// Collect initializes client, gathers its tools, resources and prompts, and
// closes it. Only a failed initialize is returned as an error; a failed
// listing is recorded in Metadata.Errors.
func Collect(ctx context.Context, client Client, log *slog.Logger) (*Metadata, error) {
	return ingest.NewCollector(log).Collect(ctx, client)
}

// TestConnection runs initialize and each listing once and reports every step.
// The client is closed afterwards.
func TestConnection(ctx context.Context, client Client, log *slog.Logger) *ConnectionReport {
	return ingest.NewCollector(log).TestConnection(ctx, client)
}

// BuildRequests maps collected metadata to the create requests of the service
// named serviceName.
func BuildRequests(serviceName string, conn *Connection, md *Metadata) *Requests {
	return ingest.BuildRequests(serviceName, conn, md)
}
