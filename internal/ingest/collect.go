package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Taylor002/OpenMetadata/internal/message"
)

// Client is the subset of the MCP client used during ingestion.
type Client interface {
	Initialize(ctx context.Context) (*message.InitializeResult, error)
	ListTools(ctx context.Context) ([]message.Tool, error)
	ListResources(ctx context.Context) ([]message.Resource, error)
	ListPrompts(ctx context.Context) ([]message.Prompt, error)
	Close() error
}

// Step names one stage of a collection or connection test.
type Step string

const (
	StepInitialize    Step = "initialize"
	StepListTools     Step = "list tools"
	StepListResources Step = "list resources"
	StepListPrompts   Step = "list prompts"
)

// listingSteps are the independent steps run after a successful initialize.
var listingSteps = []Step{StepListTools, StepListResources, StepListPrompts}

// StepError records the failure of one collection step.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Metadata is everything collected from one server in one run.
type Metadata struct {
	RunID       string                    `json:"runId"`
	CollectedAt time.Time                 `json:"collectedAt"`
	Server      *message.InitializeResult `json:"server,omitempty"`
	Tools       []message.Tool            `json:"tools"`
	Resources   []message.Resource        `json:"resources"`
	Prompts     []message.Prompt          `json:"prompts"`
	Errors      []*StepError              `json:"-"`
}

// Failed reports whether step failed during collection.
func (m *Metadata) Failed(step Step) bool {
	return slices.ContainsFunc(m.Errors, func(e *StepError) bool { return e.Step == step })
}

// Collector gathers metadata from MCP clients.
type Collector struct {
	log *slog.Logger
	now func() time.Time
}

// NewCollector creates a collector. A nil logger disables logging.
func NewCollector(log *slog.Logger) *Collector {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Collector{
		log: log.With("component", "ingest"),
		now: time.Now,
	}
}

// Collect initializes client and lists its tools, resources and prompts.
//
// A failed initialize is returned as an error. A failed listing is logged,
// recorded in Metadata.Errors and leaves that listing empty; the other
// listings are unaffected. The client is always closed.
func (c *Collector) Collect(ctx context.Context, client Client) (*Metadata, error) {
	md := &Metadata{
		RunID:       uuid.NewString(),
		CollectedAt: c.now().UTC(),
	}

	log := c.log.With("run_id", md.RunID)

	defer func() {
		if err := client.Close(); err != nil {
			log.Warn("Failed to close MCP client", "error", err)
		}
	}()

	server, err := client.Initialize(ctx)
	if err != nil {
		return nil, &StepError{Step: StepInitialize, Err: err}
	}

	md.Server = server

	// Responses are correlated by id, so the listings share the connection.
	var (
		group  errgroup.Group
		mu     sync.Mutex
		failed = make(map[Step]error, len(listingSteps))
	)

	record := func(step Step, count int, err error) {
		if err != nil {
			log.Warn("Failed to collect", "step", string(step), "error", err)

			mu.Lock()
			failed[step] = err
			mu.Unlock()

			return
		}

		log.Info("Collected", "step", string(step), "count", count)
	}

	group.Go(func() error {
		tools, err := client.ListTools(ctx)
		md.Tools = tools
		record(StepListTools, len(tools), err)

		return nil
	})

	group.Go(func() error {
		resources, err := client.ListResources(ctx)
		md.Resources = resources
		record(StepListResources, len(resources), err)

		return nil
	})

	group.Go(func() error {
		prompts, err := client.ListPrompts(ctx)
		md.Prompts = prompts
		record(StepListPrompts, len(prompts), err)

		return nil
	})

	_ = group.Wait()

	for _, step := range listingSteps {
		if err, ok := failed[step]; ok {
			md.Errors = append(md.Errors, &StepError{Step: step, Err: err})
		}
	}

	return md, nil
}

// Collect runs a collection without logging.
func Collect(ctx context.Context, client Client) (*Metadata, error) {
	return NewCollector(nil).Collect(ctx, client)
}
