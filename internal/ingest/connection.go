package ingest

import (
	"context"
	"time"
)

// StepResult is the outcome of one connection test step.
type StepResult struct {
	Step     Step          `json:"step"              yaml:"step"`
	Passed   bool          `json:"passed"            yaml:"passed"`
	Skipped  bool          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Error    string        `json:"error,omitempty"   yaml:"error,omitempty"`
	Duration time.Duration `json:"duration"          yaml:"duration"`
}

// ConnectionReport is the result of TestConnection, one entry per step in
// execution order.
type ConnectionReport struct {
	Steps []StepResult `json:"steps" yaml:"steps"`
}

// Passed reports whether every step passed.
func (r *ConnectionReport) Passed() bool {
	for _, s := range r.Steps {
		if !s.Passed {
			return false
		}
	}

	return len(r.Steps) > 0
}

// TestConnection initializes client and runs each listing once, reporting
// every step. The listings are skipped when initialize fails. The client is
// always closed.
func (c *Collector) TestConnection(ctx context.Context, client Client) *ConnectionReport {
	report := &ConnectionReport{}

	defer func() {
		if err := client.Close(); err != nil {
			c.log.Warn("Failed to close MCP client", "error", err)
		}
	}()

	run := func(step Step, fn func() error) bool {
		start := c.now()
		err := fn()

		result := StepResult{Step: step, Passed: err == nil, Duration: c.now().Sub(start)}
		if err != nil {
			result.Error = err.Error()
			c.log.Warn("Connection test step failed", "step", string(step), "error", err)
		} else {
			c.log.Debug("Connection test step passed", "step", string(step))
		}

		report.Steps = append(report.Steps, result)

		return err == nil
	}

	if !run(StepInitialize, func() error {
		_, err := client.Initialize(ctx)

		return err
	}) {
		for _, step := range listingSteps {
			report.Steps = append(report.Steps, StepResult{Step: step, Skipped: true})
		}

		return report
	}

	run(StepListTools, func() error {
		_, err := client.ListTools(ctx)

		return err
	})

	run(StepListResources, func() error {
		_, err := client.ListResources(ctx)

		return err
	})

	run(StepListPrompts, func() error {
		_, err := client.ListPrompts(ctx)

		return err
	})

	return report
}

// TestConnection runs a connection test without logging.
func TestConnection(ctx context.Context, client Client) *ConnectionReport {
	return NewCollector(nil).TestConnection(ctx, client)
}
