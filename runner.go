package xpay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xpaysh/xpay-go/types"
)

// Polling defaults applied when PollConfig fields are zero.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultPollTimeout  = 3 * time.Minute
)

// RunStatus is the lifecycle state of an asynchronous run.
type RunStatus string

const (
	RunSubmitted  RunStatus = "submitted"
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
	RunTimedOut   RunStatus = "timed_out"
)

// Terminal reports whether the status is final. Terminal runs never
// transition again.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunCompleted, RunFailed, RunTimedOut:
		return true
	}
	return false
}

// JobSpec describes one run to submit: which marketplace job, which
// model, and the job inputs.
type JobSpec struct {
	JobSlug     string
	ModelID     string
	Inputs      map[string]interface{}
	Temperature *float64
	MaxTokens   *int
}

// Validate reports whether the spec can be submitted.
func (j JobSpec) Validate() error {
	if j.JobSlug == "" {
		return NewError(ErrCodeInvalidConfig, "job slug is required", nil)
	}
	if j.ModelID == "" {
		return NewError(ErrCodeInvalidConfig, "model id is required", nil)
	}
	return nil
}

// RunHandle identifies a submitted run. SubmittedAt anchors the polling
// deadline: timeouts are measured from submission, not from when waiting
// started.
type RunHandle struct {
	RunID       string
	StatusURL   string
	SubmittedAt time.Time
}

// AsyncRun is the observed state of a run. Output and Cost are only
// populated on completed runs; Error on failed and timed-out ones.
type AsyncRun struct {
	RunID     string           `json:"runId"`
	Status    RunStatus        `json:"status"`
	Output    json.RawMessage  `json:"output,omitempty"`
	Error     string           `json:"error,omitempty"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
	Duration  time.Duration    `json:"duration,omitempty"`
	StatusURL string           `json:"statusUrl,omitempty"`
}

// PollConfig bounds a wait for completion. Zero fields take the package
// defaults.
type PollConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

func (c PollConfig) withDefaults() PollConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultPollTimeout
	}
	return c
}

// Runner submits runs to the execution service and polls them to a
// terminal state. The runner itself never retries: submission failures
// and poll transport errors surface to the caller, which owns retry
// policy.
type Runner struct {
	exec   ExecutionService
	clock  Clock
	logger *slog.Logger
}

// RunnerOption configures the runner
type RunnerOption func(*Runner)

// WithRunnerClock overrides the wall clock, for tests
func WithRunnerClock(clock Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithRunnerLogger sets the logger used for run events
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner backed by the given execution service.
func NewRunner(exec ExecutionService, opts ...RunnerOption) *Runner {
	r := &Runner{
		exec:   exec,
		clock:  SystemClock(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Submit enqueues an asynchronous run and returns its handle.
//
// A transport failure or a not-accepted reply is returned as an error;
// the run never entered processing and nothing is retried.
func (r *Runner) Submit(ctx context.Context, spec JobSpec) (*RunHandle, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	resp, err := r.exec.SubmitRun(ctx, runRequest(spec))
	if err != nil {
		return nil, fmt.Errorf("submit run: %w", err)
	}
	if !resp.Accepted {
		msg := resp.Error
		if msg == "" {
			msg = "run submission was not accepted"
		}
		return nil, NewError(ErrCodeSubmissionRejected, msg, map[string]interface{}{
			"job_slug": spec.JobSlug,
		})
	}

	handle := &RunHandle{
		RunID:       resp.RunID,
		StatusURL:   resp.StatusURL,
		SubmittedAt: r.clock.Now(),
	}
	r.logger.Debug("run submitted",
		"run_id", handle.RunID,
		"job_slug", spec.JobSlug)

	return handle, nil
}

// GetStatus reads the current state of a run once. Useful for
// fire-and-forget callers that kept the run ID.
func (r *Runner) GetStatus(ctx context.Context, runID string) (*AsyncRun, error) {
	resp, err := r.exec.RunStatus(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("run status: %w", err)
	}
	return asyncRunFromStatus(resp), nil
}

// AwaitCompletion polls the run until it reaches a terminal state or the
// timeout elapses.
//
// The loop polls first, so an already-terminal run returns immediately
// without sleeping. The timeout is wall-clock time since the handle's
// SubmittedAt; when it elapses the returned run is marked timed_out, a
// distinct state from failed, since the remote job may still be running.
// No cancellation of the remote job is attempted. Context cancellation
// during a sleep aborts the wait with ctx's error.
func (r *Runner) AwaitCompletion(ctx context.Context, handle *RunHandle, config PollConfig) (*AsyncRun, error) {
	if handle == nil {
		return nil, NewError(ErrCodeInvalidConfig, "nil run handle", nil)
	}
	config = config.withDefaults()

	for {
		run, err := r.GetStatus(ctx, handle.RunID)
		if err != nil {
			return nil, err
		}
		if run.StatusURL == "" {
			run.StatusURL = handle.StatusURL
		}
		if run.Status.Terminal() {
			return run, nil
		}

		if r.clock.Now().Sub(handle.SubmittedAt) >= config.Timeout {
			r.logger.Warn("run polling timed out",
				"run_id", handle.RunID,
				"timeout", config.Timeout,
				"last_status", run.Status)
			run.Status = RunTimedOut
			run.Error = fmt.Sprintf("run did not complete within %s", config.Timeout)
			return run, nil
		}

		if err := r.clock.Sleep(ctx, config.Interval); err != nil {
			return nil, err
		}
	}
}

// Execute submits a run and waits for its terminal state.
//
// A rejected submission returns a failed AsyncRun together with the
// submission error, so callers see both the error and a run record.
func (r *Runner) Execute(ctx context.Context, spec JobSpec, config PollConfig) (*AsyncRun, error) {
	handle, err := r.Submit(ctx, spec)
	if err != nil {
		return &AsyncRun{Status: RunFailed, Error: err.Error()}, err
	}
	return r.AwaitCompletion(ctx, handle, config)
}

// RunSync executes a run on the synchronous endpoint and returns its
// final state directly. Intended for short jobs; long jobs should use
// Submit and AwaitCompletion.
func (r *Runner) RunSync(ctx context.Context, spec JobSpec) (*AsyncRun, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	resp, err := r.exec.SubmitRunSync(ctx, runRequest(spec))
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return asyncRunFromStatus(resp), nil
}

func runRequest(spec JobSpec) types.RunRequest {
	return types.RunRequest{
		JobSlug:     spec.JobSlug,
		ModelID:     spec.ModelID,
		Inputs:      spec.Inputs,
		Temperature: spec.Temperature,
		MaxTokens:   spec.MaxTokens,
	}
}

func asyncRunFromStatus(resp *types.RunStatusResponse) *AsyncRun {
	return &AsyncRun{
		RunID:    resp.RunID,
		Status:   normalizeRunStatus(resp.Status),
		Output:   resp.Output,
		Error:    resp.Error,
		Cost:     resp.Cost,
		Duration: time.Duration(resp.DurationMs) * time.Millisecond,
	}
}

// normalizeRunStatus maps the service's status spellings onto the run
// lifecycle. Unknown non-terminal spellings count as processing; the
// poll timeout bounds how long that can last.
func normalizeRunStatus(s string) RunStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "queued", "pending", "submitted", "accepted":
		return RunSubmitted
	case "processing", "running", "in_progress", "started":
		return RunProcessing
	case "completed", "complete", "succeeded", "success":
		return RunCompleted
	case "failed", "error", "errored", "cancelled", "canceled":
		return RunFailed
	case "timed_out", "timeout":
		return RunTimedOut
	default:
		return RunProcessing
	}
}
