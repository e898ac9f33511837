package ai

import (
	"context"
	"time"

	"github.com/thomas-vilte/dash/internal/logger"
)

// Usage describes one finished completion call.
type Usage struct {
	Command     string
	Model       string
	Requested   int
	Returned    int
	PromptChars int
	Duration    time.Duration
	Err         error
}

// UsageCallback receives every call a TrackedCompleter makes.
type UsageCallback func(ctx context.Context, u Usage)

// TrackedCompleter wraps a Completer and records how each call went.
type TrackedCompleter struct {
	next    Completer
	model   string
	command string
	onUsage UsageCallback
	now     func() time.Time
}

type TrackerOption func(*TrackedCompleter)

// WithCommand tags every recorded call with the CLI command that made it.
func WithCommand(name string) TrackerOption {
	return func(t *TrackedCompleter) { t.command = name }
}

func WithUsageCallback(cb UsageCallback) TrackerOption {
	return func(t *TrackedCompleter) { t.onUsage = cb }
}

func NewTrackedCompleter(next Completer, model string, opts ...TrackerOption) *TrackedCompleter {
	t := &TrackedCompleter{
		next:    next,
		model:   model,
		onUsage: logUsage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TrackedCompleter) Complete(ctx context.Context, req Request) ([]Choice, error) {
	start := t.now()
	choices, err := t.next.Complete(ctx, req)

	chars := 0
	for _, m := range req.Messages {
		chars += len(m.Content)
	}
	n := req.N
	if n < 1 {
		n = 1
	}
	t.onUsage(ctx, Usage{
		Command:     t.command,
		Model:       t.model,
		Requested:   n,
		Returned:    len(choices),
		PromptChars: chars,
		Duration:    t.now().Sub(start),
		Err:         err,
	})
	return choices, err
}

func logUsage(ctx context.Context, u Usage) {
	args := []any{
		"command", u.Command,
		"model", u.Model,
		"requested", u.Requested,
		"returned", u.Returned,
		"prompt_chars", u.PromptChars,
		"duration_ms", u.Duration.Milliseconds(),
	}
	if u.Err != nil {
		logger.Warn(ctx, "completion failed", append(args, "error", u.Err)...)
		return
	}
	logger.Debug(ctx, "completion finished", args...)
}
