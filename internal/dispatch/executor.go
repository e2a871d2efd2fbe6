// Package dispatch executes a gesture's resolved commands against the
// miniserver transport.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"loxremote/internal/command"
	"loxremote/internal/loxone"
)

// Sender is the transport a parsed command is dispatched through.
type Sender interface {
	SendCommand(ctx context.Context, cmd command.Command) error
}

// Outcome is the result of dispatching a single command.
type Outcome struct {
	Raw      string
	Err      error
	Attempts int
}

func (o Outcome) Success() bool {
	return o.Err == nil
}

// Executor issues a gesture's commands strictly in mapping order. A
// transient transport failure is retried once after a short fixed delay; a
// failed command never aborts the commands after it.
type Executor struct {
	sender     Sender
	retryDelay time.Duration
	logger     *slog.Logger
}

func NewExecutor(sender Sender, retryDelay time.Duration, logger *slog.Logger) *Executor {
	return &Executor{
		sender:     sender,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Execute dispatches the raw command strings for one gesture and returns a
// per-command outcome set. It blocks until every command has been attempted
// or ctx is cancelled; callers run one Execute per gesture, typically on its
// own goroutine so classification is never delayed by the transport.
func (e *Executor) Execute(ctx context.Context, raws []string) []Outcome {
	outcomes := make([]Outcome, 0, len(raws))
	for _, raw := range raws {
		outcome := e.dispatch(ctx, raw)
		if outcome.Err != nil {
			e.logger.Error("command dispatch failed",
				"command", raw, "attempts", outcome.Attempts, "error", outcome.Err)
		} else {
			e.logger.Debug("command dispatched", "command", raw, "attempts", outcome.Attempts)
		}
		outcomes = append(outcomes, outcome)

		if ctx.Err() != nil {
			break
		}
	}
	return outcomes
}

func (e *Executor) dispatch(ctx context.Context, raw string) Outcome {
	cmd, err := command.Parse(raw)
	if err != nil {
		// A malformed command is a configuration defect, not a
		// transport condition; it is reported, never retried.
		return Outcome{Raw: raw, Err: err}
	}

	err = e.sender.SendCommand(ctx, cmd)
	if err == nil || !loxone.IsTransient(err) {
		return Outcome{Raw: raw, Err: err, Attempts: 1}
	}

	select {
	case <-ctx.Done():
		return Outcome{Raw: raw, Err: err, Attempts: 1}
	case <-time.After(e.retryDelay):
	}

	err = e.sender.SendCommand(ctx, cmd)
	return Outcome{Raw: raw, Err: err, Attempts: 2}
}
