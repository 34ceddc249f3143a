package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/m3rciful/convobot/core/logger"
)

// Executor performs the platform side of a task. Implementations live in the
// transport adapter; a failed Execute is logged here and never retried.
type Executor interface {
	Execute(ctx context.Context, t Task) error
}

// Stepper runs one synthetic engine step; ActionRun tasks are fed back
// through it. The returned string names the state the user ends up in.
type Stepper interface {
	StepRun(ctx context.Context, userID int64, payload map[string]any) (string, error)
}

// ConsumerOptions wires the background consumer.
type ConsumerOptions struct {
	Queue    *Queue
	Executor Executor
	Stepper  Stepper

	// ClassifyError maps a transport failure to a short kind for logs
	// (timeout, dns, http_4xx, ...). Optional.
	ClassifyError func(error) string
	// SanitizeError rewrites an error message before logging (e.g. token
	// redaction). Optional.
	SanitizeError func(error) string
}

// Consumer drains the task queue and dispatches each task by kind. Failures
// are isolated per task: the loop logs and continues.
type Consumer struct {
	opts ConsumerOptions
	errs atomic.Uint64
}

// NewConsumer validates options and builds a consumer.
func NewConsumer(opts ConsumerOptions) (*Consumer, error) {
	if opts.Queue == nil {
		return nil, errors.New("queue: consumer requires a queue")
	}
	if opts.Executor == nil {
		return nil, errors.New("queue: consumer requires an executor")
	}
	return &Consumer{opts: opts}, nil
}

// ErrorCount returns the number of failed tasks.
func (c *Consumer) ErrorCount() uint64 {
	return c.errs.Load()
}

// Run consumes tasks until the context is done or the queue is closed and
// drained. It always returns nil on a cooperative stop.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		t, err := c.opts.Queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		c.handle(ctx, t)
	}
}

func (c *Consumer) handle(ctx context.Context, t Task) {
	start := time.Now()

	if t.Kind == ActionRun {
		c.handleRun(ctx, t, start)
		return
	}

	err := c.opts.Executor.Execute(ctx, t)
	if err == nil {
		logger.Debug(ctx, "queue", "task.done",
			append(taskAttrs(t),
				slog.Int64("elapsed_ms", logger.Took(start).Milliseconds()),
			)...,
		)
		return
	}

	var unknown *UnknownActionError
	if errors.As(err, &unknown) {
		logger.Warn(ctx, "queue", "task.unknown_action", taskAttrs(t)...)
		return
	}

	c.errs.Add(1)
	attrs := append(taskAttrs(t),
		slog.String("err", c.sanitize(err)),
		slog.Int64("elapsed_ms", logger.Took(start).Milliseconds()),
	)
	if kind := c.classify(err); kind != "" {
		attrs = append(attrs, slog.String("error_kind", kind))
	}
	logger.Error(ctx, "queue", "task.fail", attrs...)
}

func (c *Consumer) handleRun(ctx context.Context, t Task, start time.Time) {
	if t.Run == nil {
		c.errs.Add(1)
		logger.Error(ctx, "queue", "task.fail",
			append(taskAttrs(t), slog.String("err", "run task without params"))...,
		)
		return
	}
	if c.opts.Stepper == nil {
		c.errs.Add(1)
		logger.Error(ctx, "queue", "task.fail",
			append(taskAttrs(t), slog.String("err", "run task without stepper"))...,
		)
		return
	}
	next, err := c.opts.Stepper.StepRun(ctx, t.UserID, t.Run.Payload)
	if err != nil {
		c.errs.Add(1)
		logger.Error(ctx, "queue", "task.run.fail",
			append(taskAttrs(t),
				slog.String("err", c.sanitize(err)),
				slog.Int64("elapsed_ms", logger.Took(start).Milliseconds()),
			)...,
		)
		return
	}
	logger.Debug(ctx, "queue", "task.run.done",
		append(taskAttrs(t),
			slog.String("next_state", next),
			slog.Int64("elapsed_ms", logger.Took(start).Milliseconds()),
		)...,
	)
}

func (c *Consumer) classify(err error) string {
	if c.opts.ClassifyError == nil || err == nil {
		return ""
	}
	return c.opts.ClassifyError(err)
}

func (c *Consumer) sanitize(err error) string {
	if err == nil {
		return ""
	}
	if c.opts.SanitizeError != nil {
		return c.opts.SanitizeError(err)
	}
	return err.Error()
}

func taskAttrs(t Task) []slog.Attr {
	return []slog.Attr{
		slog.String("action", string(t.Kind)),
		slog.Int64("user_id", t.UserID),
	}
}
