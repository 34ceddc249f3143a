package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	tasks []Task
	fail  map[string]error
}

func (r *recordingExecutor) Execute(_ context.Context, t Task) error {
	r.tasks = append(r.tasks, t)
	if r.fail != nil && t.Message != nil {
		if err, ok := r.fail[t.Message.Text]; ok {
			return err
		}
	}
	return nil
}

type runCall struct {
	userID  int64
	payload map[string]any
}

type recordingStepper struct {
	calls []runCall
	next  string
	err   error
}

func (r *recordingStepper) StepRun(_ context.Context, userID int64, payload map[string]any) (string, error) {
	r.calls = append(r.calls, runCall{userID: userID, payload: payload})
	return r.next, r.err
}

func TestConsumerRequiresQueueAndExecutor(t *testing.T) {
	_, err := NewConsumer(ConsumerOptions{})
	require.Error(t, err)

	_, err = NewConsumer(ConsumerOptions{Queue: New()})
	require.Error(t, err)

	_, err = NewConsumer(ConsumerOptions{Queue: New(), Executor: &recordingExecutor{}})
	require.NoError(t, err)
}

func TestConsumerDrainsInOrder(t *testing.T) {
	q := New()
	exec := &recordingExecutor{}
	consumer, err := NewConsumer(ConsumerOptions{Queue: q, Executor: exec})
	require.NoError(t, err)

	q.Enqueue(mustMessageTask(t, 1, "first"))
	q.Enqueue(mustMessageTask(t, 2, "second"))
	q.Close()

	require.NoError(t, consumer.Run(context.Background()))
	require.Len(t, exec.tasks, 2)
	require.Equal(t, "first", exec.tasks[0].Message.Text)
	require.Equal(t, "second", exec.tasks[1].Message.Text)
	require.Zero(t, consumer.ErrorCount())
}

func TestConsumerIsolatesFailures(t *testing.T) {
	q := New()
	exec := &recordingExecutor{fail: map[string]error{"bad": errors.New("api down")}}
	consumer, err := NewConsumer(ConsumerOptions{Queue: q, Executor: exec})
	require.NoError(t, err)

	q.Enqueue(mustMessageTask(t, 1, "bad"))
	q.Enqueue(mustMessageTask(t, 1, "good"))
	q.Close()

	require.NoError(t, consumer.Run(context.Background()))
	require.Len(t, exec.tasks, 2, "a failed task must not stop the consumer")
	require.Equal(t, uint64(1), consumer.ErrorCount())
}

func TestConsumerDropsUnknownActionWithoutCounting(t *testing.T) {
	q := New()
	exec := &failingExecutor{err: &UnknownActionError{Kind: "sticker"}}
	consumer, err := NewConsumer(ConsumerOptions{Queue: q, Executor: exec})
	require.NoError(t, err)

	q.Enqueue(Task{UserID: 1, Kind: "sticker"})
	q.Close()

	require.NoError(t, consumer.Run(context.Background()))
	require.Zero(t, consumer.ErrorCount(), "unknown kinds are dropped, not failed")
}

func TestConsumerFeedsRunTasksIntoStepper(t *testing.T) {
	q := New()
	exec := &recordingExecutor{}
	stepper := &recordingStepper{next: "MAIN"}
	consumer, err := NewConsumer(ConsumerOptions{Queue: q, Executor: exec, Stepper: stepper})
	require.NoError(t, err)

	q.Enqueue(NewRunTask(7, map[string]any{"reason": "timer"}))
	q.Close()

	require.NoError(t, consumer.Run(context.Background()))
	require.Empty(t, exec.tasks, "run tasks bypass the transport executor")
	require.Len(t, stepper.calls, 1)
	require.Equal(t, int64(7), stepper.calls[0].userID)
	require.Equal(t, "timer", stepper.calls[0].payload["reason"])
}

func TestConsumerCountsStepperFailures(t *testing.T) {
	q := New()
	stepper := &recordingStepper{err: errors.New("broken graph")}
	consumer, err := NewConsumer(ConsumerOptions{Queue: q, Executor: &recordingExecutor{}, Stepper: stepper})
	require.NoError(t, err)

	q.Enqueue(NewRunTask(7, nil))
	q.Close()

	require.NoError(t, consumer.Run(context.Background()))
	require.Equal(t, uint64(1), consumer.ErrorCount())
}

func TestConsumerStopsOnContextCancel(t *testing.T) {
	q := New()
	consumer, err := NewConsumer(ConsumerOptions{Queue: q, Executor: &recordingExecutor{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, consumer.Run(ctx))
}

type failingExecutor struct {
	err error
}

func (f *failingExecutor) Execute(context.Context, Task) error { return f.err }
