package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustMessageTask(t *testing.T, userID int64, text string) Task {
	t.Helper()
	task, err := NewMessageTask(userID, MessageParams{Text: text})
	require.NoError(t, err)
	return task
}

func TestQueueFIFO(t *testing.T) {
	q := New()
	q.Enqueue(mustMessageTask(t, 1, "a"))
	q.Enqueue(mustMessageTask(t, 1, "b"))
	q.Enqueue(mustMessageTask(t, 2, "c"))
	require.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		task, ok := q.TryDequeue()
		require.True(t, ok)
		require.Equal(t, want, task.Message.Text)
	}

	_, ok := q.TryDequeue()
	require.False(t, ok)
	require.Equal(t, 0, q.Len())
}

func TestQueueDequeueBlocksUntilEnqueue(t *testing.T) {
	q := New()

	got := make(chan Task, 1)
	go func() {
		task, err := q.Dequeue(context.Background())
		if err == nil {
			got <- task
		}
	}()

	// Give the consumer a moment to park on the wake channel.
	time.Sleep(20 * time.Millisecond)
	q.Enqueue(mustMessageTask(t, 1, "late"))

	select {
	case task := <-got:
		require.Equal(t, "late", task.Message.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("dequeue did not wake up")
	}
}

func TestQueueDequeueContextCancel(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Dequeue(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestQueueCloseDrainsBacklog(t *testing.T) {
	q := New()
	q.Enqueue(mustMessageTask(t, 1, "a"))
	q.Enqueue(mustMessageTask(t, 1, "b"))
	q.Close()

	task, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a", task.Message.Text)

	task, err = q.Dequeue(context.Background())
	require.NoError(t, err)
	require.Equal(t, "b", task.Message.Text)

	_, err = q.Dequeue(context.Background())
	require.ErrorIs(t, err, ErrQueueClosed)
}
