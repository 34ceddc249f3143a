package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Dequeue once the queue is closed and drained.
var ErrQueueClosed = errors.New("queue: closed")

// Queue is an unbounded, ordered, concurrency-safe FIFO of outbound tasks.
// Enqueue never blocks the caller; ordering is FIFO across all producers.
// The consumer prefers the blocking Dequeue, which waits on a wake signal
// instead of polling with a fixed sleep.
type Queue struct {
	mu     sync.Mutex
	tasks  []Task
	wake   chan struct{}
	closed chan struct{}
	once   sync.Once
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Enqueue appends a task. It never blocks waiting for consumption.
func (q *Queue) Enqueue(t Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// TryDequeue pops the oldest task without blocking. The second return is
// false when the queue is empty.
func (q *Queue) TryDequeue() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true
}

// Dequeue blocks until a task is available, the context is done, or the
// queue is closed and drained. Remaining tasks are still delivered after
// Close; ErrQueueClosed is returned only once the backlog is empty.
func (q *Queue) Dequeue(ctx context.Context) (Task, error) {
	for {
		if t, ok := q.TryDequeue(); ok {
			return t, nil
		}
		select {
		case <-ctx.Done():
			return Task{}, ctx.Err()
		case <-q.closed:
			// Drain anything enqueued between TryDequeue and close.
			if t, ok := q.TryDequeue(); ok {
				return t, nil
			}
			return Task{}, ErrQueueClosed
		case <-q.wake:
		}
	}
}

// Close marks the queue closed. Producers should stop enqueueing; the
// consumer drains the backlog and then stops.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.closed) })
}

// Len reports the current backlog size.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
