package queue

// Outbox collects tasks produced while one engine step runs. Behaviors
// enqueue into it instead of the live queue, so a half-finished step never
// exposes its tasks to the consumer. The step owner publishes the batch with
// FlushTo once the step returns.
//
// An Outbox belongs to a single step and is not safe for concurrent use.
type Outbox struct {
	tasks []Task
}

// Enqueue appends a task to the pending batch.
func (o *Outbox) Enqueue(t Task) {
	o.tasks = append(o.tasks, t)
}

// Len reports the number of pending tasks.
func (o *Outbox) Len() int {
	return len(o.tasks)
}

// FlushTo publishes the pending tasks to the queue in enqueue order and
// empties the outbox.
func (o *Outbox) FlushTo(q *Queue) {
	for _, t := range o.tasks {
		q.Enqueue(t)
	}
	o.tasks = nil
}
