// Package queue implements the asynchronous outbound side of the bot: an
// unbounded FIFO of typed tasks produced by state behaviors, the saved-message
// tag registry, and the background consumer that hands tasks to a transport
// executor. A failed task is logged and dropped; it never halts the consumer.
package queue
