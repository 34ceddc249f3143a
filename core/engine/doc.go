// Package engine implements the state-machine core of the bot: a registry of
// named states with entry/core/transition behaviors, an in-memory per-user
// directory, and the Step dispatcher that advances one user by one inbound
// event. It is intentionally transport-agnostic so it can be reused across
// bots; outbound effects go through the task queue.
package engine
