package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/m3rciful/convobot/core/logger"
	"github.com/m3rciful/convobot/core/queue"
	"log/slog"
)

// Engine executes one step of conversation processing per inbound event:
// core behavior of the current state, transition, entry behavior of the next
// state, then persistence of the new state. Tasks produced by behaviors are
// published to the outbound queue when the step returns.
type Engine struct {
	dir *Directory
	reg *Registry
	q   *queue.Queue

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// New wires an engine over the provided directory, registry, and outbound
// queue. All three are required.
func New(dir *Directory, reg *Registry, q *queue.Queue) *Engine {
	return &Engine{
		dir:   dir,
		reg:   reg,
		q:     q,
		locks: make(map[int64]*sync.Mutex),
	}
}

// Directory exposes the user directory for external triggers (e.g. a restart
// command forcing a state reset).
func (e *Engine) Directory() *Directory { return e.dir }

// StepRun feeds a synthetic run event through Step. It is the feedback path
// the task consumer uses for queued "run" actions.
func (e *Engine) StepRun(ctx context.Context, userID int64, payload map[string]any) (string, error) {
	next, err := e.Step(ctx, NewRunEvent(userID, payload))
	return string(next), err
}

func (e *Engine) userLock(userID int64) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	mu, ok := e.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[userID] = mu
	}
	return mu
}

// Step advances the user identified by ev.UserID and returns the state the
// user occupies afterwards. Steps for the same user are serialized; steps
// for different users may run concurrently.
//
// An unknown current or next state aborts the step without persisting
// anything. A behavior error propagates out with effects-so-far retained:
// tasks produced before the failure are still published, there is no
// rollback. Tasks become visible to the consumer only once Step returns;
// a concurrent consumer never observes a half-finished step.
func (e *Engine) Step(ctx context.Context, ev Event) (StateName, error) {
	mu := e.userLock(ev.UserID)
	mu.Lock()
	defer mu.Unlock()

	out := &queue.Outbox{}
	defer out.FlushTo(e.q)

	current := e.dir.State(ev.UserID)
	st, err := e.reg.Lookup(current)
	if err != nil {
		return "", fmt.Errorf("step: current state: %w", err)
	}

	if st.Core != nil {
		if err := st.Core(ctx, &ev, out); err != nil {
			return "", fmt.Errorf("step: core of %q: %w", string(current), err)
		}
	}

	// Self-loop is the default: no transition behavior, or an empty return,
	// keeps the user where they are.
	next := current
	if st.Transition != nil {
		name, err := st.Transition(ctx, &ev, out)
		if err != nil {
			return "", fmt.Errorf("step: transition of %q: %w", string(current), err)
		}
		if name != "" {
			next = name
		}
	}

	nextSt, err := e.reg.Lookup(next)
	if err != nil {
		return "", fmt.Errorf("step: next state: %w", err)
	}
	if nextSt.Entry != nil {
		if err := nextSt.Entry(ctx, &ev, out); err != nil {
			return "", fmt.Errorf("step: entry of %q: %w", string(next), err)
		}
	}

	e.dir.SetState(ev.UserID, next)

	logger.Debug(ctx, "engine", "fsm.step",
		slog.String("status", "ok"),
		slog.Int64("user_id", ev.UserID),
		slog.String("kind", string(ev.Kind)),
		slog.String("state", string(current)),
		slog.String("next_state", string(next)),
	)
	return next, nil
}
