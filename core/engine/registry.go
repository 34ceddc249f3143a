package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/m3rciful/convobot/core/logger"
	"github.com/m3rciful/convobot/core/queue"
	"log/slog"
)

// StateName identifies a node in the conversation graph.
type StateName string

// Behavior reacts to an inbound event. Outbound tasks go into the step's
// outbox; the engine publishes them to the live queue when the step returns.
// Other side effects (vault writes) are the behavior's responsibility; the
// engine performs no rollback.
type Behavior func(ctx context.Context, ev *Event, out *queue.Outbox) error

// Transition decides the next state from the current event. Returning an
// empty StateName keeps the user in the current state.
type Transition func(ctx context.Context, ev *Event, out *queue.Outbox) (StateName, error)

// State describes one named node: what runs on entry, what reacts to the
// current event, and how the next state is chosen. All three are optional;
// states are data, not types.
type State struct {
	Entry      Behavior
	Core       Behavior
	Transition Transition
}

// Registry maps state names to their descriptors. It is populated during
// startup and sealed before the bot serves traffic; registration afterwards
// fails fast.
type Registry struct {
	mu     sync.RWMutex
	states map[StateName]State
	sealed bool
}

// NewRegistry creates an empty state registry.
func NewRegistry() *Registry {
	return &Registry{states: make(map[StateName]State)}
}

// Register inserts or replaces the descriptor under name. Replacing an
// existing state before Seal is allowed but logged, matching command
// registration diagnostics elsewhere in the bot.
func (r *Registry) Register(name StateName, st State) error {
	if name == "" {
		return ErrInvalidState
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return ErrRegistrySealed
	}
	if _, exists := r.states[name]; exists {
		logger.Warn(context.Background(), "engine", "register.state.replace",
			slog.String("state", string(name)),
		)
	}
	r.states[name] = st
	return nil
}

// Lookup resolves a state descriptor, failing with UnknownStateError when the
// name was never registered.
func (r *Registry) Lookup(name StateName) (State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.states[name]
	if !ok {
		return State{}, &UnknownStateError{Name: name}
	}
	return st, nil
}

// Seal closes the registry for further registration.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Names returns sorted state names (for diagnostics).
func (r *Registry) Names() []StateName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]StateName, 0, len(r.states))
	for n := range r.states {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
