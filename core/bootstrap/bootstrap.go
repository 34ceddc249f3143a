package bootstrap

import (
	"fmt"

	coreconfig "github.com/m3rciful/convobot/core/config"
	"github.com/m3rciful/convobot/core/engine"
	"github.com/m3rciful/convobot/core/logger"
	"github.com/m3rciful/convobot/core/queue"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error

	// Machine registers the state machine into the registry. Behaviors
	// enqueue outbound tasks through the per-step outbox they receive.
	// Required: an engine without states cannot serve a single update.
	Machine func(*engine.Registry) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Engine *engine.Engine
	Queue  *queue.Queue
	Tags   *queue.Tags
}

// Run initializes the logger, builds the state registry from the provided
// machine definition, and wires the engine with its task queue.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	if opts.Machine == nil {
		return nil, fmt.Errorf("bootstrap: machine definition is required")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	q := queue.New()
	reg := engine.NewRegistry()
	if err := opts.Machine(reg); err != nil {
		return nil, fmt.Errorf("bootstrap: machine registration failed: %w", err)
	}
	reg.Seal()

	initial := engine.StateName(opts.Config.Engine.InitialState)
	if _, err := reg.Lookup(initial); err != nil {
		return nil, fmt.Errorf("bootstrap: initial state: %w", err)
	}

	dir := engine.NewDirectory(initial)
	return &Result{
		Engine: engine.New(dir, reg, q),
		Queue:  q,
		Tags:   queue.NewTags(),
	}, nil
}
