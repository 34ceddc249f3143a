package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/convobot/core/config"
	"github.com/m3rciful/convobot/core/engine"
)

func testConfig(initial string) *coreconfig.Config {
	return &coreconfig.Config{
		Telegram: coreconfig.TelegramConfig{Token: "123:abc", RunMode: coreconfig.RunModeLongpoll},
		Engine:   coreconfig.EngineConfig{InitialState: initial},
	}
}

func noopLogger(*coreconfig.Config) error { return nil }

func TestRunWiresEngineAndQueue(t *testing.T) {
	res, err := Run(Options{
		Config:     testConfig("START"),
		LoggerInit: noopLogger,
		Machine: func(reg *engine.Registry) error {
			return reg.Register("START", engine.State{})
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Engine)
	require.NotNil(t, res.Queue)
	require.NotNil(t, res.Tags)
}

func TestRunRejectsUnknownInitialState(t *testing.T) {
	_, err := Run(Options{
		Config:     testConfig("GHOST"),
		LoggerInit: noopLogger,
		Machine: func(reg *engine.Registry) error {
			return reg.Register("START", engine.State{})
		},
	})
	require.Error(t, err)
}

func TestRunRequiresMachine(t *testing.T) {
	_, err := Run(Options{Config: testConfig("START"), LoggerInit: noopLogger})
	require.Error(t, err)
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(Options{
		LoggerInit: noopLogger,
		Machine: func(reg *engine.Registry) error {
			return reg.Register("START", engine.State{})
		},
	})
	require.Error(t, err)
}

func TestRunSealsRegistry(t *testing.T) {
	var captured *engine.Registry
	_, err := Run(Options{
		Config:     testConfig("START"),
		LoggerInit: noopLogger,
		Machine: func(reg *engine.Registry) error {
			captured = reg
			return reg.Register("START", engine.State{})
		},
	})
	require.NoError(t, err)
	require.ErrorIs(t, captured.Register("LATE", engine.State{}), engine.ErrRegistrySealed)
}
