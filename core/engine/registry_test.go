package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("START", State{}))

	_, err := reg.Lookup("START")
	require.NoError(t, err)

	_, err = reg.Lookup("NOPE")
	var unknown *UnknownStateError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, StateName("NOPE"), unknown.Name)
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	reg := NewRegistry()
	require.ErrorIs(t, reg.Register("", State{}), ErrInvalidState)
}

func TestRegistrySealFailsFast(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("A", State{}))
	reg.Seal()
	require.ErrorIs(t, reg.Register("B", State{}), ErrRegistrySealed)
}

func TestRegistryReplaceBeforeSeal(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("A", State{}))
	require.NoError(t, reg.Register("A", State{}))
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("B", State{}))
	require.NoError(t, reg.Register("A", State{}))
	require.NoError(t, reg.Register("C", State{}))
	require.Equal(t, []StateName{"A", "B", "C"}, reg.Names())
}
