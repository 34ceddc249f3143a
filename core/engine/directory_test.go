package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectoryProvisionsWithInitialState(t *testing.T) {
	dir := NewDirectory("START")
	require.Equal(t, StateName("START"), dir.State(42))
	require.Equal(t, 1, dir.Len())
}

func TestDirectorySetState(t *testing.T) {
	dir := NewDirectory("START")
	dir.SetState(1, "MAIN")
	require.Equal(t, StateName("MAIN"), dir.State(1))
}

func TestDirectoryVaultIsLiveAndPerUser(t *testing.T) {
	dir := NewDirectory("START")

	v := dir.Vault(1)
	v["counter"] = 3
	require.Equal(t, 3, dir.Vault(1)["counter"])

	_, ok := dir.Vault(2)["counter"]
	require.False(t, ok, "vaults must be isolated per user")
}

func TestDirectoryForget(t *testing.T) {
	dir := NewDirectory("START")
	dir.SetState(1, "MAIN")
	dir.Vault(1)["k"] = "v"

	dir.Forget(1)
	require.Equal(t, 0, dir.Len())

	// The user comes back as brand new.
	require.Equal(t, StateName("START"), dir.State(1))
	require.Empty(t, dir.Vault(1))
}
