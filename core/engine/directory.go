package engine

import "sync"

type userRecord struct {
	state StateName
	vault map[string]any
}

// Directory holds each user's current state and private scratch vault.
// Unknown users are provisioned implicitly with the initial state and an
// empty vault on first access. Access for different users is safe
// concurrently; steps for the same user are serialized by the engine.
type Directory struct {
	mu      sync.RWMutex
	initial StateName
	users   map[int64]*userRecord
}

// NewDirectory constructs an in-memory directory with the designated
// initial state for newly seen users.
func NewDirectory(initial StateName) *Directory {
	return &Directory{
		initial: initial,
		users:   make(map[int64]*userRecord),
	}
}

func (d *Directory) record(userID int64) *userRecord {
	if rec, ok := d.users[userID]; ok {
		return rec
	}
	rec := &userRecord{state: d.initial, vault: make(map[string]any)}
	d.users[userID] = rec
	return rec
}

// State returns the user's current state, provisioning the user first if
// unseen.
func (d *Directory) State(userID int64) StateName {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record(userID).state
}

// SetState overwrites the user's state unconditionally. Used by the normal
// transition flow and by external triggers such as a restart command.
func (d *Directory) SetState(userID int64, state StateName) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(userID).state = state
}

// Vault returns the user's mutable scratch mapping, creating it if absent.
// The returned map is live; callers rely on the engine's per-user
// serialization rather than copying.
func (d *Directory) Vault(userID int64) map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record(userID).vault
}

// Forget drops a user's state and vault entirely. The directory never evicts
// on its own; retention is the application's call.
func (d *Directory) Forget(userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.users, userID)
}

// Len reports the number of provisioned users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}
