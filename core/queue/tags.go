package queue

import "sync"

// Tags is the saved-message registry: a process-wide mapping from an
// application-chosen symbolic tag to a platform message id, letting later
// tasks reference a message by tag instead of raw id. Entries are written by
// the transport executor when a task carries a Save tag; Delete lets the
// application bound growth.
type Tags struct {
	mu  sync.RWMutex
	ids map[string]int
}

// NewTags creates an empty saved-message registry.
func NewTags() *Tags {
	return &Tags{ids: make(map[string]int)}
}

// Save associates tag with a message id, replacing any earlier entry.
func (t *Tags) Save(tag string, messageID int) {
	if tag == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids[tag] = messageID
}

// Resolve returns the message id saved under tag.
func (t *Tags) Resolve(tag string) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.ids[tag]
	return id, ok
}

// Delete removes a tag.
func (t *Tags) Delete(tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ids, tag)
}

// Len reports the number of saved tags.
func (t *Tags) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}
