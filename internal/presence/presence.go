package presence

import (
	"sync"
	"time"
)

// Entry is one user's live connection state. Presence is process-local and
// lost on restart.
type Entry struct {
	ConnectionID string
	LastActiveAt time.Time
}

// Registry tracks which users are currently connected. All methods are safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Connect upserts the user's presence entry. A reconnect replaces the
// previous connection id.
func (r *Registry) Connect(userID, connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[userID] = Entry{ConnectionID: connectionID, LastActiveAt: time.Now().UTC()}
}

// Disconnect removes the user's entry only when connectionID still matches
// the registered one. A stale disconnect from a superseded connection leaves
// the newer connection's entry intact. Returns whether the entry was removed.
func (r *Registry) Disconnect(userID, connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok || e.ConnectionID != connectionID {
		return false
	}
	delete(r.entries, userID)
	return true
}

// Touch refreshes the last-active timestamp for a connected user.
func (r *Registry) Touch(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[userID]; ok {
		e.LastActiveAt = time.Now().UTC()
		r.entries[userID] = e
	}
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[userID]
	return ok
}

// LastActive returns the last-active timestamp, or false if the user is not
// connected.
func (r *Registry) LastActive(userID string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[userID]
	if !ok {
		return time.Time{}, false
	}
	return e.LastActiveAt, true
}

// Snapshot returns the ids of all currently connected users.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}
