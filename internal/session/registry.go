// Package session tracks which assistant thread belongs to which Telegram
// user. The mapping lives purely in memory: it is created lazily on a user's
// first message, reused for the rest of the process lifetime, and lost on
// restart (the next message simply starts a fresh thread).
package session

import "sync"

// Registry is an in-memory map from Telegram user ID to OpenAI thread ID.
// Safe for concurrent use. There is no eviction: a user keeps the same
// thread until the process exits.
//
// Two simultaneous requests from the same user may race on Set; the last
// write wins. Users send one message at a time in practice, so the lost
// thread only costs the provider an orphaned conversation.
type Registry struct {
	mu      sync.Mutex
	threads map[int64]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{threads: make(map[int64]string)}
}

// Get returns the thread ID for userID, if one has been recorded.
func (r *Registry) Get(userID int64) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.threads[userID]
	return id, ok
}

// Set records threadID as the conversation for userID, replacing any
// previous value.
func (r *Registry) Set(userID int64, threadID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threads[userID] = threadID
}

// Len returns the number of users with a recorded thread.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.threads)
}
