package xpay

import (
	"context"
	"sync"
)

// MemorySessionStore is an in-process SessionStore.
//
// Suitable for single-instance hosts and tests. Sessions do not survive a
// restart; deployments that must keep checkout identities across restarts
// should provide a durable SessionStore instead.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]CheckoutSession
}

// Compile-time interface check
var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]CheckoutSession),
	}
}

// Get returns a copy of the stored session, or (nil, nil) when absent.
func (s *MemorySessionStore) Get(_ context.Context, instanceID string) (*CheckoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[instanceID]
	if !ok {
		return nil, nil
	}
	out := sess
	return &out, nil
}

// Put stores a copy of the session under the instance ID.
func (s *MemorySessionStore) Put(_ context.Context, instanceID string, session *CheckoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[instanceID] = *session
	return nil
}

// Clear removes the session for the instance ID.
func (s *MemorySessionStore) Clear(_ context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, instanceID)
	return nil
}

// Len returns the number of stored sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
