package xpay

import "context"

// SessionStore persists checkout sessions keyed by workflow instance ID.
// Implementations must be safe for concurrent use.
//
// The interface is designed to support both in-memory and durable backends
// (Redis, database, the host's own state layer) for different deployments.
// The SDK never caches sessions outside the store; whatever the store
// returns is the truth.
type SessionStore interface {
	// Get returns the session for the instance, or (nil, nil) when none
	// is stored.
	Get(ctx context.Context, instanceID string) (*CheckoutSession, error)

	// Put stores or replaces the session for the instance.
	Put(ctx context.Context, instanceID string, session *CheckoutSession) error

	// Clear removes the session for the instance. Clearing an absent
	// instance is not an error.
	Clear(ctx context.Context, instanceID string) error
}
