package xpay

import (
	"context"
	"time"
)

// ============================================================================
// Session Registry Hook Context Types
// ============================================================================

// RegisterContext contains information passed to registration hooks
type RegisterContext struct {
	Ctx         context.Context
	InstanceID  string
	CallbackURL string
	Config      CheckoutConfig
	Timestamp   time.Time
}

// RegisterResultContext contains a successful registration and its context
type RegisterResultContext struct {
	RegisterContext
	Session  *CheckoutSession
	Duration time.Duration
}

// RegisterFallbackContext is passed when remote registration failed and a
// local-fallback session was stored instead
type RegisterFallbackContext struct {
	RegisterContext
	Error    error
	Session  *CheckoutSession
	Duration time.Duration
}

// TeardownContext contains information passed to teardown hooks
type TeardownContext struct {
	Ctx        context.Context
	InstanceID string
	Session    *CheckoutSession
	Timestamp  time.Time
}

// TeardownResultContext contains a completed teardown and its context.
// RemoteSkipped is true when no remote delete was attempted (absent,
// fallback or already-retired sessions).
type TeardownResultContext struct {
	TeardownContext
	RemoteSkipped bool
	Duration      time.Duration
}

// TeardownErrorContext is passed when the remote teardown call failed.
// The failure is logged and swallowed; local state is still cleared.
type TeardownErrorContext struct {
	TeardownContext
	Error error
}

// ============================================================================
// Session Registry Hook Function Types
// ============================================================================

// AfterRegisterHook is called after a checkout session is registered and
// stored. Any error returned is logged but does not affect the result.
type AfterRegisterHook func(RegisterResultContext) error

// OnRegisterFallbackHook is called when registration degrades to a
// local-fallback session. Any error returned is logged but does not
// affect the result.
type OnRegisterFallbackHook func(RegisterFallbackContext) error

// AfterTeardownHook is called after a session is torn down and cleared
// from the store. Any error returned is logged but does not affect the
// result.
type AfterTeardownHook func(TeardownResultContext) error

// OnTeardownErrorHook is called when the remote teardown call fails.
// Any error returned is logged but does not affect the result.
type OnTeardownErrorHook func(TeardownErrorContext) error

// ============================================================================
// Session Registry Hook Registration Options
// ============================================================================

// WithAfterRegisterHook registers a hook to execute after successful registration
func WithAfterRegisterHook(hook AfterRegisterHook) RegistryOption {
	return func(r *SessionRegistry) {
		r.afterRegisterHooks = append(r.afterRegisterHooks, hook)
	}
}

// WithOnRegisterFallbackHook registers a hook to execute when registration falls back
func WithOnRegisterFallbackHook(hook OnRegisterFallbackHook) RegistryOption {
	return func(r *SessionRegistry) {
		r.onRegisterFallbackHooks = append(r.onRegisterFallbackHooks, hook)
	}
}

// WithAfterTeardownHook registers a hook to execute after teardown completes
func WithAfterTeardownHook(hook AfterTeardownHook) RegistryOption {
	return func(r *SessionRegistry) {
		r.afterTeardownHooks = append(r.afterTeardownHooks, hook)
	}
}

// WithOnTeardownErrorHook registers a hook to execute when remote teardown fails
func WithOnTeardownErrorHook(hook OnTeardownErrorHook) RegistryOption {
	return func(r *SessionRegistry) {
		r.onTeardownErrorHooks = append(r.onTeardownErrorHooks, hook)
	}
}
