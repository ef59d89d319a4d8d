package xpay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xpaysh/xpay-go/types"
)

// SessionRegistry owns the checkout session lifecycle for workflow
// instances: registration with the payment service on activation,
// idempotent re-activation, and teardown on deactivation.
//
// Registration failures never abort activation. When the payment service
// is unreachable the registry stores a fixed local-fallback session and
// continues; the fallback accepts only unsigned traffic and is unsafe for
// real payments. Teardown likewise never fails the caller on remote
// errors: they are logged, hooks fire, and local state is still cleared.
type SessionRegistry struct {
	payments PaymentService
	store    SessionStore
	clock    Clock
	logger   *slog.Logger

	afterRegisterHooks      []AfterRegisterHook
	onRegisterFallbackHooks []OnRegisterFallbackHook
	afterTeardownHooks      []AfterTeardownHook
	onTeardownErrorHooks    []OnTeardownErrorHook
}

// RegistryOption configures the registry
type RegistryOption func(*SessionRegistry)

// WithSessionStore replaces the default in-memory session store
func WithSessionStore(store SessionStore) RegistryOption {
	return func(r *SessionRegistry) {
		r.store = store
	}
}

// WithRegistryLogger sets the logger used for lifecycle events
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *SessionRegistry) {
		r.logger = logger
	}
}

// WithRegistryClock overrides the wall clock, for tests
func WithRegistryClock(clock Clock) RegistryOption {
	return func(r *SessionRegistry) {
		r.clock = clock
	}
}

// NewSessionRegistry creates a registry backed by the given payment
// service. Sessions are kept in a MemorySessionStore unless
// WithSessionStore provides a durable one.
func NewSessionRegistry(payments PaymentService, opts ...RegistryOption) *SessionRegistry {
	r := &SessionRegistry{
		payments: payments,
		store:    NewMemorySessionStore(),
		clock:    SystemClock(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Exists reports whether a session is stored for the instance. No
// network calls are made.
func (r *SessionRegistry) Exists(ctx context.Context, instanceID string) (bool, error) {
	session, err := r.store.Get(ctx, instanceID)
	if err != nil {
		return false, fmt.Errorf("session store get: %w", err)
	}
	return session != nil, nil
}

// Get returns the stored session for the instance, or (nil, nil) when
// none exists. Sessions carrying the fallback sentinel secret are
// normalized to the local-fallback status on the way out.
func (r *SessionRegistry) Get(ctx context.Context, instanceID string) (*CheckoutSession, error) {
	session, err := r.store.Get(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("session store get: %w", err)
	}
	return session.normalize(), nil
}

// Create registers a checkout session for the instance.
//
// Create is idempotent: when a session is already stored it is returned
// as-is and no remote registration happens. Otherwise the checkout is
// registered with the payment service and the returned identity is
// persisted. If the remote registration fails, a local-fallback session
// is stored and returned with a nil error; only store failures and
// invalid configuration surface as errors.
func (r *SessionRegistry) Create(ctx context.Context, instanceID, callbackURL string, config CheckoutConfig) (*CheckoutSession, error) {
	start := r.clock.Now()

	existing, err := r.store.Get(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("session store get: %w", err)
	}
	if existing != nil {
		return existing.normalize(), nil
	}

	if callbackURL == "" {
		return nil, NewError(ErrCodeInvalidConfig, "callback URL is required", nil)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	req := types.RegisterCheckoutRequest{
		CallbackURL: callbackURL,
		Config:      checkoutDetails(config),
	}

	hctx := RegisterContext{
		Ctx:         ctx,
		InstanceID:  instanceID,
		CallbackURL: callbackURL,
		Config:      config,
		Timestamp:   start,
	}

	resp, err := r.payments.RegisterCheckout(ctx, req)
	if err != nil {
		session := newFallbackSession(start)
		if storeErr := r.store.Put(ctx, instanceID, session); storeErr != nil {
			return nil, fmt.Errorf("session store put: %w", storeErr)
		}
		r.logger.Warn("checkout registration failed, continuing with local fallback session",
			"instance_id", instanceID,
			"error", err)
		r.runRegisterFallbackHooks(RegisterFallbackContext{
			RegisterContext: hctx,
			Error:           err,
			Session:         session,
			Duration:        r.clock.Now().Sub(start),
		})
		return session, nil
	}

	session := &CheckoutSession{
		CheckoutID:    resp.CheckoutID,
		CheckoutURL:   resp.CheckoutURL,
		WebhookSecret: resp.WebhookSecret,
		Status:        SessionActive,
		CreatedAt:     start,
	}

	if err := r.store.Put(ctx, instanceID, session); err != nil {
		// the checkout was registered remotely but never recorded; release it
		if delErr := r.payments.DeleteCheckout(ctx, session.CheckoutID); delErr != nil {
			r.logger.Warn("failed to release checkout after store failure",
				"checkout_id", session.CheckoutID,
				"error", delErr)
		}
		return nil, fmt.Errorf("session store put: %w", err)
	}

	r.logger.Info("checkout session registered",
		"instance_id", instanceID,
		"checkout_id", session.CheckoutID)
	r.runAfterRegisterHooks(RegisterResultContext{
		RegisterContext: hctx,
		Session:         session,
		Duration:        r.clock.Now().Sub(start),
	})

	return session, nil
}

// Delete tears down the session for the instance.
//
// Absent sessions are a no-op success. Local-fallback sessions skip the
// remote call. Remote teardown failures are logged and swallowed. Local
// state is always cleared before returning; only store failures surface
// as errors.
func (r *SessionRegistry) Delete(ctx context.Context, instanceID string) error {
	start := r.clock.Now()

	session, err := r.store.Get(ctx, instanceID)
	if err != nil {
		return fmt.Errorf("session store get: %w", err)
	}
	if session == nil {
		return nil
	}
	session.normalize()

	hctx := TeardownContext{
		Ctx:        ctx,
		InstanceID: instanceID,
		Session:    session,
		Timestamp:  start,
	}

	remoteSkipped := true
	if session.Status == SessionActive {
		remoteSkipped = false
		if err := r.payments.DeleteCheckout(ctx, session.CheckoutID); err != nil {
			r.logger.Warn("checkout teardown failed, clearing local state anyway",
				"instance_id", instanceID,
				"checkout_id", session.CheckoutID,
				"error", err)
			r.runTeardownErrorHooks(TeardownErrorContext{
				TeardownContext: hctx,
				Error:           err,
			})
		}
	}

	if err := r.store.Clear(ctx, instanceID); err != nil {
		return fmt.Errorf("session store clear: %w", err)
	}

	session.Status = SessionRetired
	r.logger.Info("checkout session retired",
		"instance_id", instanceID,
		"checkout_id", session.CheckoutID)
	r.runAfterTeardownHooks(TeardownResultContext{
		TeardownContext: hctx,
		RemoteSkipped:   remoteSkipped,
		Duration:        r.clock.Now().Sub(start),
	})

	return nil
}

// Hook runners. Hook errors are logged and never affect the operation.

func (r *SessionRegistry) runAfterRegisterHooks(hctx RegisterResultContext) {
	for _, hook := range r.afterRegisterHooks {
		if err := hook(hctx); err != nil {
			r.logger.Warn("after-register hook failed", "error", err)
		}
	}
}

func (r *SessionRegistry) runRegisterFallbackHooks(hctx RegisterFallbackContext) {
	for _, hook := range r.onRegisterFallbackHooks {
		if err := hook(hctx); err != nil {
			r.logger.Warn("register-fallback hook failed", "error", err)
		}
	}
}

func (r *SessionRegistry) runAfterTeardownHooks(hctx TeardownResultContext) {
	for _, hook := range r.afterTeardownHooks {
		if err := hook(hctx); err != nil {
			r.logger.Warn("after-teardown hook failed", "error", err)
		}
	}
}

func (r *SessionRegistry) runTeardownErrorHooks(hctx TeardownErrorContext) {
	for _, hook := range r.onTeardownErrorHooks {
		if err := hook(hctx); err != nil {
			r.logger.Warn("teardown-error hook failed", "error", err)
		}
	}
}

// checkoutDetails converts the public config to its wire form.
func checkoutDetails(config CheckoutConfig) types.CheckoutDetails {
	fields := make([]types.FormField, 0, len(config.Fields))
	for _, f := range config.Fields {
		fields = append(fields, types.FormField{
			Name:     f.Name,
			Type:     f.Type,
			Label:    f.Label,
			Required: f.Required,
			Options:  f.Options,
		})
	}

	return types.CheckoutDetails{
		ProductName:     config.ProductName,
		Description:     config.Description,
		Price:           config.Price,
		Currency:        config.Currency,
		Network:         string(config.Network),
		RecipientWallet: config.RecipientWallet,
		Fields:          fields,
		RedirectURL:     config.RedirectURL,
		TestMode:        config.TestMode,
	}
}
