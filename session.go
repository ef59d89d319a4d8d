package xpay

import "time"

// SessionStatus tags the lifecycle state of a checkout session.
type SessionStatus string

const (
	// SessionActive is a session registered with the payment service.
	SessionActive SessionStatus = "active"

	// SessionLocalFallback is a session created locally after remote
	// registration failed. It has no hosted checkout and accepts only
	// unsigned (test mode) traffic.
	SessionLocalFallback SessionStatus = "local-fallback"

	// SessionRetired is a session that has been torn down.
	SessionRetired SessionStatus = "retired"
)

// Fallback session identity, used when the payment service cannot be
// reached during activation. The sentinel values are fixed so operators
// can recognize degraded sessions in storage and logs.
const (
	FallbackCheckoutID    = "chk_local_fallback"
	FallbackWebhookSecret = "xpay_local_fallback_secret"
)

// CheckoutSession is the durable identity of one registered checkout.
// WebhookSecret is immutable for the lifetime of the session.
type CheckoutSession struct {
	CheckoutID    string        `json:"checkout_id"`
	CheckoutURL   string        `json:"checkout_url,omitempty"`
	WebhookSecret string        `json:"webhook_secret"`
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// IsFallback reports whether the session was created by the local
// registration fallback.
func (s *CheckoutSession) IsFallback() bool {
	return s.Status == SessionLocalFallback
}

// CanAuthenticate reports whether the session may be used to verify
// signed webhook traffic. Retired and fallback sessions never can.
func (s *CheckoutSession) CanAuthenticate() bool {
	return s.Status == SessionActive
}

// normalize repairs sessions persisted by older integrations that stored
// the fallback sentinel secret under an active status. Branching on the
// status tag is only sound after this runs.
func (s *CheckoutSession) normalize() *CheckoutSession {
	if s == nil {
		return nil
	}
	if s.WebhookSecret == FallbackWebhookSecret && s.Status != SessionRetired {
		s.Status = SessionLocalFallback
	}
	return s
}

// newFallbackSession builds the fixed local-fallback session identity.
func newFallbackSession(now time.Time) *CheckoutSession {
	return &CheckoutSession{
		CheckoutID:    FallbackCheckoutID,
		WebhookSecret: FallbackWebhookSecret,
		Status:        SessionLocalFallback,
		CreatedAt:     now,
	}
}
