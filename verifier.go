package xpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xpaysh/xpay-go/types"
)

// DefaultFreshnessWindow is the maximum accepted clock skew between a
// webhook's timestamp header and local time, in either direction.
const DefaultFreshnessWindow = 5 * time.Minute

// VerifyResult is the outcome of checking one inbound webhook.
type VerifyResult struct {
	// Accepted is true when the request may be processed.
	Accepted bool

	// Bypassed is true when the request was accepted without signature
	// verification (test mode or a local-fallback session). Bypassed
	// events must not be treated as settled payments.
	Bypassed bool

	// Reason is the rejection error code, empty when accepted.
	Reason string

	// Message carries rejection detail for logs. Never sent to the
	// webhook sender beyond the Reason code.
	Message string
}

// WebhookVerifier authenticates inbound payment confirmations.
//
// The signature header must carry an HMAC-SHA256 hex digest, optionally
// prefixed with "sha256=", computed over "<timestamp>.<raw body>" with the
// session's webhook secret. The digest is compared in constant time, and
// the timestamp must fall within the freshness window of local time.
type WebhookVerifier struct {
	window time.Duration
	now    func() time.Time
}

// VerifierOption configures a WebhookVerifier.
type VerifierOption func(*WebhookVerifier)

// WithFreshnessWindow overrides the accepted timestamp skew.
func WithFreshnessWindow(d time.Duration) VerifierOption {
	return func(v *WebhookVerifier) {
		v.window = d
	}
}

// WithTimeSource overrides the wall clock, for tests.
func WithTimeSource(now func() time.Time) VerifierOption {
	return func(v *WebhookVerifier) {
		v.now = now
	}
}

// NewWebhookVerifier creates a verifier with the default freshness window.
func NewWebhookVerifier(opts ...VerifierOption) *WebhookVerifier {
	v := &WebhookVerifier{
		window: DefaultFreshnessWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks one webhook request against the session's secret.
//
// body must be the raw received bytes, not a re-serialization: any byte
// difference changes the digest. signatureHeader and timestampHeader are
// the values of the X-Signature and X-Timestamp headers.
//
// Test mode and local-fallback sessions bypass verification entirely and
// the result is flagged Bypassed. Verify never returns an error; every
// outcome is a result the HTTP layer can map to a response.
func (v *WebhookVerifier) Verify(session *CheckoutSession, mode Mode, body []byte, signatureHeader, timestampHeader string) VerifyResult {
	if mode == ModeTest || (session != nil && session.IsFallback()) {
		return VerifyResult{Accepted: true, Bypassed: true}
	}

	if signatureHeader == "" || timestampHeader == "" {
		return rejected(ErrCodeMissingHeaders, "signature or timestamp header missing")
	}

	if session == nil || !session.CanAuthenticate() {
		return rejected(ErrCodeBadSignature, "no active checkout session to authenticate against")
	}

	provided, err := hex.DecodeString(strings.TrimPrefix(signatureHeader, types.SignaturePrefix))
	if err != nil {
		return rejected(ErrCodeBadSignature, "signature is not valid hex")
	}

	mac := hmac.New(sha256.New, []byte(session.WebhookSecret))
	mac.Write([]byte(timestampHeader))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := mac.Sum(nil)

	if subtle.ConstantTimeCompare(provided, expected) != 1 {
		return rejected(ErrCodeBadSignature, "signature mismatch")
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(timestampHeader), 10, 64)
	if err != nil {
		return rejected(ErrCodeStaleTimestamp, "timestamp is not a unix time")
	}

	skew := v.now().Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.window {
		return rejected(ErrCodeStaleTimestamp, fmt.Sprintf("timestamp outside %s freshness window", v.window))
	}

	return VerifyResult{Accepted: true}
}

func rejected(reason, message string) VerifyResult {
	return VerifyResult{Reason: reason, Message: message}
}

// SignPayload computes the signature value for a body and timestamp,
// including the "sha256=" prefix. Used by tests and by senders.
func SignPayload(secret string, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return types.SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
