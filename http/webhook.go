package http

import (
	"context"
	"net/http"
	"time"

	xpay "github.com/xpaysh/xpay-go"
	"github.com/xpaysh/xpay-go/types"
)

// EventHandler receives verified payment events from a webhook handler.
// A non-nil error makes the handler answer 500 so the payment service
// redelivers the confirmation.
type EventHandler func(ctx context.Context, event *xpay.PaymentEvent) error

// WebhookRequest holds the pieces of one inbound webhook HTTP request
// that verification needs. Body must be the raw received bytes.
type WebhookRequest struct {
	Body      []byte
	Signature string
	Timestamp string
}

// WebhookRequestFrom extracts the verification inputs from an HTTP
// request whose body has already been read.
func WebhookRequestFrom(r *http.Request, body []byte) WebhookRequest {
	return WebhookRequest{
		Body:      body,
		Signature: r.Header.Get(types.HeaderSignature),
		Timestamp: r.Header.Get(types.HeaderTimestamp),
	}
}

// WebhookOutcome is the decision for one inbound webhook: the HTTP
// status and JSON body to answer with, and the verified event when the
// request was accepted and parseable.
type WebhookOutcome struct {
	// Event is the payment confirmation, nil unless accepted and parsed.
	Event *xpay.PaymentEvent

	// Verification is the verifier's decision.
	Verification xpay.VerifyResult

	// StatusCode and Body are the HTTP response to send.
	StatusCode int
	Body       interface{}
}

// Accepted reports whether the webhook produced an event.
func (o WebhookOutcome) Accepted() bool {
	return o.Event != nil
}

// ProcessWebhook verifies and decodes one inbound payment confirmation.
//
// Rejected verification answers 401 with the rejection reason; an
// accepted request whose body is not a valid envelope answers 400, since
// a parse failure is not an authentication failure. Accepted requests
// answer 200 with {"success":true} and carry the decoded event, flagged
// Bypassed when verification was skipped.
func ProcessWebhook(verifier *xpay.WebhookVerifier, session *xpay.CheckoutSession, mode xpay.Mode, req WebhookRequest) WebhookOutcome {
	result := verifier.Verify(session, mode, req.Body, req.Signature, req.Timestamp)
	if !result.Accepted {
		return WebhookOutcome{
			Verification: result,
			StatusCode:   http.StatusUnauthorized,
			Body:         types.APIError{Error: result.Reason},
		}
	}

	envelope, err := types.ToWebhookEnvelope(req.Body)
	if err != nil {
		return WebhookOutcome{
			Verification: result,
			StatusCode:   http.StatusBadRequest,
			Body:         types.APIError{Error: "invalid payload"},
		}
	}

	var paidAt time.Time
	if envelope.Payment.Timestamp != 0 {
		paidAt = time.Unix(envelope.Payment.Timestamp, 0).UTC()
	}

	event := &xpay.PaymentEvent{
		EventID:   xpay.NewEventID(),
		TxHash:    envelope.Payment.TxHash,
		Amount:    envelope.Payment.Amount,
		Currency:  envelope.Payment.Currency,
		Payer:     envelope.Payment.Payer,
		Network:   xpay.Network(envelope.Payment.Network),
		Timestamp: paidAt,
		Input:     envelope.Input,
		Bypassed:  result.Bypassed,
	}

	return WebhookOutcome{
		Event:        event,
		Verification: result,
		StatusCode:   http.StatusOK,
		Body:         types.WebhookAck{Success: true},
	}
}
