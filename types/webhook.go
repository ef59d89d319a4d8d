package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Webhook authentication headers. The signature covers
// "<timestamp>.<raw body>" with the session's webhook secret.
const (
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"

	// SignaturePrefix may precede the hex digest in HeaderSignature.
	SignaturePrefix = "sha256="
)

// WebhookEnvelope is the body of an inbound payment confirmation.
type WebhookEnvelope struct {
	Payment PaymentNotice          `json:"payment"`
	Input   map[string]interface{} `json:"input,omitempty"`
}

// PaymentNotice carries the on-chain payment details as reported by the
// payment service. Timestamp is unix seconds.
type PaymentNotice struct {
	TxHash    string          `json:"txHash"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Payer     string          `json:"payer"`
	Network   string          `json:"network"`
	Timestamp int64           `json:"timestamp"`
}

// WebhookAck is the success body returned to the payment service.
type WebhookAck struct {
	Success bool `json:"success"`
}

// APIError is the error body used across platform endpoints and
// returned to the payment service on rejected webhooks.
type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ToWebhookEnvelope unmarshals bytes to a webhook envelope
func ToWebhookEnvelope(data []byte) (*WebhookEnvelope, error) {
	var env WebhookEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
