package xpay

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects how inbound payment confirmations are authenticated.
// In test mode signature verification is skipped entirely.
type Mode string

const (
	ModeLive Mode = "live"
	ModeTest Mode = "test"
)

// Network identifies the blockchain network a checkout settles on,
// e.g. "base", "base-sepolia", "solana".
type Network string

// Parse splits a CAIP-style network identifier ("eip155:8453") into its
// namespace and reference. Plain names ("base") return an error.
func (n Network) Parse() (namespace, reference string, err error) {
	parts := strings.Split(string(n), ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid network format: %s", n)
	}
	return parts[0], parts[1], nil
}

// CheckoutField describes one input field collected on the hosted
// checkout page before payment.
type CheckoutField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Label    string   `json:"label,omitempty"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// Checkout field types accepted by the hosted checkout page.
const (
	FieldTypeText     = "text"
	FieldTypeTextarea = "textarea"
	FieldTypeNumber   = "number"
	FieldTypeBoolean  = "boolean"
	FieldTypeSelect   = "select"
	FieldTypeEmail    = "email"
)

// CheckoutConfig is the product configuration sent when registering a
// checkout session. Price is the human-readable amount in Currency units.
type CheckoutConfig struct {
	ProductName     string          `json:"product_name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	Network         Network         `json:"network"`
	RecipientWallet string          `json:"recipient_wallet"`
	Fields          []CheckoutField `json:"fields,omitempty"`
	RedirectURL     string          `json:"redirect_url,omitempty"`
	TestMode        bool            `json:"test_mode,omitempty"`
}

// Validate reports whether the config is complete enough to register.
func (c CheckoutConfig) Validate() error {
	if c.ProductName == "" {
		return NewError(ErrCodeInvalidConfig, "product_name is required", nil)
	}
	if c.Price.IsNegative() || c.Price.IsZero() {
		return NewError(ErrCodeInvalidConfig, "price must be positive", nil)
	}
	if c.Currency == "" {
		return NewError(ErrCodeInvalidConfig, "currency is required", nil)
	}
	if c.RecipientWallet == "" {
		return NewError(ErrCodeInvalidConfig, "recipient_wallet is required", nil)
	}
	return nil
}

// PaymentEvent is a verified payment confirmation, ready to hand to the
// host workflow. EventID is assigned locally; the remaining payment fields
// come from the webhook payload as the sender reported them.
type PaymentEvent struct {
	EventID   string                 `json:"event_id"`
	TxHash    string                 `json:"txHash"`
	Amount    decimal.Decimal        `json:"amount"`
	Currency  string                 `json:"currency"`
	Payer     string                 `json:"payer"`
	Network   Network                `json:"network"`
	Timestamp time.Time              `json:"timestamp"`
	Input     map[string]interface{} `json:"input,omitempty"`

	// Bypassed is true when the event was accepted without signature
	// verification (test mode or a local-fallback session). Hosts should
	// not treat bypassed events as settled payments.
	Bypassed bool `json:"bypassed,omitempty"`
}
