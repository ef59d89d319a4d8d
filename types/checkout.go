package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RegisterCheckoutRequest is the body for POST /v1/webhooks/register.
// CallbackURL is where the payment service delivers signed confirmations.
type RegisterCheckoutRequest struct {
	CallbackURL string          `json:"callback_url"`
	Config      CheckoutDetails `json:"config"`
}

// CheckoutDetails is the product configuration of a hosted checkout.
type CheckoutDetails struct {
	ProductName     string          `json:"product_name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	Network         string          `json:"network"`
	RecipientWallet string          `json:"recipient_wallet"`
	Fields          []FormField     `json:"fields,omitempty"`
	RedirectURL     string          `json:"redirect_url,omitempty"`
	TestMode        bool            `json:"test_mode,omitempty"`
}

// FormField describes one checkout page input field.
type FormField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Label    string   `json:"label,omitempty"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// RegisterCheckoutResponse is the payment service reply to a successful
// registration. WebhookSecret signs every confirmation for this checkout.
type RegisterCheckoutResponse struct {
	CheckoutID    string `json:"checkout_id"`
	CheckoutURL   string `json:"checkout_url"`
	WebhookSecret string `json:"webhook_secret"`
}

// ToRegisterCheckoutResponse unmarshals bytes to a registration response
func ToRegisterCheckoutResponse(data []byte) (*RegisterCheckoutResponse, error) {
	var resp RegisterCheckoutResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
