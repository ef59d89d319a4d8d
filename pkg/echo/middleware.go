// Package echo provides an Echo handler for inbound xpay payment
// webhooks.
package echo

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	xpay "github.com/xpaysh/xpay-go"
	xpayhttp "github.com/xpaysh/xpay-go/http"
	"github.com/xpaysh/xpay-go/types"
)

// SessionSource resolves the checkout session and verification mode for
// one inbound webhook request. The echo context gives access to path
// parameters, e.g. the workflow instance ID in the callback URL.
type SessionSource func(c echo.Context) (*xpay.CheckoutSession, xpay.Mode, error)

// WebhookHandlerOptions is the options for the WebhookHandler.
type WebhookHandlerOptions struct {
	Verifier     *xpay.WebhookVerifier
	Logger       *slog.Logger
	MaxBodyBytes int64
}

// Options is the type for the options for the WebhookHandler.
type Options func(*WebhookHandlerOptions)

// WithVerifier is an option for the WebhookHandler to set a custom verifier.
func WithVerifier(verifier *xpay.WebhookVerifier) Options {
	return func(options *WebhookHandlerOptions) {
		options.Verifier = verifier
	}
}

// WithLogger is an option for the WebhookHandler to set the logger.
func WithLogger(logger *slog.Logger) Options {
	return func(options *WebhookHandlerOptions) {
		options.Logger = logger
	}
}

// WithMaxBodyBytes is an option for the WebhookHandler to cap the request body size.
func WithMaxBodyBytes(n int64) Options {
	return func(options *WebhookHandlerOptions) {
		options.MaxBodyBytes = n
	}
}

// DefaultMaxBodyBytes caps webhook request bodies at 1 MiB.
const DefaultMaxBodyBytes = 1 << 20

// WebhookHandler handles inbound payment confirmations.
//
// The raw body is read before any parsing, since the signature covers
// the exact received bytes. Verified events are passed to onEvent;
// rejected requests answer 401 with the rejection reason.
func WebhookHandler(sessions SessionSource, onEvent xpayhttp.EventHandler, opts ...Options) echo.HandlerFunc {
	options := &WebhookHandlerOptions{
		Verifier:     xpay.NewWebhookVerifier(),
		Logger:       slog.Default(),
		MaxBodyBytes: DefaultMaxBodyBytes,
	}

	for _, opt := range opts {
		opt(options)
	}

	return func(c echo.Context) error {
		body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, options.MaxBodyBytes))
		if err != nil {
			return c.JSON(http.StatusBadRequest, types.APIError{Error: "unreadable body"})
		}

		session, mode, err := sessions(c)
		if err != nil {
			options.Logger.Warn("webhook session lookup failed", "error", err)
			return c.JSON(http.StatusNotFound, types.APIError{Error: "unknown checkout session"})
		}

		outcome := xpayhttp.ProcessWebhook(options.Verifier, session, mode, xpayhttp.WebhookRequestFrom(c.Request(), body))

		if !outcome.Accepted() {
			options.Logger.Warn("webhook rejected",
				"reason", outcome.Verification.Reason,
				"detail", outcome.Verification.Message)
			return c.JSON(outcome.StatusCode, outcome.Body)
		}

		if onEvent != nil {
			if err := onEvent(c.Request().Context(), outcome.Event); err != nil {
				options.Logger.Error("webhook event handler failed",
					"event_id", outcome.Event.EventID,
					"error", err)
				return c.JSON(http.StatusInternalServerError, types.APIError{Error: "event processing failed"})
			}
		}

		return c.JSON(outcome.StatusCode, outcome.Body)
	}
}
