// Package stdlib provides a net/http handler for inbound xpay payment
// webhooks.
package stdlib

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	xpay "github.com/xpaysh/xpay-go"
	xpayhttp "github.com/xpaysh/xpay-go/http"
	"github.com/xpaysh/xpay-go/types"
)

// SessionSource resolves the checkout session and verification mode for
// one inbound webhook request, typically via the session registry keyed
// by a path or query parameter identifying the workflow instance.
type SessionSource func(r *http.Request) (*xpay.CheckoutSession, xpay.Mode, error)

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
func WebhookHandler(sessions SessionSource, onEvent xpayhttp.EventHandler, opts ...Options) http.Handler {
	options := &WebhookHandlerOptions{
		Verifier:     xpay.NewWebhookVerifier(),
		Logger:       slog.Default(),
		MaxBodyBytes: DefaultMaxBodyBytes,
	}

	for _, opt := range opts {
		opt(options)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, types.APIError{Error: "method not allowed"})
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, options.MaxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, types.APIError{Error: "unreadable body"})
			return
		}

		session, mode, err := sessions(r)
		if err != nil {
			options.Logger.Warn("webhook session lookup failed", "error", err)
			writeJSON(w, http.StatusNotFound, types.APIError{Error: "unknown checkout session"})
			return
		}

		outcome := xpayhttp.ProcessWebhook(options.Verifier, session, mode, xpayhttp.WebhookRequestFrom(r, body))

		if !outcome.Accepted() {
			options.Logger.Warn("webhook rejected",
				"reason", outcome.Verification.Reason,
				"detail", outcome.Verification.Message)
			writeJSON(w, outcome.StatusCode, outcome.Body)
			return
		}

		if onEvent != nil {
			if err := onEvent(r.Context(), outcome.Event); err != nil {
				options.Logger.Error("webhook event handler failed",
					"event_id", outcome.Event.EventID,
					"error", err)
				writeJSON(w, http.StatusInternalServerError, types.APIError{Error: "event processing failed"})
				return
			}
		}

		writeJSON(w, outcome.StatusCode, outcome.Body)
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
