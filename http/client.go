// Package http provides the HTTP client for the xpay platform API and
// the framework-agnostic inbound webhook processing used by the pkg/
// handlers.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	xpay "github.com/xpaysh/xpay-go"
	"github.com/xpaysh/xpay-go/types"
)

// ============================================================================
// Platform HTTP Client
// ============================================================================

// Environment selects a platform deployment.
type Environment string

const (
	EnvProduction Environment = "production"
	EnvSandbox    Environment = "sandbox"
)

// Base URLs per environment.
const (
	ProductionBaseURL = "https://api.xpay.sh"
	SandboxBaseURL    = "https://api.sandbox.xpay.sh"
)

// DefaultTimeout applies when ClientConfig sets neither a timeout nor an
// HTTP client.
const DefaultTimeout = 30 * time.Second

// AuthProvider generates authentication headers for platform requests.
type AuthProvider interface {
	AuthHeaders(ctx context.Context) (map[string]string, error)
}

// APIKeyAuth authenticates with a static key in the X-Api-Key header.
type APIKeyAuth struct {
	Key string
}

// AuthHeaders implements AuthProvider.
func (a APIKeyAuth) AuthHeaders(_ context.Context) (map[string]string, error) {
	return map[string]string{"X-Api-Key": a.Key}, nil
}

// ClientConfig configures the platform client.
type ClientConfig struct {
	// BaseURL overrides the environment base URL (optional).
	BaseURL string

	// Environment selects production or sandbox. Defaults to production.
	Environment Environment

	// APIKey authenticates requests when AuthProvider is nil.
	APIKey string

	// AuthProvider provides authentication headers (optional).
	AuthProvider AuthProvider

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *http.Client

	// Timeout for requests (optional, defaults to 30s).
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header (optional).
	UserAgent string

	// Logger for request-level warnings (optional).
	Logger *slog.Logger
}

// Client talks to the xpay platform API: checkout registration, run
// submission and status, and the marketplace.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	authProvider AuthProvider
	userAgent    string
	logger       *slog.Logger
}

// Compile-time interface checks
var (
	_ xpay.PaymentService     = (*Client)(nil)
	_ xpay.ExecutionService   = (*Client)(nil)
	_ xpay.MarketplaceService = (*Client)(nil)
)

// NewClient creates a platform client.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = &ClientConfig{}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		switch config.Environment {
		case EnvSandbox:
			baseURL = SandboxBaseURL
		default:
			baseURL = ProductionBaseURL
		}
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	authProvider := config.AuthProvider
	if authProvider == nil && config.APIKey != "" {
		authProvider = APIKeyAuth{Key: config.APIKey}
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "xpay-go/" + xpay.Version
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:      baseURL,
		httpClient:   httpClient,
		authProvider: authProvider,
		userAgent:    userAgent,
		logger:       logger,
	}
}

// BaseURL returns the resolved platform base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ============================================================================
// Checkout Endpoints (PaymentService)
// ============================================================================

// RegisterCheckout creates a hosted checkout via POST /v1/webhooks/register.
func (c *Client) RegisterCheckout(ctx context.Context, req types.RegisterCheckoutRequest) (*types.RegisterCheckoutResponse, error) {
	var resp types.RegisterCheckoutResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/webhooks/register", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.CheckoutID == "" || resp.WebhookSecret == "" {
		return nil, xpay.NewError(xpay.ErrCodeRegistrationFailed,
			"registration response missing checkout identity", nil)
	}
	return &resp, nil
}

// DeleteCheckout retires a hosted checkout via DELETE /v1/webhooks/{id}.
func (c *Client) DeleteCheckout(ctx context.Context, checkoutID string) error {
	if checkoutID == "" {
		return xpay.NewError(xpay.ErrCodeInvalidConfig, "checkout id is required", nil)
	}
	return c.doJSON(ctx, http.MethodDelete, "/v1/webhooks/"+url.PathEscape(checkoutID), nil, nil, nil)
}

// ============================================================================
// Internal request plumbing
// ============================================================================

// doJSON performs one JSON request. A nil out discards the response body;
// non-2xx statuses are mapped to *xpay.Error.
func (c *Client) doJSON(ctx context.Context, method, path string, headers map[string]string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.authProvider != nil {
		authHeaders, err := c.authProvider.AuthHeaders(ctx)
		if err != nil {
			return fmt.Errorf("failed to get auth headers: %w", err)
		}
		for k, v := range authHeaders {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(method, path, resp.StatusCode, responseBody)
	}

	if out == nil || len(responseBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiError maps a non-2xx platform reply to a typed error, preserving the
// service's error code and message when the body carries them.
func (c *Client) apiError(method, path string, status int, body []byte) error {
	details := map[string]interface{}{"status": status}

	var apiErr types.APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		code := apiErr.Code
		if code == "" {
			code = xpay.ErrCodeRemoteError
		}
		return xpay.NewError(code, apiErr.Error, details)
	}

	return xpay.NewError(xpay.ErrCodeRemoteError,
		fmt.Sprintf("%s %s failed (%d): %s", method, path, status, truncateBody(body)),
		details)
}

// truncateBody keeps error messages readable when the service returns a
// large or non-JSON body.
func truncateBody(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
