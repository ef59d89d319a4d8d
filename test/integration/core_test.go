package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	xpay "github.com/xpaysh/xpay-go"
	xpayhttp "github.com/xpaysh/xpay-go/http"
	"github.com/xpaysh/xpay-go/pkg/stdlib"
	"github.com/xpaysh/xpay-go/types"
)

// platformServer fakes the xpay platform API: checkout registration and
// teardown, async run submission, and status polling.
type platformServer struct {
	mu            sync.Mutex
	registrations int
	deletions     []string
	statusCalls   int
	runStatuses   []string
}

func newPlatformServer(t *testing.T, runStatuses ...string) (*platformServer, *httptest.Server) {
	t.Helper()
	p := &platformServer{runStatuses: runStatuses}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/webhooks/register", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.registrations++
		p.mu.Unlock()

		var req types.RegisterCheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode registration: %v", err)
		}
		if req.Config.Currency != "USDC" {
			t.Errorf("Unexpected currency %s", req.Config.Currency)
		}

		json.NewEncoder(w).Encode(types.RegisterCheckoutResponse{
			CheckoutID:    "chk_1",
			CheckoutURL:   "https://pay.example/chk_1",
			WebhookSecret: "s3cr3t",
		})
	})
	mux.HandleFunc("/v1/webhooks/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		p.mu.Lock()
		p.deletions = append(p.deletions, strings.TrimPrefix(r.URL.Path, "/v1/webhooks/"))
		p.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/run/async", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.RunAccepted{
			Accepted:  true,
			RunID:     "run_1",
			Status:    "queued",
			StatusURL: "/run/status/run_1",
		})
	})
	mux.HandleFunc("/run/status/", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		idx := p.statusCalls
		if idx >= len(p.runStatuses) {
			idx = len(p.runStatuses) - 1
		}
		status := p.runStatuses[idx]
		p.statusCalls++
		p.mu.Unlock()

		resp := types.RunStatusResponse{
			RunID:  strings.TrimPrefix(r.URL.Path, "/run/status/"),
			Status: status,
		}
		if status == "completed" {
			resp.Output = []byte(`{"summary":"done"}`)
			cost := decimal.RequireFromString("0.02")
			resp.Cost = &cost
			resp.DurationMs = 1200
		}
		json.NewEncoder(w).Encode(resp)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return p, server
}

func TestPaymentGatedRunFlow(t *testing.T) {
	ctx := context.Background()
	platform, server := newPlatformServer(t, "processing", "completed")

	client := xpayhttp.NewClient(&xpayhttp.ClientConfig{BaseURL: server.URL, APIKey: "key_test"})
	registry := xpay.NewSessionRegistry(client)

	// activation: register a checkout session
	session, err := registry.Create(ctx, "wf_1", "https://host.example/hooks/wf_1", xpay.CheckoutConfig{
		ProductName:     "Research Agent",
		Price:           decimal.NewFromInt(5),
		Currency:        "USDC",
		Network:         "base",
		RecipientWallet: "0x1111111111111111111111111111111111111111",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if session.Status != xpay.SessionActive || session.WebhookSecret != "s3cr3t" {
		t.Fatalf("Unexpected session: %+v", session)
	}

	// repeat activation issues no second registration
	if _, err := registry.Create(ctx, "wf_1", "https://host.example/hooks/wf_1", xpay.CheckoutConfig{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if platform.registrations != 1 {
		t.Errorf("Expected one remote registration, got %d", platform.registrations)
	}

	// inbound payment confirmation, signed with the session secret
	now := time.Now()
	verifier := xpay.NewWebhookVerifier(xpay.WithTimeSource(func() time.Time { return now }))

	var event *xpay.PaymentEvent
	webhook := stdlib.WebhookHandler(
		func(r *http.Request) (*xpay.CheckoutSession, xpay.Mode, error) {
			s, err := registry.Get(r.Context(), "wf_1")
			return s, xpay.ModeLive, err
		},
		func(ctx context.Context, e *xpay.PaymentEvent) error {
			event = e
			return nil
		},
		stdlib.WithVerifier(verifier),
	)

	body := []byte(`{"payment":{"txHash":"0xabc","amount":"5","currency":"USDC","payer":"0x2222222222222222222222222222222222222222","network":"base","timestamp":` + strconv.FormatInt(now.Unix(), 10) + `},"input":{"topic":"golang"}}`)
	ts := strconv.FormatInt(now.Unix(), 10)

	req := httptest.NewRequest(http.MethodPost, "/hooks/wf_1", bytes.NewReader(body))
	req.Header.Set(types.HeaderSignature, xpay.SignPayload(session.WebhookSecret, ts, body))
	req.Header.Set(types.HeaderTimestamp, ts)

	rec := httptest.NewRecorder()
	webhook.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if event == nil || event.Amount.String() != "5" || event.Input["topic"] != "golang" {
		t.Fatalf("Unexpected event: %+v", event)
	}

	// the paid event triggers a run, polled to completion
	runner := xpay.NewRunner(client)
	handle, err := runner.Submit(ctx, xpay.JobSpec{
		JobSlug: "research-agent",
		ModelID: "gpt-4o",
		Inputs:  event.Input,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	run, err := runner.AwaitCompletion(ctx, handle, xpay.PollConfig{Interval: time.Millisecond, Timeout: time.Second})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if run.Status != xpay.RunCompleted {
		t.Fatalf("Expected completed, got %s (%s)", run.Status, run.Error)
	}
	if string(run.Output) != `{"summary":"done"}` {
		t.Errorf("Unexpected output %s", run.Output)
	}
	if run.Cost == nil || run.Cost.String() != "0.02" {
		t.Errorf("Unexpected cost %v", run.Cost)
	}

	// deactivation retires the checkout and clears state
	if err := registry.Delete(ctx, "wf_1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(platform.deletions) != 1 || platform.deletions[0] != "chk_1" {
		t.Errorf("Expected chk_1 retired remotely, got %v", platform.deletions)
	}

	exists, _ := registry.Exists(ctx, "wf_1")
	if exists {
		t.Error("Expected session cleared after deactivation")
	}

	// repeat deactivation is a no-op success
	if err := registry.Delete(ctx, "wf_1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(platform.deletions) != 1 {
		t.Errorf("Expected no second remote delete, got %v", platform.deletions)
	}
}

func TestFallbackFlowAcceptsOnlyUnsignedTraffic(t *testing.T) {
	ctx := context.Background()

	// unreachable platform: registration falls back locally
	client := xpayhttp.NewClient(&xpayhttp.ClientConfig{BaseURL: "http://127.0.0.1:1", Timeout: 50 * time.Millisecond})
	registry := xpay.NewSessionRegistry(client)

	session, err := registry.Create(ctx, "wf_1", "https://host.example/hooks/wf_1", xpay.CheckoutConfig{
		ProductName:     "Research Agent",
		Price:           decimal.NewFromInt(5),
		Currency:        "USDC",
		Network:         "base",
		RecipientWallet: "0x1111111111111111111111111111111111111111",
	})
	if err != nil {
		t.Fatalf("Activation must survive an unreachable platform, got %v", err)
	}
	if !session.IsFallback() {
		t.Fatalf("Expected a fallback session, got %+v", session)
	}

	verifier := xpay.NewWebhookVerifier()

	// unsigned traffic is accepted, flagged bypassed
	result := verifier.Verify(session, xpay.ModeLive, []byte(`{"payment":{}}`), "", "")
	if !result.Accepted || !result.Bypassed {
		t.Errorf("Expected bypassed acceptance, got %+v", result)
	}

	// teardown needs no remote call and clears state
	if err := registry.Delete(ctx, "wf_1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	exists, _ := registry.Exists(ctx, "wf_1")
	if exists {
		t.Error("Expected fallback session cleared")
	}
}
