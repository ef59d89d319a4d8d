package xpay

import (
	"context"

	"github.com/xpaysh/xpay-go/types"
)

// ============================================================================
// Platform Service Interfaces
// ============================================================================

// PaymentService is the checkout lifecycle surface of the platform.
// The HTTP implementation lives in the http package; tests substitute
// in-process fakes.
type PaymentService interface {
	// RegisterCheckout creates a hosted checkout and returns its identity
	// plus the webhook secret that signs confirmations for it.
	RegisterCheckout(ctx context.Context, req types.RegisterCheckoutRequest) (*types.RegisterCheckoutResponse, error)

	// DeleteCheckout retires a hosted checkout. Deleting an unknown
	// checkout is an error the caller decides how to treat.
	DeleteCheckout(ctx context.Context, checkoutID string) error
}

// ExecutionService is the run submission and status surface of the
// platform.
type ExecutionService interface {
	// SubmitRun enqueues an asynchronous run.
	SubmitRun(ctx context.Context, req types.RunRequest) (*types.RunAccepted, error)

	// SubmitRunSync executes a run synchronously and returns its final
	// status. Intended for short jobs only.
	SubmitRunSync(ctx context.Context, req types.RunRequest) (*types.RunStatusResponse, error)

	// RunStatus reads the current status of a run. Safe to call any
	// number of times, including after the run is terminal.
	RunStatus(ctx context.Context, runID string) (*types.RunStatusResponse, error)
}

// MarketplaceService lists published agents and execution models.
type MarketplaceService interface {
	SearchAgents(ctx context.Context, params types.SearchAgentsParams) (*types.AgentList, error)
	GetAgent(ctx context.Context, slug string) (*types.Agent, error)
	ListModels(ctx context.Context) (*types.ModelList, error)
}
