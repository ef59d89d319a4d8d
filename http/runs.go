package http

import (
	"context"
	"net/http"
	"net/url"

	xpay "github.com/xpaysh/xpay-go"
	"github.com/xpaysh/xpay-go/types"
)

// SubmitRun enqueues an asynchronous run via POST /run/async.
//
// Each submission carries a fresh Idempotency-Key header so a duplicated
// request at the transport layer cannot start two runs.
func (c *Client) SubmitRun(ctx context.Context, req types.RunRequest) (*types.RunAccepted, error) {
	headers := map[string]string{
		"Idempotency-Key": xpay.NewIdempotencyKey(),
	}

	var resp types.RunAccepted
	if err := c.doJSON(ctx, http.MethodPost, "/run/async", headers, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitRunSync executes a run via POST /run and blocks until the
// service replies with its final status.
func (c *Client) SubmitRunSync(ctx context.Context, req types.RunRequest) (*types.RunStatusResponse, error) {
	headers := map[string]string{
		"Idempotency-Key": xpay.NewIdempotencyKey(),
	}

	var resp types.RunStatusResponse
	if err := c.doJSON(ctx, http.MethodPost, "/run", headers, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunStatus reads a run via GET /run/status/{runId}.
func (c *Client) RunStatus(ctx context.Context, runID string) (*types.RunStatusResponse, error) {
	if runID == "" {
		return nil, xpay.NewError(xpay.ErrCodeInvalidConfig, "run id is required", nil)
	}

	var resp types.RunStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/run/status/"+url.PathEscape(runID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
