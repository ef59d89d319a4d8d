package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	xpay "github.com/xpaysh/xpay-go"
	"github.com/xpaysh/xpay-go/types"
)

// SearchAgents lists published agents via GET /marketplace/search.
func (c *Client) SearchAgents(ctx context.Context, params types.SearchAgentsParams) (*types.AgentList, error) {
	query := url.Values{}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	path := "/marketplace/search"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp types.AgentList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAgent fetches one agent via GET /marketplace/agents/{slug}.
func (c *Client) GetAgent(ctx context.Context, slug string) (*types.Agent, error) {
	if slug == "" {
		return nil, xpay.NewError(xpay.ErrCodeInvalidConfig, "agent slug is required", nil)
	}

	var resp types.Agent
	if err := c.doJSON(ctx, http.MethodGet, "/marketplace/agents/"+url.PathEscape(slug), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListModels lists execution models via GET /marketplace/models.
func (c *Client) ListModels(ctx context.Context) (*types.ModelList, error) {
	var resp types.ModelList
	if err := c.doJSON(ctx, http.MethodGet, "/marketplace/models", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
