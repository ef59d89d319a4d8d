package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RunRequest is the body for POST /run and POST /run/async.
type RunRequest struct {
	JobSlug     string                 `json:"jobSlug"`
	ModelID     string                 `json:"modelId"`
	Inputs      map[string]interface{} `json:"inputs,omitempty"`
	Temperature *float64               `json:"temperature,omitempty"`
	MaxTokens   *int                   `json:"maxTokens,omitempty"`
}

// RunAccepted is the reply to an async submission. When Accepted is false
// the run was rejected before entering the queue and Error says why.
type RunAccepted struct {
	Accepted  bool   `json:"accepted"`
	RunID     string `json:"runId"`
	Status    string `json:"status"`
	StatusURL string `json:"statusUrl,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RunStatusResponse is the reply to GET /run/status/{runId} and the body
// of a synchronous POST /run. DurationMs is wall time in milliseconds.
type RunStatusResponse struct {
	RunID      string           `json:"runId"`
	Status     string           `json:"status"`
	Output     json.RawMessage  `json:"output,omitempty"`
	Error      string           `json:"error,omitempty"`
	Cost       *decimal.Decimal `json:"cost,omitempty"`
	DurationMs int64            `json:"duration,omitempty"`
}

// ToRunAccepted unmarshals bytes to a run submission reply
func ToRunAccepted(data []byte) (*RunAccepted, error) {
	var resp RunAccepted
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToRunStatusResponse unmarshals bytes to a run status reply
func ToRunStatusResponse(data []byte) (*RunStatusResponse, error) {
	var resp RunStatusResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
