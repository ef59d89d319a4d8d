package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Agent is a published marketplace job. InputSchema, when present, is a
// JSON Schema describing the shape of RunRequest.Inputs for this agent.
type Agent struct {
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	PricePerRun decimal.Decimal `json:"pricePerRun"`
	Currency    string          `json:"currency,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
	Models      []string        `json:"models,omitempty"`
}

// AgentList is the reply to GET /marketplace/search.
type AgentList struct {
	Agents []Agent `json:"agents"`
	Total  int     `json:"total"`
}

// Model is an execution model available to marketplace agents.
type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Provider      string `json:"provider,omitempty"`
	ContextWindow int    `json:"contextWindow,omitempty"`
}

// ModelList is the reply to GET /marketplace/models.
type ModelList struct {
	Models []Model `json:"models"`
}

// SearchAgentsParams are the query parameters for GET /marketplace/search.
// Zero values are omitted from the query string.
type SearchAgentsParams struct {
	Query    string
	Category string
	Limit    int
}

// ToAgentList unmarshals bytes to an agent list
func ToAgentList(data []byte) (*AgentList, error) {
	var list AgentList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
