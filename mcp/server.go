package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	xpay "github.com/xpaysh/xpay-go"
	"github.com/xpaysh/xpay-go/schema"
	"github.com/xpaysh/xpay-go/types"
)

// ToolHandler is the signature the MCP SDK expects for tool handlers.
type ToolHandler func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error)

// RunExecutor submits a job and waits for its terminal state. It is the
// slice of xpay.Runner that tool handlers need; tests substitute fakes.
type RunExecutor interface {
	Execute(ctx context.Context, spec xpay.JobSpec, config xpay.PollConfig) (*xpay.AsyncRun, error)
}

// Compile-time interface check
var _ RunExecutor = (*xpay.Runner)(nil)

// Config wires agent tools to the platform.
type Config struct {
	// Marketplace lists the agents to expose.
	Marketplace xpay.MarketplaceService

	// Runner executes tool calls.
	Runner RunExecutor

	// ModelID is the execution model used when an agent does not pin
	// one. Required for agents without models.
	ModelID string

	// Poll bounds each tool call. Zero fields take the SDK defaults.
	Poll xpay.PollConfig

	// ValidateInputs rejects tool arguments that fail the agent's
	// published input schema before submitting a run.
	ValidateInputs bool

	// Logger for tool call events (optional).
	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// RegisterAgentTools lists published marketplace agents and registers
// one tool per agent on the server. Returns the number of tools
// registered.
func RegisterAgentTools(ctx context.Context, server *mcpsdk.Server, config Config) (int, error) {
	if config.Marketplace == nil {
		return 0, xpay.NewError(xpay.ErrCodeInvalidConfig, "marketplace service is required", nil)
	}
	if config.Runner == nil {
		return 0, xpay.NewError(xpay.ErrCodeInvalidConfig, "runner is required", nil)
	}

	list, err := config.Marketplace.SearchAgents(ctx, types.SearchAgentsParams{})
	if err != nil {
		return 0, fmt.Errorf("list agents: %w", err)
	}

	registered := 0
	for _, agent := range list.Agents {
		tool, handler := AgentTool(agent, config)
		server.AddTool(tool, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			return handler(ctx, req)
		})
		registered++
	}

	config.logger().Info("registered marketplace agent tools", "count", registered)
	return registered, nil
}

// AgentTool builds the MCP tool definition and handler for one agent.
//
// The tool's input schema is the agent's published schema, or an open
// object when the agent publishes none. The handler runs the agent to a
// terminal state; failed and timed-out runs come back as tool errors
// rather than protocol errors so MCP clients can read the reason.
func AgentTool(agent types.Agent, config Config) (*mcpsdk.Tool, ToolHandler) {
	tool := &mcpsdk.Tool{
		Name:        toolName(agent.Slug),
		Description: toolDescription(agent),
		InputSchema: inputSchema(agent),
	}

	handler := func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		args := make(map[string]interface{})
		if req.Params.Arguments != nil {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
		}

		if config.ValidateInputs {
			if result := schema.ValidateAgentInputs(&agent, args); !result.Valid {
				return toolError("invalid inputs: " + strings.Join(result.Errors, "; ")), nil
			}
		}

		modelID := config.ModelID
		if len(agent.Models) > 0 {
			modelID = agent.Models[0]
		}

		run, err := config.Runner.Execute(ctx, xpay.JobSpec{
			JobSlug: agent.Slug,
			ModelID: modelID,
			Inputs:  args,
		}, config.Poll)
		if err != nil {
			config.logger().Warn("agent tool run failed",
				"agent", agent.Slug,
				"error", err)
			return toolError(err.Error()), nil
		}

		switch run.Status {
		case xpay.RunCompleted:
			return completedResult(run), nil
		case xpay.RunTimedOut:
			return toolError(fmt.Sprintf("run %s timed out: %s", run.RunID, run.Error)), nil
		default:
			return toolError(fmt.Sprintf("run %s failed: %s", run.RunID, run.Error)), nil
		}
	}

	return tool, handler
}

// toolName makes an agent slug safe as an MCP tool name.
func toolName(slug string) string {
	return strings.ReplaceAll(slug, "/", "_")
}

func toolDescription(agent types.Agent) string {
	desc := agent.Description
	if desc == "" {
		desc = agent.Name
	}
	if !agent.PricePerRun.IsZero() {
		desc = fmt.Sprintf("%s (%s %s per run)", desc, agent.PricePerRun, agent.Currency)
	}
	return desc
}

func inputSchema(agent types.Agent) map[string]interface{} {
	if len(agent.InputSchema) > 0 {
		var compiled map[string]interface{}
		if err := json.Unmarshal(agent.InputSchema, &compiled); err == nil {
			return compiled
		}
	}
	return map[string]interface{}{"type": "object"}
}

func completedResult(run *xpay.AsyncRun) *mcpsdk.CallToolResult {
	text := string(run.Output)
	if text == "" {
		text = "run completed with no output"
	}

	structured := map[string]interface{}{
		"runId":  run.RunID,
		"status": string(run.Status),
	}
	if run.Cost != nil {
		structured["cost"] = run.Cost.String()
	}
	if run.Duration > 0 {
		structured["duration"] = run.Duration.String()
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: text},
		},
		StructuredContent: structured,
	}
}

func toolError(message string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: message},
		},
	}
}
