// Package mcp exposes xpay marketplace agents as MCP (Model Context
// Protocol) tools.
//
// Each published agent becomes one tool on an MCP server built with the
// official Go SDK (github.com/modelcontextprotocol/go-sdk/mcp). Tool
// calls submit a run through the SDK's Runner and block until the run
// reaches a terminal state, so an MCP client sees the agent's output as
// an ordinary tool result.
//
// # Usage
//
//	client := xpayhttp.NewClient(&xpayhttp.ClientConfig{APIKey: key})
//	runner := xpay.NewRunner(client)
//
//	server := mcpsdk.NewServer(&mcpsdk.Implementation{
//	    Name: "xpay-agents", Version: "1.0.0",
//	}, nil)
//
//	n, err := mcp.RegisterAgentTools(ctx, server, mcp.Config{
//	    Marketplace: client,
//	    Runner:      runner,
//	})
//
// Single agents can be registered with AgentTool when the host curates
// the tool list itself.
package mcp
