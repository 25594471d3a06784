// Package models defines the conversation and run-result types owned by the
// orchestration loop.
package models

import "github.com/Cyclone1070/devagent/internal/tool/errutil"

// Message represents a single turn in the conversation history.
type Message struct {
	Role    string // "user" or "model"
	Content string

	// For model messages with tool calls
	ToolCalls []ToolCall

	// For user messages folding tool results back
	ToolResults []ToolResult
}

// ToolCall represents a structured tool invocation requested by the model.
// Immutable once received.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResult represents the outcome of one tool execution, correlated to the
// request by ID and appended in request order.
type ToolResult struct {
	ID      string
	Name    string
	Content string             // JSON payload on success
	Err     *errutil.ToolError // structured error on failure, nil on success
}

// RunResult is created once per run and returned to the caller.
type RunResult struct {
	ID            string
	FinalText     string
	Iterations    int
	TokensUsed    int
	ToolCallCount int
	Errors        []string
}

// EstimatedCost returns a rough cost estimate for the run based on an
// assumed input/output token split. Free-tier pricing rates are zero.
func (r *RunResult) EstimatedCost() float64 {
	const (
		inputCostPer1K  = 0.0
		outputCostPer1K = 0.0
	)
	inputTokens := float64(r.TokensUsed) * 0.7
	outputTokens := float64(r.TokensUsed) * 0.3
	return inputTokens/1000*inputCostPer1K + outputTokens/1000*outputCostPer1K
}
