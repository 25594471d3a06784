// Package models defines the provider-facing types: the Provider interface,
// generation requests and responses, tool definitions, and the classified
// provider error.
package models

import (
	"context"

	orchmodels "github.com/Cyclone1070/devagent/internal/orchestrator/models"
)

// Provider defines the interface to the language model backend.
type Provider interface {
	// Generate sends the conversation history to the model and returns the
	// response. Errors are classified as *ProviderError.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// DefineTools registers tool definitions with the provider for native
	// tool calling. Must be called before Generate when tools are used.
	DefineTools(tools []ToolDefinition)
}

// GenerateRequest encapsulates all parameters for a generation request.
type GenerateRequest struct {
	// History contains the full conversation so far.
	History []orchmodels.Message

	// SystemInstruction is the fixed system prompt for the run.
	SystemInstruction string

	// Config contains optional generation parameters.
	Config *GenerateConfig
}

// GenerateConfig contains optional generation parameters.
type GenerateConfig struct {
	Temperature     *float32
	MaxOutputTokens int32
}

// GenerateResponse contains the model's response and metadata.
type GenerateResponse struct {
	// Text is the model's free text, if any.
	Text string

	// ToolCalls are the tool invocations the model requested, in order.
	ToolCalls []orchmodels.ToolCall

	// Usage contains token accounting for this call.
	Usage Usage
}

// Usage carries the provider's token counters, consumed for accounting only.
type Usage struct {
	PromptTokens   int
	ResponseTokens int
}

// TotalTokens returns the combined token count for the call.
func (u Usage) TotalTokens() int {
	return u.PromptTokens + u.ResponseTokens
}

// ToolDefinition defines a tool that the model can invoke.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  *ParameterSchema // Pointer to allow nil (no params)
}

// ParameterSchema maps directly to standard JSON Schema.
type ParameterSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertySchema defines a single parameter property.
type PropertySchema struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Items       *PropertySchema `json:"items,omitempty"`
	Default     any             `json:"default,omitempty"`
}
