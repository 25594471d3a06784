// Package orchestrator runs the autonomous agent loop: it submits the
// conversation to the model provider, dispatches requested tool calls, folds
// the results back into the conversation and repeats until the model answers
// with plain text or the iteration budget runs out.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Cyclone1070/devagent/internal/config"
	"github.com/Cyclone1070/devagent/internal/orchestrator/adapter"
	"github.com/Cyclone1070/devagent/internal/orchestrator/models"
	provider "github.com/Cyclone1070/devagent/internal/provider/models"
	"github.com/Cyclone1070/devagent/internal/tool/errutil"
	"github.com/google/uuid"
)

// limiter admits one call per Acquire, delaying as needed.
type limiter interface {
	Acquire(ctx context.Context) error
}

// Orchestrator manages the agent loop, tool dispatch and conversation history.
type Orchestrator struct {
	provider    provider.Provider
	tools       map[string]adapter.Tool
	toolNames   string // sorted, for UnknownFunction suggestions
	apiLimiter  limiter
	toolLimiter limiter
	retry       *retryPolicy
	config      config.AgentConfig
	maxDetail   int
	logger      *slog.Logger
}

// New creates an Orchestrator and registers the tool definitions with the
// provider. The tool name set is closed at construction; calls naming
// anything else fail with a structured error listing the valid set.
func New(p provider.Provider, tools []adapter.Tool, apiLimiter, toolLimiter limiter, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	toolMap := make(map[string]adapter.Tool, len(tools))
	definitions := make([]provider.ToolDefinition, 0, len(tools))
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		toolMap[t.Name()] = t
		definitions = append(definitions, t.Definition())
		names = append(names, t.Name())
	}
	sort.Strings(names)
	p.DefineTools(definitions)

	baseDelay := time.Duration(cfg.Agent.RetryBaseDelaySecs * float64(time.Second))

	return &Orchestrator{
		provider:    p,
		tools:       toolMap,
		toolNames:   strings.Join(names, ", "),
		apiLimiter:  apiLimiter,
		toolLimiter: toolLimiter,
		retry:       newRetryPolicy(cfg.Agent.MaxRetries, baseDelay, logger),
		config:      cfg.Agent,
		maxDetail:   cfg.Tools.MaxErrorDetailLength,
		logger:      logger,
	}
}

// Run executes the agent loop for one prompt. Terminal failures (iteration
// budget, non-retriable provider errors, retry exhaustion) are reported as a
// normal RunResult; the error return is reserved for context cancellation.
func (o *Orchestrator) Run(ctx context.Context, prompt string) (*models.RunResult, error) {
	result := &models.RunResult{ID: uuid.NewString()}
	logger := o.logger.With("run_id", result.ID)
	logger.Info("starting run", "prompt_length", len(prompt), "max_iterations", o.config.MaxIterations)

	history := []models.Message{{Role: "user", Content: prompt}}

	for iteration := 0; iteration < o.config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations = iteration + 1

		response, err := o.generate(ctx, history)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logger.Error("run failed", "iteration", iteration+1, "error", err)
			result.FinalText = failureMessage(err)
			result.Errors = append(result.Errors, err.Error())
			return result, nil
		}
		result.TokensUsed += response.Usage.TotalTokens()

		if len(response.ToolCalls) == 0 {
			result.FinalText = response.Text
			logger.Info("run completed",
				"iterations", result.Iterations,
				"total_tokens", result.TokensUsed,
				"tool_calls", result.ToolCallCount,
				"has_errors", len(result.Errors) > 0)
			return result, nil
		}

		callNames := make([]string, len(response.ToolCalls))
		for i, call := range response.ToolCalls {
			callNames[i] = call.Name
		}
		logger.Info("executing tool calls", "count", len(response.ToolCalls), "functions", callNames)

		history = append(history, models.Message{
			Role:      "model",
			Content:   response.Text,
			ToolCalls: response.ToolCalls,
		})

		// Results fold back as one combined turn, in request order.
		toolResults := make([]models.ToolResult, 0, len(response.ToolCalls))
		for _, call := range response.ToolCalls {
			result.ToolCallCount++
			toolResult := o.executeToolCall(ctx, logger, call)
			if toolResult.Err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", call.Name, toolResult.Err.Message))
			}
			toolResults = append(toolResults, toolResult)
		}
		history = append(history, models.Message{
			Role:        "user",
			ToolResults: toolResults,
		})
	}

	// The iteration budget is a normal terminal outcome, not an exception.
	logger.Warn("maximum iterations reached", "max_iterations", o.config.MaxIterations)
	result.FinalText = "Maximum iterations reached without completion"
	return result, nil
}

// generate performs one provider call through the rate limiter and retry
// policy. The limiter is acquired per attempt so retries are admitted too.
func (o *Orchestrator) generate(ctx context.Context, history []models.Message) (*provider.GenerateResponse, error) {
	return o.retry.do(ctx, func() (*provider.GenerateResponse, error) {
		if err := o.apiLimiter.Acquire(ctx); err != nil {
			return nil, err
		}
		temperature := o.config.Temperature
		req := &provider.GenerateRequest{
			History:           history,
			SystemInstruction: systemPrompt,
			Config: &provider.GenerateConfig{
				Temperature:     &temperature,
				MaxOutputTokens: o.config.MaxOutputTokens,
			},
		}
		return o.provider.Generate(ctx, req)
	})
}

// executeToolCall dispatches a single tool call. Failures never abort the
// run; they come back as structured errors the model can read and adapt to.
func (o *Orchestrator) executeToolCall(ctx context.Context, logger *slog.Logger, call models.ToolCall) models.ToolResult {
	out := models.ToolResult{ID: call.ID, Name: call.Name}

	tool, exists := o.tools[call.Name]
	if !exists {
		out.Err = errutil.New(errutil.CodeUnknownFunction,
			fmt.Sprintf("Unknown function: %s", call.Name)).
			WithSuggestions(fmt.Sprintf("Available functions: %s", o.toolNames)).
			WithContext("requested_function", call.Name)
		logger.Error("unknown function requested", "function", call.Name)
		return out
	}

	if err := o.toolLimiter.Acquire(ctx); err != nil {
		out.Err = errutil.New(errutil.CodeToolExecution,
			fmt.Sprintf("Tool admission interrupted for %s", call.Name)).
			WithContext("detail", o.boundDetail(err.Error()))
		return out
	}

	content, err := tool.Execute(ctx, call.Args)
	if err != nil {
		var toolErr *errutil.ToolError
		if errors.As(err, &toolErr) {
			logger.Error("function error",
				"function", call.Name,
				"error_code", string(toolErr.Code),
				"error_message", toolErr.Message)
			out.Err = toolErr
			return out
		}
		// Unclassified failure: fold back with bounded diagnostic detail.
		logger.Error("unexpected function error", "function", call.Name, "error", err)
		out.Err = errutil.New(errutil.CodeToolExecution,
			fmt.Sprintf("Unexpected error running %s", call.Name)).
			WithContext("detail", o.boundDetail(err.Error()))
		return out
	}

	logger.Info("function executed", "function", call.Name, "result_length", len(content))
	out.Content = content
	return out
}

// boundDetail keeps the trailing fragment of diagnostic text so folded
// errors cannot grow the conversation without bound.
func (o *Orchestrator) boundDetail(detail string) string {
	if len(detail) > o.maxDetail {
		return detail[len(detail)-o.maxDetail:]
	}
	return detail
}

// failureMessage tailors the terminal message by failure category while
// keeping the raw technical detail.
func failureMessage(err error) string {
	var providerErr *provider.ProviderError
	if !errors.As(err, &providerErr) {
		return fmt.Sprintf("Error: %v", err)
	}

	switch providerErr.Code {
	case provider.ErrorCodeRateLimit, provider.ErrorCodeQuota:
		return "API Quota Exceeded\n\n" +
			"Your Gemini API key has exceeded its quota. Please:\n" +
			"1. Check your API quota at https://ai.dev/rate-limit\n" +
			"2. Wait for quota to reset, or\n" +
			"3. Upgrade your API plan\n\n" +
			fmt.Sprintf("Technical details: %v", err)
	case provider.ErrorCodeAuth:
		return "API Authentication Error\n\n" +
			"There's an issue with your API key. Please:\n" +
			"1. Verify your API key\n" +
			"2. Get a new key from https://aistudio.google.com/app/apikey\n" +
			"3. Make sure GEMINI_API_KEY is set correctly\n\n" +
			fmt.Sprintf("Technical details: %v", err)
	case provider.ErrorCodeInvalidRequest:
		return fmt.Sprintf("Error: Invalid request - %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
