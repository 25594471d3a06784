package gemini

import (
	"fmt"

	orchmodels "github.com/Cyclone1070/devagent/internal/orchestrator/models"
	provider "github.com/Cyclone1070/devagent/internal/provider/models"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// toGeminiContents converts the conversation history to Gemini Content format.
func toGeminiContents(history []orchmodels.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if content := messageToGeminiContent(msg); content != nil {
			contents = append(contents, content)
		}
	}
	return contents
}

// messageToGeminiContent converts a single message to Gemini Content format.
func messageToGeminiContent(msg orchmodels.Message) *genai.Content {
	role := "user"
	if msg.Role == "model" || msg.Role == "assistant" {
		role = "model"
	}

	parts := make([]*genai.Part, 0)

	if msg.Content != "" {
		parts = append(parts, genai.NewPartFromText(msg.Content))
	}

	// Model messages carrying tool calls
	for _, toolCall := range msg.ToolCalls {
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   toolCall.ID,
				Name: toolCall.Name,
				Args: toolCall.Args,
			},
		})
	}

	// User messages folding tool results back. Structured errors go back as
	// data under the "error" key so the model can read the code and
	// suggestions and adapt.
	for _, result := range msg.ToolResults {
		var response map[string]any
		if result.Err != nil {
			response = map[string]any{"error": result.Err.Map()}
		} else {
			response = map[string]any{"result": result.Content}
		}
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				ID:       result.ID,
				Name:     result.Name,
				Response: response,
			},
		})
	}

	if len(parts) == 0 {
		return nil
	}
	return &genai.Content{Role: role, Parts: parts}
}

// toGeminiConfig builds the generation config for one provider call.
func toGeminiConfig(req *provider.GenerateRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.SystemInstruction)},
		}
	}

	if req.Config != nil {
		if req.Config.Temperature != nil {
			config.Temperature = req.Config.Temperature
		}
		if req.Config.MaxOutputTokens > 0 {
			config.MaxOutputTokens = req.Config.MaxOutputTokens
		}
	}

	return config
}

// toGeminiTools converts tool definitions to Gemini function declarations.
func toGeminiTools(tools []provider.ToolDefinition) []*genai.Tool {
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  toGeminiSchema(tool.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

// toGeminiSchema converts a parameter schema to the genai schema type.
func toGeminiSchema(schema *provider.ParameterSchema) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{
		Type:     toGeminiType(schema.Type),
		Required: schema.Required,
	}
	if len(schema.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(schema.Properties))
		for name, prop := range schema.Properties {
			out.Properties[name] = propertyToGeminiSchema(prop)
		}
	}
	return out
}

func propertyToGeminiSchema(prop provider.PropertySchema) *genai.Schema {
	out := &genai.Schema{
		Type:        toGeminiType(prop.Type),
		Description: prop.Description,
	}
	if prop.Items != nil {
		out.Items = propertyToGeminiSchema(*prop.Items)
	}
	return out
}

func toGeminiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}

// fromGeminiResponse converts a Gemini response to the internal form. Tool
// calls missing a correlation ID get one assigned so results can be matched
// back to requests.
func fromGeminiResponse(resp *genai.GenerateContentResponse) *provider.GenerateResponse {
	out := &provider.GenerateResponse{}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				out.Text += part.Text
			}
			if part.FunctionCall != nil {
				id := part.FunctionCall.ID
				if id == "" {
					id = uuid.NewString()
				}
				out.ToolCalls = append(out.ToolCalls, orchmodels.ToolCall{
					ID:   id,
					Name: part.FunctionCall.Name,
					Args: part.FunctionCall.Args,
				})
			}
		}
	}

	if resp.UsageMetadata != nil {
		out.Usage = provider.Usage{
			PromptTokens:   int(resp.UsageMetadata.PromptTokenCount),
			ResponseTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	return out
}

// mapGeminiError maps Gemini API errors to classified provider errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}

	if apiErr, ok := err.(genai.APIError); ok {
		return classifyStatus(apiErr.Code, apiErr.Message, err)
	}
	if apiErr, ok := err.(*genai.APIError); ok {
		return classifyStatus(apiErr.Code, apiErr.Message, err)
	}

	return &provider.ProviderError{
		Code:       provider.ErrorCodeNetwork,
		Message:    "network error",
		Underlying: err,
		Retryable:  true,
	}
}

func classifyStatus(status int, message string, err error) *provider.ProviderError {
	switch {
	case status == 429:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeRateLimit,
			Message:    "rate limit exceeded",
			StatusCode: status,
			Underlying: err,
			Retryable:  true,
		}
	case status == 401 || status == 403:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeAuth,
			Message:    "authentication failed",
			StatusCode: status,
			Underlying: err,
			Retryable:  false,
		}
	case status >= 400 && status < 500:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    fmt.Sprintf("invalid request: %s", message),
			StatusCode: status,
			Underlying: err,
			Retryable:  false,
		}
	case status >= 500:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeUnavailable,
			Message:    "service unavailable",
			StatusCode: status,
			Underlying: err,
			Retryable:  true,
		}
	default:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    fmt.Sprintf("API error: %s", message),
			StatusCode: status,
			Underlying: err,
			Retryable:  true,
		}
	}
}
