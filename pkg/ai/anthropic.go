package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// ErrAPIKeyRequired is returned when an API key is needed but not provided
var ErrAPIKeyRequired = errors.New("API key required")

// AnthropicClient implements LanguageModel on the Messages API.
// Structured output is obtained by forcing a single tool call whose input
// schema is the response schema.
type AnthropicClient struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicClient creates an Anthropic client. Additional request options
// (base URL, HTTP client) may be passed for testing.
func NewAnthropicClient(cfg *config.AnthropicConfig, timeout time.Duration, opts ...option.RequestOption) (*AnthropicClient, error) {
	var apiKey, model string
	var maxTokens int64
	if cfg != nil {
		apiKey, model, maxTokens = cfg.APIKey, cfg.Model, cfg.MaxTokens
	}
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY", ErrAPIKeyRequired)
	}
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	client := anthropic.NewClient(append(base, opts...)...)

	return &AnthropicClient{
		client:    client,
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
	}, nil
}

// Invoke sends the conversation and returns the text (or tool input JSON when schema is set)
func (a *AnthropicClient) Invoke(ctx context.Context, messages []Message, schema *ResponseSchema) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	if schema != nil {
		params.Tools = []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        schema.Name,
				Description: anthropic.String(schema.Description),
				InputSchema: toolInputSchema(schema.Schema),
			},
		}}
		params.ToolChoice = anthropic.ToolChoiceParamOfTool(schema.Name)
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	for _, block := range message.Content {
		switch {
		case schema != nil && block.Type == "tool_use" && block.Name == schema.Name:
			return string(block.Input), nil
		case schema == nil && block.Type == "text":
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("unexpected response format: no matching content block (stop_reason=%s)", message.StopReason)
}

// toolInputSchema moves a JSON Schema object into the SDK's input schema param
func toolInputSchema(schema map[string]interface{}) anthropic.ToolInputSchemaParam {
	param := anthropic.ToolInputSchemaParam{
		Properties:  schema["properties"],
		ExtraFields: map[string]any{},
	}
	for k, v := range schema {
		if k == "properties" || k == "type" {
			continue
		}
		param.ExtraFields[k] = v
	}
	return param
}
