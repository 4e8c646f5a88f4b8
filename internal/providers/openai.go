package providers

import (
	"context"
	"fmt"

	"github.com/ChamsBouzaiene/steploop/internal/engine"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAIBackend implements engine.Backend over the chat completions API.
// It also serves OpenAI-compatible endpoints through Options.BaseURL.
type OpenAIBackend struct {
	client *openai.Client
	opts   Options
}

// NewOpenAIBackend creates a backend for the given model.
func NewOpenAIBackend(opts Options) *OpenAIBackend {
	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(config),
		opts:   opts,
	}
}

func (b *OpenAIBackend) Model() string { return b.opts.Model }

// Respond implements engine.Backend.
func (b *OpenAIBackend) Respond(ctx context.Context, transcript []engine.Message, system []engine.Message, temperature *float64) (string, error) {
	msgs, err := toOpenAIMessages(transcript, system)
	if err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:    b.opts.Model,
		Messages: msgs,
	}
	if b.opts.MaxTokens > 0 {
		req.MaxTokens = b.opts.MaxTokens
	}
	if temperature != nil {
		t := float32(*temperature)
		req.Temperature = &t
	}

	return RetryWithPolicy(ctx, b.opts.Retry, func(ctx context.Context) (string, error) {
		resp, err := b.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", wrapError("openai", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty response from OpenAI")
		}
		return resp.Choices[0].Message.Content, nil
	}, ClassifyError, b.opts.OnRetry)
}

// toOpenAIMessages converts system messages then the transcript, in order.
func toOpenAIMessages(transcript []engine.Message, system []engine.Message) ([]openai.ChatCompletionMessage, error) {
	out := make([]openai.ChatCompletionMessage, 0, len(system)+len(transcript))
	for _, group := range [][]engine.Message{system, transcript} {
		for _, msg := range group {
			if err := msg.Validate(); err != nil {
				return nil, err
			}
			out = append(out, toOpenAIMessage(msg))
		}
	}
	return out, nil
}

func toOpenAIMessage(msg engine.Message) openai.ChatCompletionMessage {
	switch msg.Role() {
	case engine.RoleSystem:
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: msg.Text()}
	case engine.RoleAssistant:
		calls := msg.ToolCalls()
		content := msg.Text()
		if content == "" && len(calls) > 0 {
			// The SDK serializes "" as null, which the API rejects.
			content = " "
		}
		var toolCalls []openai.ToolCall
		for _, tc := range calls {
			toolCalls = append(toolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		return openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   content,
			ToolCalls: toolCalls,
		}
	case engine.RoleTool:
		content := msg.Text()
		if content == "" {
			content = "{}"
		}
		return openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    content,
			ToolCallID: msg.ToolCallID(),
		}
	default:
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: msg.Text()}
	}
}
