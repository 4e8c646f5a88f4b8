package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/steploop/internal/engine"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// AnthropicBackend implements engine.Backend over the Messages API.
type AnthropicBackend struct {
	client *anthropic.Client
	opts   Options
}

// NewAnthropicBackend creates a backend for the given model.
func NewAnthropicBackend(opts Options) *AnthropicBackend {
	var clientOpts []anthropic.ClientOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(opts.BaseURL))
	}
	return &AnthropicBackend{
		client: anthropic.NewClient(opts.APIKey, clientOpts...),
		opts:   opts,
	}
}

func (b *AnthropicBackend) Model() string { return b.opts.Model }

// Respond implements engine.Backend.
func (b *AnthropicBackend) Respond(ctx context.Context, transcript []engine.Message, system []engine.Message, temperature *float64) (string, error) {
	systemParts, msgs, err := toAnthropicMessages(transcript, system)
	if err != nil {
		return "", err
	}

	maxTokens := defaultAnthropicMaxTokens
	if b.opts.MaxTokens > 0 {
		maxTokens = b.opts.MaxTokens
	}
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(b.opts.Model),
		Messages:    msgs,
		MaxTokens:   maxTokens,
		MultiSystem: systemParts,
	}
	if temperature != nil {
		t := float32(*temperature)
		req.Temperature = &t
	}

	return RetryWithPolicy(ctx, b.opts.Retry, func(ctx context.Context) (string, error) {
		resp, err := b.client.CreateMessages(ctx, req)
		if err != nil {
			return "", wrapError("anthropic", err)
		}
		var text strings.Builder
		for _, block := range resp.Content {
			if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
				text.WriteString(*block.Text)
			}
		}
		return text.String(), nil
	}, ClassifyError, b.opts.OnRetry)
}

// toAnthropicMessages splits out system text and maps the transcript onto
// user and assistant turns. Tool results travel as user turns.
func toAnthropicMessages(transcript []engine.Message, system []engine.Message) ([]anthropic.MessageSystemPart, []anthropic.Message, error) {
	var systemParts []anthropic.MessageSystemPart
	var msgs []anthropic.Message

	for _, group := range [][]engine.Message{system, transcript} {
		for _, msg := range group {
			if err := msg.Validate(); err != nil {
				return nil, nil, err
			}
			switch msg.Role() {
			case engine.RoleSystem:
				systemParts = append(systemParts, anthropic.MessageSystemPart{
					Type: "text",
					Text: msg.Text(),
				})
			case engine.RoleUser:
				msgs = append(msgs, anthropic.Message{
					Role:    anthropic.RoleUser,
					Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(msg.Text())},
				})
			case engine.RoleAssistant:
				var content []anthropic.MessageContent
				if text := msg.Text(); strings.TrimSpace(text) != "" {
					content = append(content, anthropic.NewTextMessageContent(text))
				}
				for _, tc := range msg.ToolCalls() {
					args := tc.Function.Arguments
					if strings.TrimSpace(args) == "" {
						args = "{}"
					}
					if !json.Valid([]byte(args)) {
						return nil, nil, fmt.Errorf("%w: tool call %s arguments are not JSON", engine.ErrInvalidMessage, tc.ID)
					}
					content = append(content, anthropic.NewToolUseMessageContent(tc.ID, tc.Function.Name, json.RawMessage(args)))
				}
				msgs = append(msgs, anthropic.Message{
					Role:    anthropic.RoleAssistant,
					Content: content,
				})
			case engine.RoleTool:
				content := msg.Text()
				if content == "" {
					content = "{}"
				}
				msgs = append(msgs, anthropic.Message{
					Role:    anthropic.RoleUser,
					Content: []anthropic.MessageContent{anthropic.NewToolResultMessageContent(msg.ToolCallID(), content, false)},
				})
			}
		}
	}
	return systemParts, msgs, nil
}
