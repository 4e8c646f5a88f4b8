package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// wireMessage fixes the field order of the JSON form.
type wireMessage struct {
	Role       Role       `json:"role"`
	Content    *string    `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

const messageSchemaJSON = `{
	"type": "object",
	"required": ["role"],
	"properties": {
		"role": {"type": "string", "enum": ["system", "user", "assistant", "tool"]},
		"content": {"type": ["string", "null"]},
		"name": {"type": "string"},
		"tool_call_id": {"type": "string"},
		"tool_calls": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "function"],
				"properties": {
					"id": {"type": "string"},
					"type": {"type": "string", "enum": ["function"]},
					"function": {
						"type": "object",
						"required": ["name"],
						"properties": {
							"name": {"type": "string"},
							"arguments": {"type": "string"}
						}
					}
				}
			}
		}
	}
}`

var (
	messageSchemaOnce sync.Once
	messageSchema     *gojsonschema.Schema
	messageSchemaErr  error
)

func loadMessageSchema() (*gojsonschema.Schema, error) {
	messageSchemaOnce.Do(func() {
		messageSchema, messageSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(messageSchemaJSON))
	})
	return messageSchema, messageSchemaErr
}

// MessageSchemaError lists the JSON schema violations of a decoded message.
type MessageSchemaError struct {
	Errors []string
}

func (e *MessageSchemaError) Error() string {
	return fmt.Sprintf("message schema validation failed: %s", strings.Join(e.Errors, "; "))
}

func (e *MessageSchemaError) Unwrap() error { return ErrInvalidMessage }

// MarshalJSON encodes the message in the chat-completions wire shape.
func (m Message) MarshalJSON() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	w := wireMessage{
		Role:       m.role,
		Content:    m.content,
		Name:       m.name,
		ToolCallID: m.toolCallID,
	}
	if len(m.toolCalls) > 0 {
		w.ToolCalls = m.toolCalls
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire shape, validating it against the message schema.
func (m *Message) UnmarshalJSON(data []byte) error {
	schema, err := loadMessageSchema()
	if err != nil {
		return fmt.Errorf("failed to load message schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if !result.Valid() {
		var errorMsgs []string
		for _, e := range result.Errors() {
			errorMsgs = append(errorMsgs, e.String())
		}
		return &MessageSchemaError{Errors: errorMsgs}
	}

	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	calls := w.ToolCalls
	for i := range calls {
		if calls[i].Type == "" {
			calls[i].Type = ToolCallTypeFunction
		}
	}
	decoded := Message{
		role:       w.Role,
		content:    w.Content,
		toolCalls:  calls,
		name:       w.Name,
		toolCallID: w.ToolCallID,
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*m = decoded
	return nil
}

// EncodeMessage returns the wire JSON of a single message.
func EncodeMessage(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses a single wire message.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// EncodeTranscript returns the wire JSON array of an ordered transcript.
func EncodeTranscript(msgs []Message) ([]byte, error) {
	if msgs == nil {
		msgs = []Message{}
	}
	return json.Marshal(msgs)
}

// DecodeTranscript parses a wire JSON array, preserving order.
func DecodeTranscript(data []byte) ([]Message, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return msgs, nil
}
