package engine

import (
	"fmt"
	"slices"
)

// Role identifies the speaker of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
	}
	return r, nil
}

// ToolChoice tells a backend how it may use tools. Carried as data only.
type ToolChoice string

const (
	ToolChoiceNone     ToolChoice = "none"
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceRequired ToolChoice = "required"
)

// ParseToolChoice converts a wire value into a ToolChoice.
func ParseToolChoice(s string) (ToolChoice, error) {
	switch c := ToolChoice(s); c {
	case ToolChoiceNone, ToolChoiceAuto, ToolChoiceRequired:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown tool choice %q", ErrInvalidArgument, s)
}

// ToolCallTypeFunction is the only tool call type in use.
const ToolCallTypeFunction = "function"

// FunctionCall names a function and carries its serialized arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is a request from the assistant to invoke a function.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// NewFunctionToolCall builds a ToolCall of type "function".
func NewFunctionToolCall(id string, fn FunctionCall) ToolCall {
	return ToolCall{ID: id, Type: ToolCallTypeFunction, Function: fn}
}

// Message is one immutable transcript entry. Construct it with the
// role helpers below or NewMessage; the zero value is not a valid message.
type Message struct {
	role       Role
	content    *string
	toolCalls  []ToolCall
	name       string
	toolCallID string
}

// MessageOption sets an optional field while building a Message.
type MessageOption func(*Message)

// WithContent sets the text content. An empty string is kept as present.
func WithContent(content string) MessageOption {
	return func(m *Message) { m.content = &content }
}

// WithToolCalls attaches tool calls. The slice is copied.
func WithToolCalls(calls ...ToolCall) MessageOption {
	return func(m *Message) { m.toolCalls = slices.Clone(calls) }
}

// WithName sets the participant or tool name.
func WithName(name string) MessageOption {
	return func(m *Message) { m.name = name }
}

// WithToolCallID links a tool result to the call it answers.
func WithToolCallID(id string) MessageOption {
	return func(m *Message) { m.toolCallID = id }
}

// NewMessage builds a message with the given role and options.
func NewMessage(role Role, opts ...MessageOption) Message {
	m := Message{role: role}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func UserMessage(content string) Message {
	return NewMessage(RoleUser, WithContent(content))
}

func SystemMessage(content string) Message {
	return NewMessage(RoleSystem, WithContent(content))
}

func AssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, WithContent(content))
}

// AssistantWithTools builds an assistant turn that requests tool calls.
// Empty content is treated as absent, which is what providers expect
// alongside tool calls.
func AssistantWithTools(content string, calls []ToolCall) Message {
	opts := []MessageOption{WithToolCalls(calls...)}
	if content != "" {
		opts = append(opts, WithContent(content))
	}
	return NewMessage(RoleAssistant, opts...)
}

// ToolMessage builds the result of a tool invocation.
func ToolMessage(content, name, toolCallID string) Message {
	return NewMessage(RoleTool, WithContent(content), WithName(name), WithToolCallID(toolCallID))
}

func (m Message) Role() Role { return m.role }

// Content returns the text content and whether it is present.
func (m Message) Content() (string, bool) {
	if m.content == nil {
		return "", false
	}
	return *m.content, true
}

// Text returns the content, or "" when absent.
func (m Message) Text() string {
	if m.content == nil {
		return ""
	}
	return *m.content
}

// HasContent reports whether the content is present and non-empty.
func (m Message) HasContent() bool { return m.content != nil && *m.content != "" }

// ToolCalls returns a copy of the attached tool calls.
func (m Message) ToolCalls() []ToolCall { return slices.Clone(m.toolCalls) }

func (m Message) Name() string       { return m.name }
func (m Message) ToolCallID() string { return m.toolCallID }

// Equal reports whether two messages carry the same data.
func (m Message) Equal(o Message) bool {
	if m.role != o.role || m.name != o.name || m.toolCallID != o.toolCallID {
		return false
	}
	if (m.content == nil) != (o.content == nil) {
		return false
	}
	if m.content != nil && *m.content != *o.content {
		return false
	}
	return slices.Equal(m.toolCalls, o.toolCalls)
}

// Validate checks the message before it crosses a serialization boundary.
// Tool messages must name the tool and the call they answer.
func (m Message) Validate() error {
	if !m.role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidMessage, m.role)
	}
	if m.role == RoleTool {
		if m.toolCallID == "" {
			return fmt.Errorf("%w: tool message requires tool_call_id", ErrInvalidMessage)
		}
		if m.name == "" {
			return fmt.Errorf("%w: tool message requires name", ErrInvalidMessage)
		}
	}
	for i, tc := range m.toolCalls {
		if tc.ID == "" {
			return fmt.Errorf("%w: tool call %d has no id", ErrInvalidMessage, i)
		}
		if tc.Function.Name == "" {
			return fmt.Errorf("%w: tool call %s has no function name", ErrInvalidMessage, tc.ID)
		}
	}
	return nil
}

func (m Message) String() string {
	if len(m.toolCalls) > 0 {
		return fmt.Sprintf("%s: %s (%d tool calls)", m.role, m.Text(), len(m.toolCalls))
	}
	return fmt.Sprintf("%s: %s", m.role, m.Text())
}
