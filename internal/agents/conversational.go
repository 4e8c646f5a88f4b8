package agents

import (
	"context"
	"strings"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
	"github.com/ChamsBouzaiene/steploop/internal/prompts"
)

// DefaultStopMarker ends a Conversational run when it appears in a reply.
const DefaultStopMarker = "[DONE]"

// Conversational keeps asking the backend until a reply contains
// StopMarker. The next-step prompt, when set, is sent as a trailing user
// turn but not stored in memory.
type Conversational struct {
	StopMarker string
}

func (c Conversational) Step(ctx context.Context, a *engine.Agent) (string, error) {
	transcript := a.Memory().Messages()
	if prompt := a.NextStepPrompt(); strings.TrimSpace(prompt) != "" {
		transcript = append(transcript, engine.UserMessage(prompt))
	}

	reply, err := respond(ctx, a, transcript)
	if err != nil {
		return "", err
	}
	a.Memory().Append(engine.AssistantMessage(reply))

	if strings.Contains(reply, c.marker()) {
		a.Finish()
	}
	return reply, nil
}

func (c Conversational) marker() string {
	if c.StopMarker == "" {
		return DefaultStopMarker
	}
	return c.StopMarker
}

// SystemPrompt tells the backend how to signal completion.
func (c Conversational) SystemPrompt() string {
	return prompts.MustRender(prompts.Conversational, map[string]string{"stop_marker": c.marker()})
}

// NewConversationalAgent builds an agent running the Conversational step.
func NewConversationalAgent(name string, backend engine.Backend, stopMarker string) (*engine.Agent, error) {
	step := Conversational{StopMarker: stopMarker}
	return engine.NewAgentBuilder(name).
		WithDescription("Converses with the backend until it signals completion").
		WithSystemPrompt(step.SystemPrompt()).
		WithStep(step).
		WithBackend(backend).
		Build()
}
