// Package agents holds concrete step behaviours for engine.Agent.
package agents

import (
	"context"
	"strings"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
	"github.com/ChamsBouzaiene/steploop/internal/providers"
)

// GuidedTemperature is the sampling temperature requested while a
// next-step prompt is set.
const GuidedTemperature = 0.7

// Echo asks the backend for a reply to the whole transcript, records it
// and finishes. Agents without a backend use providers.EchoBackend.
type Echo struct{}

func (Echo) Step(ctx context.Context, a *engine.Agent) (string, error) {
	reply, err := respond(ctx, a, a.Memory().Messages())
	if err != nil {
		return "", err
	}
	a.Memory().Append(engine.AssistantMessage(reply))
	a.Finish()
	return reply, nil
}

// NewEchoAgent builds an agent running the Echo step.
func NewEchoAgent(name string, backend engine.Backend) (*engine.Agent, error) {
	return engine.NewAgentBuilder(name).
		WithDescription("Replies once to the conversation and finishes").
		WithStep(Echo{}).
		WithBackend(backend).
		Build()
}

// respond sends transcript with the agent's system prompt and guidance
// temperature to its backend.
func respond(ctx context.Context, a *engine.Agent, transcript []engine.Message) (string, error) {
	var system []engine.Message
	if prompt := a.SystemPrompt(); prompt != "" {
		system = []engine.Message{engine.SystemMessage(prompt)}
	}
	var temperature *float64
	if strings.TrimSpace(a.NextStepPrompt()) != "" {
		temperature = engine.Temperature(GuidedTemperature)
	}

	backend := a.Backend()
	if backend == nil {
		backend = providers.NewEchoBackend()
	}
	return backend.Respond(ctx, transcript, system, temperature)
}
