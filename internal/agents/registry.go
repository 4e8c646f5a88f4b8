package agents

import (
	"fmt"
	"sort"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
)

// Kinds maps an agent kind name to its step.
var Kinds = map[string]func() engine.Step{
	"echo":           func() engine.Step { return Echo{} },
	"conversational": func() engine.Step { return Conversational{} },
}

// KindNames returns the registered kinds in sorted order.
func KindNames() []string {
	names := make([]string, 0, len(Kinds))
	for name := range Kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates an agent of the given kind from cfg.
func Build(kind string, cfg engine.AgentConfig, backend engine.Backend, hooks ...engine.Hook) (*engine.Agent, error) {
	newStep, ok := Kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown agent kind %q (supported: %v)", engine.ErrInvalidArgument, kind, KindNames())
	}
	step := newStep()
	if cfg.SystemPrompt == "" {
		if p, ok := step.(interface{ SystemPrompt() string }); ok {
			cfg.SystemPrompt = p.SystemPrompt()
		}
	}
	return engine.NewAgentBuilder(cfg.Name).
		WithConfig(cfg).
		WithStep(step).
		WithBackend(backend).
		WithHooks(hooks...).
		Build()
}
