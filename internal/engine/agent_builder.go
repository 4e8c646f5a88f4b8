package engine

import "fmt"

// AgentBuilder helps construct an Agent with a fluent API.
type AgentBuilder struct {
	config  AgentConfig
	step    Step
	backend Backend
	memory  *Memory
	hooks   Hooks
}

// NewAgentBuilder creates a new agent builder with default configuration.
func NewAgentBuilder(name string) *AgentBuilder {
	cfg := DefaultAgentConfig()
	cfg.Name = name
	return &AgentBuilder{config: cfg}
}

// WithConfig replaces the whole configuration, name included.
func (b *AgentBuilder) WithConfig(cfg AgentConfig) *AgentBuilder {
	b.config = cfg
	return b
}

func (b *AgentBuilder) WithDescription(description string) *AgentBuilder {
	b.config.Description = description
	return b
}

// WithStep sets the behaviour executed on every iteration of the loop.
func (b *AgentBuilder) WithStep(step Step) *AgentBuilder {
	b.step = step
	return b
}

// WithBackend sets the model backend handed to steps.
func (b *AgentBuilder) WithBackend(backend Backend) *AgentBuilder {
	b.backend = backend
	return b
}

// WithMemory supplies the transcript. The agent takes ownership of it.
func (b *AgentBuilder) WithMemory(memory *Memory) *AgentBuilder {
	b.memory = memory
	return b
}

func (b *AgentBuilder) WithSystemPrompt(prompt string) *AgentBuilder {
	b.config.SystemPrompt = prompt
	return b
}

func (b *AgentBuilder) WithNextStepPrompt(prompt string) *AgentBuilder {
	b.config.NextStepPrompt = prompt
	return b
}

func (b *AgentBuilder) WithMaxSteps(maxSteps int) *AgentBuilder {
	b.config.MaxSteps = maxSteps
	return b
}

func (b *AgentBuilder) WithDuplicateThreshold(threshold int) *AgentBuilder {
	b.config.DuplicateThreshold = threshold
	return b
}

// WithMaxMessages sets the capacity of the memory built when WithMemory is not used.
func (b *AgentBuilder) WithMaxMessages(maxMessages int) *AgentBuilder {
	b.config.MaxMessages = maxMessages
	return b
}

// WithHooks appends observers of the run.
func (b *AgentBuilder) WithHooks(hooks ...Hook) *AgentBuilder {
	b.hooks = append(b.hooks, hooks...)
	return b
}

// Build validates the configuration and returns an idle Agent.
func (b *AgentBuilder) Build() (*Agent, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.step == nil {
		return nil, fmt.Errorf("%w: agent %s has no step", ErrInvalidArgument, b.config.Name)
	}

	memory := b.memory
	if memory == nil {
		m, err := NewMemory(b.config.MaxMessages)
		if err != nil {
			return nil, err
		}
		memory = m
	}

	return &Agent{
		name:               b.config.Name,
		description:        b.config.Description,
		step:               b.step,
		backend:            b.backend,
		memory:             memory,
		hooks:              append(Hooks(nil), b.hooks...),
		systemPrompt:       b.config.SystemPrompt,
		nextStepPrompt:     b.config.NextStepPrompt,
		state:              StateIdle,
		maxSteps:           b.config.MaxSteps,
		duplicateThreshold: b.config.DuplicateThreshold,
	}, nil
}
