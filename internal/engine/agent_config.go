package engine

import (
	"fmt"
	"strings"
)

const (
	DefaultMaxSteps           = 10
	DefaultDuplicateThreshold = 2
)

// AgentConfig holds configuration for an agent instance.
type AgentConfig struct {
	Name               string
	Description        string
	SystemPrompt       string
	NextStepPrompt     string
	MaxSteps           int
	DuplicateThreshold int
	MaxMessages        int // Capacity of the memory created when none is supplied
}

// DefaultAgentConfig returns a default agent configuration.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		MaxSteps:           DefaultMaxSteps,
		DuplicateThreshold: DefaultDuplicateThreshold,
		MaxMessages:        DefaultMaxMessages,
	}
}

// Validate rejects configurations an Agent cannot run with.
func (c AgentConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: agent name is required", ErrInvalidArgument)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive, got %d", ErrInvalidArgument, c.MaxSteps)
	}
	if c.DuplicateThreshold <= 0 {
		return fmt.Errorf("%w: duplicate threshold must be positive, got %d", ErrInvalidArgument, c.DuplicateThreshold)
	}
	if c.MaxMessages <= 0 {
		return fmt.Errorf("%w: max messages must be positive, got %d", ErrInvalidArgument, c.MaxMessages)
	}
	return nil
}
