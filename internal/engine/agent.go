package engine

import (
	"context"
	"fmt"
	"sync"
)

// Step is one unit of agent work. Implementations read and append the
// agent's memory, may call its backend, and call Finish when done.
type Step interface {
	Step(ctx context.Context, a *Agent) (string, error)
}

// StepFunc adapts a function to the Step interface.
type StepFunc func(ctx context.Context, a *Agent) (string, error)

func (f StepFunc) Step(ctx context.Context, a *Agent) (string, error) { return f(ctx, a) }

// Agent drives a Step in a bounded loop over its Memory.
// Build one with NewAgentBuilder.
type Agent struct {
	name        string
	description string
	step        Step
	backend     Backend
	memory      *Memory
	hooks       Hooks

	mu                 sync.Mutex
	systemPrompt       string
	nextStepPrompt     string
	state              AgentState
	maxSteps           int
	currentStep        int
	duplicateThreshold int
}

func (a *Agent) Name() string        { return a.name }
func (a *Agent) Description() string { return a.description }
func (a *Agent) Backend() Backend    { return a.backend }

// Memory returns the agent's transcript.
func (a *Agent) Memory() *Memory { return a.memory }

func (a *Agent) State() AgentState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Agent) CurrentStep() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentStep
}

func (a *Agent) MaxSteps() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.maxSteps
}

// SetMaxSteps changes the step budget. It must be positive.
func (a *Agent) SetMaxSteps(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: max steps must be positive, got %d", ErrInvalidArgument, n)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.maxSteps = n
	return nil
}

func (a *Agent) DuplicateThreshold() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duplicateThreshold
}

// SetDuplicateThreshold changes how many identical assistant replies count
// as stuck. It must be positive.
func (a *Agent) SetDuplicateThreshold(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: duplicate threshold must be positive, got %d", ErrInvalidArgument, n)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.duplicateThreshold = n
	return nil
}

func (a *Agent) SystemPrompt() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.systemPrompt
}

func (a *Agent) SetSystemPrompt(prompt string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.systemPrompt = prompt
}

func (a *Agent) NextStepPrompt() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nextStepPrompt
}

func (a *Agent) SetNextStepPrompt(prompt string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextStepPrompt = prompt
}

// Finish marks the run as complete; the loop stops after the current step.
func (a *Agent) Finish() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StateFinished
}

// UpdateMemory appends a message built from role and content. Tool
// messages also take a name and tool call id, in that order.
func (a *Agent) UpdateMemory(role Role, content string, extra ...string) error {
	var msg Message
	switch role {
	case RoleUser:
		msg = UserMessage(content)
	case RoleSystem:
		msg = SystemMessage(content)
	case RoleAssistant:
		msg = AssistantMessage(content)
	case RoleTool:
		var name, id string
		if len(extra) > 0 {
			name = extra[0]
		}
		if len(extra) > 1 {
			id = extra[1]
		}
		msg = ToolMessage(content, name, id)
	default:
		return fmt.Errorf("%w: unexpected role %q", ErrInvalidArgument, role)
	}
	a.memory.Append(msg)
	return nil
}

// Reset returns a stopped agent to Idle so it can run again. It is the
// only way out of the Error state.
func (a *Agent) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateRunning {
		return fmt.Errorf("%w: cannot reset a running agent", ErrInvalidState)
	}
	a.state = StateIdle
	a.currentStep = 0
	return nil
}

// Snapshot returns a point-in-time view of the agent.
func (a *Agent) Snapshot() Snapshot {
	msgs := a.memory.Messages()
	tokens, _ := CountTokensForMessages(DefaultTokenizer{}, msgs)

	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Agent:          a.name,
		State:          a.state,
		Step:           a.currentStep,
		MaxSteps:       a.maxSteps,
		NextStepPrompt: a.nextStepPrompt,
		Messages:       len(msgs),
		Tokens:         tokens,
	}
}
