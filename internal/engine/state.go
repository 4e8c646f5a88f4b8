package engine

// AgentState is the lifecycle position of an Agent.
type AgentState int

const (
	StateIdle AgentState = iota
	StateRunning
	StateFinished
	StateError
)

func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateFinished:
		return "FINISHED"
	case StateError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Snapshot is a point-in-time view of an agent handed to hooks.
type Snapshot struct {
	Agent          string
	State          AgentState
	Step           int
	MaxSteps       int
	NextStepPrompt string
	Messages       int
	Tokens         int // Estimated tokens in the transcript
}
