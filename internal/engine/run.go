package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Run seeds memory with request, then executes steps until the agent
// finishes or the step budget is spent. It returns one "Step N: ..." entry
// per executed step, plus a termination notice when the budget ran out.
//
// Run fails with ErrInvalidState unless the agent is Idle. A failing step
// leaves the agent in Error; every other outcome returns it to Idle.
func (a *Agent) Run(ctx context.Context, request string) ([]string, error) {
	a.mu.Lock()
	if a.state != StateIdle {
		st := a.state
		a.mu.Unlock()
		return nil, invalidState(st)
	}
	if strings.TrimSpace(request) != "" {
		a.memory.Append(UserMessage(request))
	}
	a.state = StateRunning
	a.mu.Unlock()

	a.hooks.OnRunStart(ctx, a.Snapshot(), request)

	results, err := a.loop(ctx)

	a.mu.Lock()
	a.currentStep = 0
	if a.state != StateError {
		a.state = StateIdle
	}
	a.mu.Unlock()

	a.hooks.OnRunEnd(ctx, a.Snapshot(), results, err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Agent) loop(ctx context.Context) ([]string, error) {
	var results []string
	for {
		a.mu.Lock()
		if a.currentStep >= a.maxSteps || a.state == StateFinished {
			exhausted := a.state != StateFinished
			maxSteps := a.maxSteps
			a.mu.Unlock()
			if exhausted {
				a.hooks.OnMaxSteps(ctx, a.Snapshot())
				results = append(results, fmt.Sprintf("Terminated: Reached max steps (%d)", maxSteps))
			}
			return results, nil
		}
		a.currentStep++
		n := a.currentStep
		a.mu.Unlock()

		a.hooks.OnStepStart(ctx, a.Snapshot())

		out, err := a.runStep(ctx)
		if err != nil {
			a.mu.Lock()
			a.state = StateError
			a.mu.Unlock()
			a.hooks.OnStepError(ctx, a.Snapshot(), err)
			if errors.Is(err, ErrInvalidState) {
				return results, err
			}
			return results, &ExecutionError{Agent: a.name, Step: n, Err: err}
		}

		if dup := duplicateCount(a.memory); dup >= a.DuplicateThreshold() {
			a.handleStuck()
			a.hooks.OnStuck(ctx, a.Snapshot(), dup)
		}

		results = append(results, fmt.Sprintf("Step %d: %s", n, out))
		a.hooks.OnStepEnd(ctx, a.Snapshot(), out)
	}
}

// runStep calls the step, turning a panic into an error.
func (a *Agent) runStep(ctx context.Context) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return a.step.Step(ctx, a)
}
