// engine/hooks.go
package engine

import "context"

// Hook observes an agent run. Hooks are called synchronously from the
// goroutine executing Run and must not call Run on the same agent.
type Hook interface {
	OnRunStart(ctx context.Context, snap Snapshot, request string)
	OnStepStart(ctx context.Context, snap Snapshot)
	OnStepEnd(ctx context.Context, snap Snapshot, result string)
	OnStepError(ctx context.Context, snap Snapshot, err error)
	OnStuck(ctx context.Context, snap Snapshot, duplicates int)
	OnMaxSteps(ctx context.Context, snap Snapshot)
	OnRunEnd(ctx context.Context, snap Snapshot, results []string, err error)
}

// NopHook lets you implement any hook you need.
type NopHook struct{}

func (NopHook) OnRunStart(context.Context, Snapshot, string)        {}
func (NopHook) OnStepStart(context.Context, Snapshot)               {}
func (NopHook) OnStepEnd(context.Context, Snapshot, string)         {}
func (NopHook) OnStepError(context.Context, Snapshot, error)        {}
func (NopHook) OnStuck(context.Context, Snapshot, int)              {}
func (NopHook) OnMaxSteps(context.Context, Snapshot)                {}
func (NopHook) OnRunEnd(context.Context, Snapshot, []string, error) {}
