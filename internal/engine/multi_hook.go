package engine

import "context"

// Hooks fans each event out to every hook in order.
type Hooks []Hook

func (hs Hooks) OnRunStart(ctx context.Context, snap Snapshot, request string) {
	for _, h := range hs {
		h.OnRunStart(ctx, snap, request)
	}
}
func (hs Hooks) OnStepStart(ctx context.Context, snap Snapshot) {
	for _, h := range hs {
		h.OnStepStart(ctx, snap)
	}
}
func (hs Hooks) OnStepEnd(ctx context.Context, snap Snapshot, result string) {
	for _, h := range hs {
		h.OnStepEnd(ctx, snap, result)
	}
}
func (hs Hooks) OnStepError(ctx context.Context, snap Snapshot, err error) {
	for _, h := range hs {
		h.OnStepError(ctx, snap, err)
	}
}
func (hs Hooks) OnStuck(ctx context.Context, snap Snapshot, duplicates int) {
	for _, h := range hs {
		h.OnStuck(ctx, snap, duplicates)
	}
}
func (hs Hooks) OnMaxSteps(ctx context.Context, snap Snapshot) {
	for _, h := range hs {
		h.OnMaxSteps(ctx, snap)
	}
}
func (hs Hooks) OnRunEnd(ctx context.Context, snap Snapshot, results []string, err error) {
	for _, h := range hs {
		h.OnRunEnd(ctx, snap, results, err)
	}
}
