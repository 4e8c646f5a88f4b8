package engine

import "context"

// Event kinds sent by EventHook.
const (
	EventRunStart  = "run_start"
	EventStepStart = "step_start"
	EventStepEnd   = "step_end"
	EventStepError = "step_error"
	EventStuck     = "stuck"
	EventMaxSteps  = "max_steps"
	EventRunEnd    = "run_end"
)

type Event struct {
	Kind     string
	Snapshot Snapshot
	Data     any
}

// EventHook bridges engine → UI channel. Sends block, so the receiver
// must drain the channel while a run is in progress.
type EventHook struct{ Ch chan<- Event }

func (h EventHook) OnRunStart(_ context.Context, snap Snapshot, request string) {
	h.Ch <- Event{Kind: EventRunStart, Snapshot: snap, Data: request}
}
func (h EventHook) OnStepStart(_ context.Context, snap Snapshot) {
	h.Ch <- Event{Kind: EventStepStart, Snapshot: snap, Data: snap.Step}
}
func (h EventHook) OnStepEnd(_ context.Context, snap Snapshot, result string) {
	h.Ch <- Event{Kind: EventStepEnd, Snapshot: snap, Data: result}
}
func (h EventHook) OnStepError(_ context.Context, snap Snapshot, err error) {
	h.Ch <- Event{Kind: EventStepError, Snapshot: snap, Data: err.Error()}
}
func (h EventHook) OnStuck(_ context.Context, snap Snapshot, duplicates int) {
	h.Ch <- Event{Kind: EventStuck, Snapshot: snap, Data: duplicates}
}
func (h EventHook) OnMaxSteps(_ context.Context, snap Snapshot) {
	h.Ch <- Event{Kind: EventMaxSteps, Snapshot: snap, Data: snap.MaxSteps}
}
func (h EventHook) OnRunEnd(_ context.Context, snap Snapshot, results []string, err error) {
	data := map[string]any{"results": len(results)}
	if err != nil {
		data["error"] = err.Error()
	}
	h.Ch <- Event{Kind: EventRunEnd, Snapshot: snap, Data: data}
}
