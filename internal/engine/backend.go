package engine

import "context"

// Backend produces the next assistant reply for a transcript. system holds
// the instruction messages to place before the transcript. A nil
// temperature leaves sampling to the backend's default.
//
// Implementations must be safe for concurrent use by independent agents.
type Backend interface {
	Respond(ctx context.Context, transcript []Message, system []Message, temperature *float64) (string, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, transcript []Message, system []Message, temperature *float64) (string, error)

func (f BackendFunc) Respond(ctx context.Context, transcript []Message, system []Message, temperature *float64) (string, error) {
	return f(ctx, transcript, system, temperature)
}

// Temperature returns a pointer to t for use with Backend.Respond.
func Temperature(t float64) *float64 { return &t }
