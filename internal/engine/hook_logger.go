// engine/hook_logger.go
package engine

import (
	"context"

	"go.uber.org/zap"
)

// LoggerHook writes run events to a zap logger.
type LoggerHook struct{ L *zap.Logger }

func (h LoggerHook) fields(snap Snapshot) []zap.Field {
	return []zap.Field{
		zap.String("agent", snap.Agent),
		zap.Int("step", snap.Step),
		zap.Int("max_steps", snap.MaxSteps),
		zap.Int("messages", snap.Messages),
		zap.Int("tokens", snap.Tokens),
	}
}

func (h LoggerHook) OnRunStart(_ context.Context, snap Snapshot, request string) {
	h.L.Info("run started", append(h.fields(snap), zap.String("request", preview(request, 100)))...)
}
func (h LoggerHook) OnStepStart(_ context.Context, snap Snapshot) {
	h.L.Debug("executing step", h.fields(snap)...)
}
func (h LoggerHook) OnStepEnd(_ context.Context, snap Snapshot, result string) {
	h.L.Debug("step done", append(h.fields(snap),
		zap.String("state", snap.State.String()),
		zap.String("result", preview(result, 200)))...)
}
func (h LoggerHook) OnStepError(_ context.Context, snap Snapshot, err error) {
	h.L.Error("step failed", append(h.fields(snap), zap.Error(err))...)
}
func (h LoggerHook) OnStuck(_ context.Context, snap Snapshot, duplicates int) {
	h.L.Warn("agent detected stuck state", append(h.fields(snap),
		zap.Int("duplicates", duplicates),
		zap.String("next_step_prompt", preview(snap.NextStepPrompt, 200)))...)
}
func (h LoggerHook) OnMaxSteps(_ context.Context, snap Snapshot) {
	h.L.Warn("reached max steps", h.fields(snap)...)
}
func (h LoggerHook) OnRunEnd(_ context.Context, snap Snapshot, results []string, err error) {
	fields := append(h.fields(snap), zap.Int("results", len(results)), zap.String("state", snap.State.String()))
	if err != nil {
		h.L.Error("run failed", append(fields, zap.Error(err))...)
		return
	}
	h.L.Info("run finished", fields...)
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
