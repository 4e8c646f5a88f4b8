package engine

import "go.uber.org/zap"

// DefaultHooks returns default hooks for an agent (logger + response).
func DefaultHooks(logger *zap.Logger, response *ResponseHook) Hooks {
	if logger == nil {
		logger = zap.NewNop()
	}
	hooks := Hooks{LoggerHook{L: logger}}
	if response != nil {
		hooks = append(hooks, response)
	}
	return hooks
}
