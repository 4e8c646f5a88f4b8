package providers

import (
	"context"
	"strings"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
)

// EchoBackend answers with the most recent user message so agents can be
// exercised without a remote model.
type EchoBackend struct{}

func NewEchoBackend() EchoBackend { return EchoBackend{} }

// Respond implements engine.Backend. System messages are considered before
// the transcript. Without any user message it joins the non-blank
// assistant replies.
func (EchoBackend) Respond(_ context.Context, transcript []engine.Message, system []engine.Message, _ *float64) (string, error) {
	all := make([]engine.Message, 0, len(system)+len(transcript))
	all = append(all, system...)
	all = append(all, transcript...)

	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Role() != engine.RoleUser {
			continue
		}
		if content, ok := all[i].Content(); ok {
			return content, nil
		}
		return "(no content)", nil
	}

	var parts []string
	for _, m := range all {
		if m.Role() != engine.RoleAssistant {
			continue
		}
		if content := m.Text(); strings.TrimSpace(content) != "" {
			parts = append(parts, content)
		}
	}
	if len(parts) == 0 {
		return "(no message history)", nil
	}
	return strings.Join(parts, " "), nil
}
