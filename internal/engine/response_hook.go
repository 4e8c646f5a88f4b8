package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// ResponseHook prints the assistant reply added by each step.
// This is a generic solution for displaying responses in REPL/interactive mode.
type ResponseHook struct {
	NopHook
	Writer io.Writer // Defaults to os.Stdout
	agent  *Agent

	lenAtStart int
}

// NewResponseHook creates a new response hook that prints to stdout.
func NewResponseHook() *ResponseHook {
	return &ResponseHook{Writer: os.Stdout}
}

// Bind tells the hook which agent's memory to read replies from.
func (h *ResponseHook) Bind(a *Agent) { h.agent = a }

func (h *ResponseHook) OnStepStart(_ context.Context, _ Snapshot) {
	if h.agent != nil {
		h.lenAtStart = h.agent.Memory().Len()
	}
}

func (h *ResponseHook) OnStepEnd(_ context.Context, _ Snapshot, result string) {
	content := result
	if h.agent != nil {
		mem := h.agent.Memory()
		// A full buffer evicts on append, so its length cannot show growth.
		if mem.Len() == h.lenAtStart && h.lenAtStart < mem.Capacity() {
			return
		}
		msg, ok := mem.Last()
		if !ok || msg.Role() != RoleAssistant {
			return
		}
		content = msg.Text()
	}
	if strings.TrimSpace(content) == "" {
		return
	}
	fmt.Fprintf(h.Writer, "assistant> %s\n", content)
}
