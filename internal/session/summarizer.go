package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
	"github.com/ChamsBouzaiene/steploop/internal/prompts"
)

const titleHistoryLimit = 10

// Summarizer derives session titles and summaries through a backend.
type Summarizer struct {
	backend engine.Backend
}

// NewSummarizer creates a new session summarizer.
func NewSummarizer(backend engine.Backend) *Summarizer {
	return &Summarizer{backend: backend}
}

// GenerateTitle generates a short 3-5 word title for the session.
func (s *Summarizer) GenerateTitle(ctx context.Context, history []engine.Message) (string, error) {
	if len(history) == 0 {
		return "New Session", nil
	}

	// Only the first few messages are needed to determine the intent
	limit := min(len(history), titleHistoryLimit)
	prompt := fmt.Sprintf("History:\n%s\n\nGenerate Title:", engine.RenderForSummary(history[:limit]))

	resp, err := s.backend.Respond(ctx,
		[]engine.Message{engine.UserMessage(prompt)},
		[]engine.Message{engine.SystemMessage(prompts.MustRender(prompts.SessionTitle, nil))},
		engine.Temperature(0.3))
	if err != nil {
		return "", fmt.Errorf("failed to generate title: %w", err)
	}

	title := strings.TrimSpace(resp)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title, nil
}

// GenerateSummary generates a context summary for the next session.
func (s *Summarizer) GenerateSummary(ctx context.Context, history []engine.Message) (string, error) {
	if len(history) == 0 {
		return "", nil
	}

	prompt := fmt.Sprintf("Summarize this session:\n\n%s", engine.RenderForSummary(history))

	resp, err := s.backend.Respond(ctx,
		[]engine.Message{engine.UserMessage(prompt)},
		[]engine.Message{engine.SystemMessage(prompts.MustRender(prompts.SessionSummary, nil))},
		engine.Temperature(0.1))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	return strings.TrimSpace(resp), nil
}
