// Token counting used for transcript size reporting.

package engine

import (
	"fmt"
	"strings"
)

// Tokenizer provides token counting for text.
type Tokenizer interface {
	CountTokens(text string) (int, error)
}

// EstimateTokens provides a rough token count estimation.
// Uses a simple heuristic: ~4 characters per token for English/code.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}

	charCount := len([]rune(text))
	whitespaceCount := strings.Count(text, " ") + strings.Count(text, "\n") + strings.Count(text, "\t")

	// (characters / 4) + (whitespace / 6)
	estimated := (charCount / 4) + (whitespaceCount / 6)
	if estimated < 1 {
		return 1
	}
	return estimated
}

// DefaultTokenizer counts with EstimateTokens.
type DefaultTokenizer struct{}

func (DefaultTokenizer) CountTokens(text string) (int, error) {
	return EstimateTokens(text), nil
}

// CountTokensForMessages counts tokens for a transcript, including
// formatting overhead of about 4 tokens per message.
func CountTokensForMessages(tokenizer Tokenizer, messages []Message) (int, error) {
	total := 0
	for _, msg := range messages {
		roleTokens, err := tokenizer.CountTokens(msg.role.String())
		if err != nil {
			return 0, fmt.Errorf("failed to count role tokens: %w", err)
		}
		contentTokens, err := tokenizer.CountTokens(msg.Text())
		if err != nil {
			return 0, fmt.Errorf("failed to count content tokens: %w", err)
		}
		total += roleTokens + contentTokens

		for _, tc := range msg.toolCalls {
			nameTokens, err := tokenizer.CountTokens(tc.Function.Name)
			if err != nil {
				return 0, fmt.Errorf("failed to count tool call name tokens: %w", err)
			}
			argsTokens, err := tokenizer.CountTokens(tc.Function.Arguments)
			if err != nil {
				return 0, fmt.Errorf("failed to count tool call args tokens: %w", err)
			}
			total += nameTokens + argsTokens
		}

		total += 4
	}
	return total, nil
}
