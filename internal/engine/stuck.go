package engine

import "strings"

// StuckDirective is prepended to the next-step prompt when the agent
// keeps producing the same assistant reply.
const StuckDirective = "Observed duplicate responses. Consider new strategies and avoid repeating ineffective paths already attempted."

// prependDirective returns prompt with directive in front, separated by a
// newline. A prompt that already starts with directive is returned as is.
func prependDirective(prompt, directive string) string {
	if strings.TrimSpace(prompt) == "" {
		return directive
	}
	if strings.HasPrefix(prompt, directive) {
		return prompt
	}
	return directive + "\n" + prompt
}

// duplicateCount returns how many assistant messages repeat the newest
// message. It is zero unless the newest message is a non-blank assistant
// reply and at least two messages are held.
func duplicateCount(mem *Memory) int {
	if mem.Len() < 2 {
		return 0
	}
	last, ok := mem.Last()
	if !ok || last.role != RoleAssistant {
		return 0
	}
	content := last.Text()
	if strings.TrimSpace(content) == "" {
		return 0
	}
	return mem.CountMessagesWithRoleAndContent(RoleAssistant, content)
}

// IsStuck reports whether the newest assistant reply has been repeated at
// least DuplicateThreshold times anywhere in memory.
func (a *Agent) IsStuck() bool {
	return duplicateCount(a.memory) >= a.DuplicateThreshold()
}

// handleStuck adds the stuck directive to the next-step prompt.
func (a *Agent) handleStuck() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextStepPrompt = prependDirective(a.nextStepPrompt, StuckDirective)
}
