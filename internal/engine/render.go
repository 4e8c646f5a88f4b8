package engine

import "strings"

// RenderForSummary flattens a transcript into "[role] content" paragraphs
// for prompts that ask a model to describe a conversation.
func RenderForSummary(ms []Message) string {
	var b strings.Builder
	for _, m := range ms {
		b.WriteString("[" + m.role.String() + "] ")
		b.WriteString(m.Text())
		for _, tc := range m.toolCalls {
			b.WriteString(" <" + tc.Function.Name + " " + tc.Function.Arguments + ">")
		}
		b.WriteString("\n\n")
	}
	return b.String()
}
