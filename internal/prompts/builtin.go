package prompts

// Built-in prompt ids.
const (
	Conversational = "conversational"
	SessionTitle   = "session_title"
	SessionSummary = "session_summary"
)

func registerBuiltins(r *Registry) {
	r.Register(&Prompt{
		ID:          Conversational,
		Version:     PromptV1,
		Description: "System prompt for multi-step conversational agents",
		Content: `You are working through a task one step at a time.
Each reply is one step. Build on your previous replies instead of repeating them.
When the task is complete, end your final reply with {{stop_marker}}.`,
	})
	r.Register(&Prompt{
		ID:          SessionTitle,
		Version:     PromptV1,
		Description: "Short title for a saved session",
		Content:     "You are a helpful assistant. Generate a short, concise title (3-5 words) for this session based on the user's intent. Do not use quotes or punctuation.",
	})
	r.Register(&Prompt{
		ID:          SessionSummary,
		Version:     PromptV1,
		Description: "Context summary carried into a resumed session",
		Content:     "You represent the memory of an AI assistant. Summarize the following session history to preserve context for a future session. Focus on decisions made, open questions and next steps. Be concise.",
	})
}
