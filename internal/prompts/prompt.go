// Package prompts holds the versioned prompt texts used by agents and
// session tooling.
package prompts

// PromptVersion identifies a revision of a prompt.
type PromptVersion string

const (
	PromptV1 PromptVersion = "1.0.0"
)

// Prompt is a versioned prompt template. Content may contain {{name}}
// placeholders filled in by Render.
type Prompt struct {
	ID          string
	Version     PromptVersion
	Content     string
	Description string
	Deprecated  bool
}
