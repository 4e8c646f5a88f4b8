package providers

// Options configures a remote backend.
type Options struct {
	APIKey    string
	Model     string
	BaseURL   string      // Optional override for OpenAI-compatible endpoints
	MaxTokens int         // 0 uses the provider default
	Retry     RetryPolicy // Zero value disables retries
	OnRetry   RetryFunc   // Optional, called before each retry
}

const defaultAnthropicMaxTokens = 4096
