package providers

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
)

// compatProvider describes an OpenAI-compatible endpoint.
type compatProvider struct {
	envPrefix    string
	defaultModel string
	baseURL      string // Default base URL; empty means the OpenAI default
	keyOptional  bool   // Local servers accept any key
	defaultKey   string
}

var compatProviders = map[string]compatProvider{
	"openai":   {envPrefix: "OPENAI", defaultModel: "gpt-4o-mini"},
	"kimi":     {envPrefix: "KIMI", defaultModel: "kimi-k2-250711", baseURL: "https://ark.ap-southeast.bytepluses.com/api/v3"},
	"gemini":   {envPrefix: "GEMINI", defaultModel: "gemini-1.5-flash", baseURL: "https://generativelanguage.googleapis.com/v1beta/openai"},
	"lmstudio": {envPrefix: "LMSTUDIO", defaultModel: "local-model", baseURL: "http://localhost:1234/v1", keyOptional: true, defaultKey: "lm-studio"},
	"ollama":   {envPrefix: "OLLAMA", defaultModel: "llama3.1", baseURL: "http://localhost:11434/v1", keyOptional: true, defaultKey: "ollama"},
	"glm":      {envPrefix: "GLM", defaultModel: "glm-4-plus", baseURL: "https://open.bigmodel.cn/api/paas/v4"},
	"minimax":  {envPrefix: "MINIMAX", defaultModel: "abab6.5s-chat", baseURL: "https://api.minimax.chat/v1"},
	"deepseek": {envPrefix: "DEEPSEEK", defaultModel: "deepseek-chat", baseURL: "https://api.deepseek.com/v1"},
	"groq":     {envPrefix: "GROQ", defaultModel: "llama-3.1-70b-versatile", baseURL: "https://api.groq.com/openai/v1"},
}

// SupportedProviders lists every value accepted for LLM_PROVIDER.
func SupportedProviders() []string {
	names := []string{"anthropic", "echo"}
	for name := range compatProviders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBackendFromEnv creates an engine.Backend based on environment variables.
// LLM_PROVIDER selects the provider (default "echo"); <PREFIX>_API_KEY,
// <PREFIX>_MODEL and <PREFIX>_BASE_URL configure it. LLM_MAX_RETRIES
// overrides the retry count. It returns the backend and the model name.
func NewBackendFromEnv(onRetry RetryFunc) (engine.Backend, string, error) {
	provider := strings.ToLower(os.Getenv("LLM_PROVIDER"))
	if provider == "" {
		provider = "echo"
	}

	retry := DefaultRetryPolicy()
	if v := os.Getenv("LLM_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, "", fmt.Errorf("invalid LLM_MAX_RETRIES %q", v)
		}
		retry.MaxRetries = n
	}

	switch provider {
	case "echo":
		return NewEchoBackend(), "echo", nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		model := envOr("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest")
		return NewAnthropicBackend(Options{
			APIKey:  apiKey,
			Model:   model,
			BaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
			Retry:   retry,
			OnRetry: onRetry,
		}), model, nil
	}

	p, ok := compatProviders[provider]
	if !ok {
		return nil, "", fmt.Errorf("unknown LLM_PROVIDER: %s (supported: %s)", provider, strings.Join(SupportedProviders(), ", "))
	}

	apiKey := os.Getenv(p.envPrefix + "_API_KEY")
	if apiKey == "" {
		if !p.keyOptional {
			return nil, "", fmt.Errorf("%s_API_KEY not set", p.envPrefix)
		}
		apiKey = p.defaultKey
	}
	model := envOr(p.envPrefix+"_MODEL", p.defaultModel)

	return NewOpenAIBackend(Options{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: envOr(p.envPrefix+"_BASE_URL", p.baseURL),
		Retry:   retry,
		OnRetry: onRetry,
	}), model, nil
}

// EnvPrefix returns the environment variable prefix used by provider.
func EnvPrefix(provider string) (string, bool) {
	switch provider {
	case "anthropic":
		return "ANTHROPIC", true
	case "echo":
		return "", false
	}
	p, ok := compatProviders[provider]
	return p.envPrefix, ok
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
