package config

import (
	"fmt"
	"os"
	"strconv"
)

// ApplyEnv overlays STEPLOOP_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	strs := map[string]*string{
		"STEPLOOP_AGENT":            &cfg.Agent,
		"STEPLOOP_AGENT_NAME":       &cfg.AgentName,
		"STEPLOOP_SYSTEM_PROMPT":    &cfg.SystemPrompt,
		"STEPLOOP_NEXT_STEP_PROMPT": &cfg.NextStepPrompt,
		"STEPLOOP_SESSION_DB":       &cfg.SessionDB,
		"LLM_PROVIDER":              &cfg.LLMProvider,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"STEPLOOP_MAX_STEPS":           &cfg.MaxSteps,
		"STEPLOOP_DUPLICATE_THRESHOLD": &cfg.DuplicateThreshold,
		"STEPLOOP_MAX_MESSAGES":        &cfg.MaxMessages,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
		}
		*dst = n
	}
	return nil
}

// ExportProviderEnv publishes the provider settings as the environment
// variables read by the provider factory. Variables already set win.
func ExportProviderEnv(cfg *Config, envPrefix string) {
	setIfEmpty := func(key, value string) {
		if value == "" {
			return
		}
		if _, ok := os.LookupEnv(key); !ok {
			os.Setenv(key, value)
		}
	}
	setIfEmpty("LLM_PROVIDER", cfg.LLMProvider)
	if envPrefix == "" {
		return
	}
	setIfEmpty(envPrefix+"_API_KEY", cfg.APIKey)
	setIfEmpty(envPrefix+"_MODEL", cfg.Model)
	setIfEmpty(envPrefix+"_BASE_URL", cfg.BaseURL)
}
