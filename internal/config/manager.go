package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the user's persistent configuration preferences.
type Config struct {
	LLMProvider string `json:"llm_provider,omitempty" yaml:"llm_provider,omitempty"` // echo, openai, anthropic, ollama, ...
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty"`           // The API key for the selected provider
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`               // Default model name
	BaseURL     string `json:"base_url,omitempty" yaml:"base_url,omitempty"`         // Optional override for API base URL

	Agent              string `json:"agent,omitempty" yaml:"agent"` // Agent kind: echo, conversational
	AgentName          string `json:"agent_name,omitempty" yaml:"agent_name"`
	SystemPrompt       string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
	NextStepPrompt     string `json:"next_step_prompt,omitempty" yaml:"next_step_prompt,omitempty"`
	MaxSteps           int    `json:"max_steps,omitempty" yaml:"max_steps"`
	DuplicateThreshold int    `json:"duplicate_threshold,omitempty" yaml:"duplicate_threshold"`
	MaxMessages        int    `json:"max_messages,omitempty" yaml:"max_messages"`

	SessionDB string `json:"session_db,omitempty" yaml:"session_db,omitempty"` // Path to the session database
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		LLMProvider:        "echo",
		Agent:              "echo",
		AgentName:          "steploop",
		MaxSteps:           engine.DefaultMaxSteps,
		DuplicateThreshold: engine.DefaultDuplicateThreshold,
		MaxMessages:        engine.DefaultMaxMessages,
	}
}

// Validate rejects non-positive limits and a missing agent name.
func (c *Config) Validate() error {
	if c.AgentName == "" {
		return fmt.Errorf("%w: agent_name is required", ErrInvalidConfig)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max_steps must be positive, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	if c.DuplicateThreshold <= 0 {
		return fmt.Errorf("%w: duplicate_threshold must be positive, got %d", ErrInvalidConfig, c.DuplicateThreshold)
	}
	if c.MaxMessages <= 0 {
		return fmt.Errorf("%w: max_messages must be positive, got %d", ErrInvalidConfig, c.MaxMessages)
	}
	return nil
}

// AgentConfig converts the agent settings for engine.AgentBuilder.
func (c *Config) AgentConfig() engine.AgentConfig {
	return engine.AgentConfig{
		Name:               c.AgentName,
		SystemPrompt:       c.SystemPrompt,
		NextStepPrompt:     c.NextStepPrompt,
		MaxSteps:           c.MaxSteps,
		DuplicateThreshold: c.DuplicateThreshold,
		MaxMessages:        c.MaxMessages,
	}
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if len(out.APIKey) > 8 {
		out.APIKey = out.APIKey[:4] + "..." + out.APIKey[len(out.APIKey)-4:]
	} else if out.APIKey != "" {
		out.APIKey = "***"
	}
	return &out
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a manager rooted at the user config directory.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return NewManagerAt(filepath.Join(configDir, "steploop")), nil
}

// NewManagerAt creates a manager that keeps config.json in dir.
func NewManagerAt(dir string) *Manager {
	return &Manager{configDir: dir}
}

// NewManagerForFile creates a manager for an explicit config file path.
// The file must be named config.json.
func NewManagerForFile(path string) (*Manager, error) {
	if filepath.Base(path) != "config.json" {
		return nil, fmt.Errorf("%w: config file must be named config.json, got %s", ErrInvalidConfig, path)
	}
	return NewManagerAt(filepath.Dir(path)), nil
}

// Dir returns the configuration directory.
func (m *Manager) Dir() string { return m.configDir }

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk, layered over Default.
// If the file does not exist, it returns Default and no error.
func (m *Manager) Load() (*Config, error) {
	return loadFile(m.GetConfigPath())
}

func loadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to disk with restricted permissions (0600).
func (m *Manager) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}
