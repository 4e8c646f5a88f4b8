package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/steploop/internal/agents"
	"github.com/ChamsBouzaiene/steploop/internal/config"
	"github.com/ChamsBouzaiene/steploop/internal/engine"
	"github.com/ChamsBouzaiene/steploop/internal/providers"
	"github.com/ChamsBouzaiene/steploop/internal/session"
)

type runtimeEnv struct {
	Config   *config.Config
	Manager  *config.Manager
	Logger   *zap.Logger
	Backend  engine.Backend
	Model    string
	Agent    *engine.Agent
	Response *engine.ResponseHook
}

func (r *runtimeEnv) Close() {
	_ = r.Logger.Sync()
}

// prepareRuntimeEnv loads configuration and builds the configured agent.
// When out is non-nil, assistant replies are echoed to it as they arrive.
func prepareRuntimeEnv(out io.Writer, extra ...engine.Hook) (*runtimeEnv, error) {
	cfg, mgr, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := createLogger()
	applyConfigToEnv(cfg)

	backend, model, err := providers.NewBackendFromEnv(func(attempt int, delay time.Duration, err error) {
		logger.Warn("retrying backend call",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend: %w", err)
	}
	logger.Debug("backend ready", zap.String("provider", cfg.LLMProvider), zap.String("model", model))

	var response *engine.ResponseHook
	if out != nil {
		response = engine.NewResponseHook()
		response.Writer = out
	}

	hooks := append(engine.DefaultHooks(logger, response), extra...)
	agent, err := agents.Build(cfg.Agent, cfg.AgentConfig(), backend, hooks...)
	if err != nil {
		return nil, fmt.Errorf("failed to build agent: %w", err)
	}
	if response != nil {
		response.Bind(agent)
	}

	return &runtimeEnv{
		Config:   cfg,
		Manager:  mgr,
		Logger:   logger,
		Backend:  backend,
		Model:    model,
		Agent:    agent,
		Response: response,
	}, nil
}

// applyConfigToEnv exposes the configured provider settings to the
// provider factory without clobbering variables set by the user.
func applyConfigToEnv(cfg *config.Config) {
	prefix, _ := providers.EnvPrefix(cfg.LLMProvider)
	config.ExportProviderEnv(cfg, prefix)
}

// sessionDBPath defaults to sessions.db next to the config file.
func sessionDBPath(cfg *config.Config, mgr *config.Manager) string {
	if cfg.SessionDB != "" {
		return cfg.SessionDB
	}
	return filepath.Join(mgr.Dir(), "sessions.db")
}

func openStore(ctx context.Context) (*session.Store, error) {
	cfg, mgr, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return session.NewStore(ctx, sessionDBPath(cfg, mgr))
}
