package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/steploop/internal/agents"
	"github.com/ChamsBouzaiene/steploop/internal/config"
)

var (
	configPath string
	verbose    bool
	agentKind  string
	maxSteps   int
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
)

var rootCmd = &cobra.Command{
	Use:   "steploop",
	Short: "Step-loop agent runner",
	Long: `steploop drives an agent through bounded steps against a language model,
detecting repeated replies and nudging the agent toward a new strategy.

Usage:
  steploop run "Summarize the plan"
  steploop chat
  steploop sessions list`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree with a context cancelled on interrupt.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		handleExecuteError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&agentKind, "agent", "", fmt.Sprintf("Agent kind %v (overrides config)", agents.KindNames()))
	rootCmd.PersistentFlags().IntVar(&maxSteps, "max-steps", 0, "Step budget per run (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func configManager() (*config.Manager, error) {
	if configPath != "" {
		return config.NewManagerForFile(configPath)
	}
	return config.NewManager()
}

// loadConfig reads the config file, then applies environment and flag
// overrides on top.
func loadConfig() (*config.Config, *config.Manager, error) {
	mgr, err := configManager()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := mgr.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, nil, err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, mgr, nil
}

func applyFlags(cfg *config.Config) {
	if agentKind != "" {
		cfg.Agent = agentKind
	}
	if maxSteps != 0 {
		cfg.MaxSteps = maxSteps
	}
}

func createLogger() *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction(zap.IncreaseLevel(zap.WarnLevel))
	return logger
}

func printError(w io.Writer, msg string, err error) {
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Error: %s: %v", msg, err)))
}

// reportedError marks an error that has already been shown to the user.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// reportError prints err and returns it marked as reported, so Execute
// does not print it a second time.
func reportError(w io.Writer, msg string, err error) error {
	printError(w, msg, err)
	return reportedError{err: err}
}

// handleExecuteError prints command errors that were not reported yet.
// Cobra's own printing is silenced on the root command.
func handleExecuteError(w io.Writer, err error) {
	var reported reportedError
	if errors.As(err, &reported) {
		return
	}
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}
