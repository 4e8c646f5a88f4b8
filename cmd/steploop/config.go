package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ChamsBouzaiene/steploop/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  showConfig,
}

var forceInit bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	Args:  cobra.NoArgs,
	RunE:  initConfig,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func showConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, mgr, err := loadConfig()
	if err != nil {
		return reportError(cmd.ErrOrStderr(), "Invalid configuration", err)
	}

	if mgr.Exists() {
		fmt.Fprintln(out, valueStyle.Bold(true).Render("Current Configuration: "+mgr.GetConfigPath()))
	} else {
		fmt.Fprintln(out, warnStyle.Render("No config file found. Showing defaults:"))
	}
	fmt.Fprintln(out)

	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	mgr, err := configManager()
	if err != nil {
		return err
	}
	if mgr.Exists() && !forceInit {
		fmt.Fprintln(out, warnStyle.Render(mgr.GetConfigPath()+" already exists. Use --force to overwrite it."))
		return nil
	}

	if err := mgr.Save(config.Default()); err != nil {
		return reportError(cmd.ErrOrStderr(), "Failed to create config", err)
	}

	fmt.Fprintln(out, okStyle.Render("Created "+mgr.GetConfigPath()+" with default settings."))
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - LLM provider, model and API key")
	fmt.Fprintln(out, "  - Agent kind and prompts")
	fmt.Fprintln(out, "  - Step budget and duplicate threshold")
	return nil
}
