package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ChamsBouzaiene/steploop/internal/agents"
	"github.com/ChamsBouzaiene/steploop/internal/providers"
)

var (
	Version   = "0.1.0"
	GitCommit = "dev"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, promptStyle.Render("steploop"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Version:"), valueStyle.Render(Version))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Git Commit:"), valueStyle.Render(GitCommit))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Build Date:"), valueStyle.Render(BuildDate))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Go Version:"), valueStyle.Render(runtime.Version()))
	fmt.Fprintf(out, "%s %s/%s\n", labelStyle.Render("Platform:"), valueStyle.Render(runtime.GOOS), valueStyle.Render(runtime.GOARCH))
	fmt.Fprintf(out, "%s %v\n", labelStyle.Render("Agents:"), agents.KindNames())
	fmt.Fprintf(out, "%s %v\n", labelStyle.Render("Providers:"), providers.SupportedProviders())
}
