package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
	"github.com/ChamsBouzaiene/steploop/internal/providers"
	"github.com/ChamsBouzaiene/steploop/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List, show or delete saved sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := store.List(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, labelStyle.Render("No sessions saved yet."))
			return nil
		}
		for _, meta := range list {
			title := meta.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(out, "%s  %s  %s %s\n",
				valueStyle.Render(meta.ID),
				meta.UpdatedAt.Format("2006-01-02 15:04"),
				title,
				labelStyle.Render(fmt.Sprintf("[%s, %d messages]", meta.Agent, meta.Messages)))
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		sess, err := store.Load(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Title:"), valueStyle.Render(sess.Title))
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Agent:"), valueStyle.Render(sess.Agent))
		if sess.Summary != "" {
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Summary:"), sess.Summary)
		}
		fmt.Fprintln(out)
		printTranscript(out, sess.Transcript)
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Deleted session "+args[0]))
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

// titleSession asks the backend for a title and summary. Failures are
// logged and leave the session untitled.
func titleSession(ctx context.Context, env *runtimeEnv, store *session.Store, id string, transcript []engine.Message) {
	// The echo backend would only parrot the prompt back.
	if _, ok := env.Backend.(providers.EchoBackend); ok {
		return
	}
	summarizer := session.NewSummarizer(env.Backend)

	title, err := summarizer.GenerateTitle(ctx, transcript)
	if err != nil {
		env.Logger.Warn("failed to generate session title", zap.String("session", id), zap.Error(err))
		return
	}
	summary, err := summarizer.GenerateSummary(ctx, transcript)
	if err != nil {
		env.Logger.Warn("failed to generate session summary", zap.String("session", id), zap.Error(err))
	}
	if err := store.SetTitle(ctx, id, title, summary); err != nil {
		env.Logger.Warn("failed to save session title", zap.String("session", id), zap.Error(err))
	}
}
