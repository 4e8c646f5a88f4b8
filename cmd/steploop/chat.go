package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/steploop/internal/config"
	"github.com/ChamsBouzaiene/steploop/internal/engine"
	"github.com/ChamsBouzaiene/steploop/internal/session"
)

var (
	resumeID  string
	noSession bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	Long: `Start an interactive session. Every line is one agent run.

Commands:
  history  print the transcript
  clear    forget the transcript
  reset    recover the agent after a failed run
  exit     leave the session`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&resumeID, "resume", "", "Continue a saved session")
	chatCmd.Flags().BoolVar(&noSession, "no-session", false, "Do not persist the transcript")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := prepareRuntimeEnv(out)
	if err != nil {
		return reportError(cmd.ErrOrStderr(), "Failed to initialize agent", err)
	}
	defer env.Close()

	var store *session.Store
	var sess *session.Session
	if !noSession {
		store, err = session.NewStore(ctx, sessionDBPath(env.Config, env.Manager))
		if err != nil {
			env.Logger.Warn("session persistence disabled", zap.Error(err))
		} else {
			defer store.Close()
		}
	}
	if resumeID != "" {
		if store == nil {
			return errors.New("--resume requires session persistence")
		}
		sess, err = store.Load(ctx, resumeID)
		if err != nil {
			return err
		}
		env.Agent.Memory().AppendAll(sess.Transcript...)
		fmt.Fprintln(out, labelStyle.Render(fmt.Sprintf("Resumed %q with %d messages", sess.Title, len(sess.Transcript))))
	}

	reloads := watchConfig(ctx, env)

	fmt.Fprintf(out, "%s %s %s\n",
		promptStyle.Render(env.Agent.Name()),
		labelStyle.Render("using"),
		valueStyle.Render(env.Model))

	s := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, promptStyle.Render("you> "))
		if !s.Scan() {
			break
		}
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}

		switch line {
		case "exit", "quit":
			return finishChat(ctx, out, env, store, sess)
		case "history":
			printTranscript(out, env.Agent.Memory().Messages())
			continue
		case "clear":
			env.Agent.Memory().Clear()
			fmt.Fprintln(out, okStyle.Render("Transcript cleared."))
			continue
		case "reset":
			if err := env.Agent.Reset(); err != nil {
				printError(out, "Reset failed", err)
				continue
			}
			fmt.Fprintln(out, okStyle.Render("Agent is idle again."))
			continue
		}

		applyReloads(env, reloads)

		results, err := env.Agent.Run(ctx, line)
		if err != nil {
			printError(out, "Run failed", err)
			if errors.Is(err, engine.ErrExecution) {
				fmt.Fprintln(out, warnStyle.Render("Type 'reset' to continue."))
			}
			continue
		}
		if n := len(results); n > 0 && strings.HasPrefix(results[n-1], "Terminated:") {
			fmt.Fprintln(out, warnStyle.Render(results[n-1]))
		}

		if store != nil {
			if sess == nil {
				sess, err = store.Create(ctx, env.Config.Agent, "")
				if err != nil {
					env.Logger.Warn("failed to create session", zap.Error(err))
					continue
				}
			}
			if err := store.SaveTranscript(ctx, sess.ID, env.Agent.Memory().Messages()); err != nil {
				env.Logger.Warn("failed to save transcript", zap.String("session", sess.ID), zap.Error(err))
			}
		}
	}
	if err := s.Err(); err != nil {
		return err
	}
	return finishChat(ctx, out, env, store, sess)
}

func finishChat(ctx context.Context, out io.Writer, env *runtimeEnv, store *session.Store, sess *session.Session) error {
	if store == nil || sess == nil {
		return nil
	}
	if sess.Title == "" {
		titleSession(ctx, env, store, sess.ID, env.Agent.Memory().Messages())
	}
	fmt.Fprintln(out, labelStyle.Render("Saved session"), valueStyle.Render(sess.ID))
	return nil
}

// watchConfig streams validated config reloads. Only the latest one is kept.
func watchConfig(ctx context.Context, env *runtimeEnv) <-chan *config.Config {
	reloads := make(chan *config.Config, 1)
	if !env.Manager.Exists() {
		return reloads
	}

	w, err := config.NewWatcher(env.Manager.GetConfigPath())
	if err != nil {
		env.Logger.Warn("config hot reload disabled", zap.Error(err))
		return reloads
	}
	go w.Run(ctx, func(cfg *config.Config, err error) {
		if err != nil {
			env.Logger.Warn("ignoring config change", zap.Error(err))
			return
		}
		select {
		case <-reloads:
		default:
		}
		reloads <- cfg
	})
	return reloads
}

// applyReloads copies prompts and limits from a pending reload onto the
// idle agent. Provider and agent kind changes need a restart.
func applyReloads(env *runtimeEnv, reloads <-chan *config.Config) {
	var cfg *config.Config
	select {
	case cfg = <-reloads:
	default:
		return
	}
	applyFlags(cfg)

	a := env.Agent
	if cfg.SystemPrompt != "" {
		a.SetSystemPrompt(cfg.SystemPrompt)
	}
	a.SetNextStepPrompt(cfg.NextStepPrompt)
	if err := a.SetMaxSteps(cfg.MaxSteps); err != nil {
		env.Logger.Warn("ignoring max_steps", zap.Error(err))
	}
	if err := a.SetDuplicateThreshold(cfg.DuplicateThreshold); err != nil {
		env.Logger.Warn("ignoring duplicate_threshold", zap.Error(err))
	}
	env.Config = cfg
	env.Logger.Info("config reloaded", zap.Int("max_steps", cfg.MaxSteps))
}

func printTranscript(w io.Writer, transcript []engine.Message) {
	if len(transcript) == 0 {
		fmt.Fprintln(w, labelStyle.Render("(empty transcript)"))
		return
	}
	for i, msg := range transcript {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%3d", i+1)), msg.String())
	}
}
