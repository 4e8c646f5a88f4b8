package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
	"github.com/ChamsBouzaiene/steploop/internal/session"
)

var (
	saveRun bool
	quiet   bool
)

var runCmd = &cobra.Command{
	Use:   "run [request]",
	Short: "Run the agent once and print its step log",
	RunE:  runOnce,
}

func init() {
	runCmd.Flags().BoolVar(&saveRun, "save", false, "Persist the transcript as a new session")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide live step progress")
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	events := make(chan engine.Event)
	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		renderEvents(cmd.ErrOrStderr(), events)
	}()

	env, err := prepareRuntimeEnv(nil, engine.EventHook{Ch: events})
	if err != nil {
		close(events)
		<-rendered
		return reportError(cmd.ErrOrStderr(), "Failed to initialize agent", err)
	}
	defer env.Close()

	results, err := env.Agent.Run(ctx, strings.Join(args, " "))
	close(events)
	<-rendered
	if err != nil {
		return reportError(cmd.ErrOrStderr(), "Run failed", err)
	}
	for _, line := range results {
		if strings.HasPrefix(line, "Terminated:") {
			fmt.Fprintln(out, warnStyle.Render(line))
			continue
		}
		fmt.Fprintln(out, line)
	}

	if !saveRun {
		return nil
	}
	store, err := session.NewStore(ctx, sessionDBPath(env.Config, env.Manager))
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer store.Close()

	sess, err := store.Create(ctx, env.Config.Agent, "")
	if err != nil {
		return err
	}
	transcript := env.Agent.Memory().Messages()
	if err := store.SaveTranscript(ctx, sess.ID, transcript); err != nil {
		return err
	}
	titleSession(ctx, env, store, sess.ID, transcript)
	fmt.Fprintln(out, labelStyle.Render("Saved session"), valueStyle.Render(sess.ID))
	return nil
}

// renderEvents prints live progress until events is closed.
func renderEvents(w io.Writer, events <-chan engine.Event) {
	for ev := range events {
		if quiet {
			continue
		}
		switch ev.Kind {
		case engine.EventStepStart:
			fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("step %d/%d", ev.Snapshot.Step, ev.Snapshot.MaxSteps)))
		case engine.EventStuck:
			fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("repeated reply seen %v times, nudging agent", ev.Data)))
		case engine.EventStepError:
			fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("step %d failed: %v", ev.Snapshot.Step, ev.Data)))
		}
	}
}
