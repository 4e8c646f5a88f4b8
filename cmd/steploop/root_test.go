package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRootCommandSilencesCobraErrors(t *testing.T) {
	if !rootCmd.SilenceErrors || !rootCmd.SilenceUsage {
		t.Error("Root command must leave error printing to Execute")
	}
}

func TestHandleExecuteError(t *testing.T) {
	boom := errors.New("boom")

	t.Run("reported errors print once", func(t *testing.T) {
		var stderr bytes.Buffer
		err := reportError(&stderr, "Run failed", boom)
		if !errors.Is(err, boom) {
			t.Errorf("reportError should wrap the cause, got %v", err)
		}

		handleExecuteError(&stderr, err)
		if n := strings.Count(stderr.String(), "boom"); n != 1 {
			t.Errorf("Expected the error printed once, got %d times: %q", n, stderr.String())
		}
		if !strings.Contains(stderr.String(), "Error: Run failed: boom") {
			t.Errorf("Unexpected output: %q", stderr.String())
		}
	})

	t.Run("unreported errors are printed", func(t *testing.T) {
		var stderr bytes.Buffer
		handleExecuteError(&stderr, errors.New(`unknown flag: --nope`))
		if !strings.Contains(stderr.String(), "Error: unknown flag: --nope") {
			t.Errorf("Unexpected output: %q", stderr.String())
		}
	})
}
