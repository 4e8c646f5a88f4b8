package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerHook_RunEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := newTestAgent(t, replyStep("same", false), func(b *AgentBuilder) {
		b.WithMaxSteps(2).WithHooks(LoggerHook{L: zap.New(core)})
	})

	if _, err := a.Run(context.Background(), "go"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, msg := range []string{"run started", "executing step", "agent detected stuck state", "reached max steps", "run finished"} {
		if logs.FilterMessage(msg).Len() == 0 {
			t.Errorf("Expected log entry %q", msg)
		}
	}

	stuck := logs.FilterMessage("agent detected stuck state").All()[0]
	if stuck.Level != zapcore.WarnLevel {
		t.Errorf("Stuck should log at warn, got %s", stuck.Level)
	}
	fields := stuck.ContextMap()
	if fields["agent"] != "test" || fields["duplicates"] != int64(2) {
		t.Errorf("Unexpected stuck fields: %v", fields)
	}
}

func TestLoggerHook_RunFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a := newTestAgent(t, StepFunc(func(context.Context, *Agent) (string, error) {
		return "", errors.New("boom")
	}), func(b *AgentBuilder) {
		b.WithHooks(LoggerHook{L: zap.New(core)})
	})

	if _, err := a.Run(context.Background(), "go"); err == nil {
		t.Fatal("Expected run to fail")
	}
	if logs.FilterMessage("step failed").Len() != 1 || logs.FilterMessage("run failed").Len() != 1 {
		t.Errorf("Expected step and run failure logs, got %v", logs.All())
	}
}

func TestResponseHook(t *testing.T) {
	var buf bytes.Buffer
	response := NewResponseHook()
	response.Writer = &buf

	a := newTestAgent(t, replyStep("Hi there", true), func(b *AgentBuilder) {
		b.WithHooks(DefaultHooks(nil, response)...)
	})
	response.Bind(a)

	if _, err := a.Run(context.Background(), "hello"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := buf.String(); got != "assistant> Hi there\n" {
		t.Errorf("Unexpected output: %q", got)
	}
}

func TestHooks_FanOutOrder(t *testing.T) {
	first := make(chan Event, 16)
	second := make(chan Event, 16)
	hooks := Hooks{EventHook{Ch: first}, NopHook{}, EventHook{Ch: second}}

	hooks.OnStuck(context.Background(), Snapshot{Agent: "a"}, 3)

	for _, ch := range []chan Event{first, second} {
		select {
		case ev := <-ch:
			if ev.Kind != EventStuck || ev.Data != 3 {
				t.Errorf("Unexpected event: %+v", ev)
			}
		default:
			t.Error("Expected every hook to receive the event")
		}
	}
}

func TestResponseHook_SkipsStepsWithoutReply(t *testing.T) {
	var buf bytes.Buffer
	response := NewResponseHook()
	response.Writer = &buf

	replies := []string{"first", "", " "}
	step := StepFunc(func(_ context.Context, a *Agent) (string, error) {
		n := a.CurrentStep()
		reply := replies[n-1]
		if reply != "" {
			a.Memory().Append(AssistantMessage(reply))
		}
		if n == len(replies) {
			a.Finish()
		}
		return reply, nil
	})
	a := newTestAgent(t, step, func(b *AgentBuilder) {
		b.WithHooks(response)
	})
	response.Bind(a)

	if _, err := a.Run(context.Background(), "hello"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := buf.String(); got != "assistant> first\n" {
		t.Errorf("Unexpected output: %q", got)
	}
}
