package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
)

// MockBackend replays scripted replies and records each request.
type MockBackend struct {
	Replies []string
	Err     error

	calls        int
	transcripts  [][]engine.Message
	systems      [][]engine.Message
	temperatures []*float64
}

func (m *MockBackend) Respond(_ context.Context, transcript []engine.Message, system []engine.Message, temperature *float64) (string, error) {
	m.transcripts = append(m.transcripts, transcript)
	m.systems = append(m.systems, system)
	m.temperatures = append(m.temperatures, temperature)
	if m.Err != nil {
		return "", m.Err
	}
	reply := m.Replies[min(m.calls, len(m.Replies)-1)]
	m.calls++
	return reply, nil
}

func TestEchoAgent_WithoutBackend(t *testing.T) {
	a, err := NewEchoAgent("echo", nil)
	if err != nil {
		t.Fatalf("NewEchoAgent failed: %v", err)
	}

	results, err := a.Run(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 || results[0] != "Step 1: Hello" {
		t.Errorf("Unexpected results: %q", results)
	}
	last, _ := a.Memory().LastAssistantMessage()
	if last.Text() != "Hello" {
		t.Errorf("Expected assistant echo, got %q", last.Text())
	}
}

func TestEchoAgent_SendsSystemPromptAndTemperature(t *testing.T) {
	backend := &MockBackend{Replies: []string{"done"}}
	a, err := NewEchoAgent("echo", backend)
	if err != nil {
		t.Fatalf("NewEchoAgent failed: %v", err)
	}
	a.SetSystemPrompt("be brief")

	if _, err := a.Run(context.Background(), "hi"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(backend.systems[0]) != 1 || backend.systems[0][0].Text() != "be brief" {
		t.Errorf("Expected system prompt, got %v", backend.systems[0])
	}
	if backend.temperatures[0] != nil {
		t.Errorf("Expected no temperature without a next-step prompt, got %v", *backend.temperatures[0])
	}

	a.SetNextStepPrompt("keep going")
	if _, err := a.Run(context.Background(), "again"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if temp := backend.temperatures[1]; temp == nil || *temp != GuidedTemperature {
		t.Errorf("Expected temperature %v, got %v", GuidedTemperature, temp)
	}
	if n := len(backend.transcripts[1]); n != 3 {
		t.Errorf("Expected the whole transcript (3 messages), got %d", n)
	}
}

func TestEchoAgent_BackendError(t *testing.T) {
	boom := errors.New("backend down")
	a, err := NewEchoAgent("echo", &MockBackend{Err: boom})
	if err != nil {
		t.Fatalf("NewEchoAgent failed: %v", err)
	}

	_, err = a.Run(context.Background(), "hi")
	if !errors.Is(err, engine.ErrExecution) || !errors.Is(err, boom) {
		t.Errorf("Expected execution error wrapping backend error, got %v", err)
	}
	if a.State() != engine.StateError {
		t.Errorf("Expected Error state, got %s", a.State())
	}
}

func TestConversationalAgent_StopsAtMarker(t *testing.T) {
	backend := &MockBackend{Replies: []string{"thinking", "still thinking", "answer [DONE]"}}
	a, err := NewConversationalAgent("conv", backend, "")
	if err != nil {
		t.Fatalf("NewConversationalAgent failed: %v", err)
	}

	results, err := a.Run(context.Background(), "question")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []string{"Step 1: thinking", "Step 2: still thinking", "Step 3: answer [DONE]"}
	if strings.Join(results, "|") != strings.Join(want, "|") {
		t.Errorf("results = %q, want %q", results, want)
	}
}

func TestConversationalAgent_NextStepPromptIsTransient(t *testing.T) {
	backend := &MockBackend{Replies: []string{"ok STOP"}}
	a, err := NewConversationalAgent("conv", backend, "STOP")
	if err != nil {
		t.Fatalf("NewConversationalAgent failed: %v", err)
	}
	a.SetNextStepPrompt("What next?")

	if _, err := a.Run(context.Background(), "start"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	sent := backend.transcripts[0]
	if len(sent) != 2 || sent[1].Role() != engine.RoleUser || sent[1].Text() != "What next?" {
		t.Errorf("Expected next-step prompt as trailing user turn, got %v", sent)
	}
	for _, msg := range a.Memory().Messages() {
		if msg.Text() == "What next?" {
			t.Error("Next-step prompt must not be stored in memory")
		}
	}
}

func TestConversationalAgent_StuckDirectiveReachesBackend(t *testing.T) {
	backend := &MockBackend{Replies: []string{"same"}}
	a, err := NewConversationalAgent("conv", backend, "")
	if err != nil {
		t.Fatalf("NewConversationalAgent failed: %v", err)
	}
	if err := a.SetMaxSteps(3); err != nil {
		t.Fatal(err)
	}

	results, err := a.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 4 || results[3] != "Terminated: Reached max steps (3)" {
		t.Errorf("Unexpected results: %q", results)
	}

	third := backend.transcripts[2]
	last := third[len(third)-1]
	if last.Role() != engine.RoleUser || last.Text() != engine.StuckDirective {
		t.Errorf("Expected stuck directive as the trailing prompt, got %v", last)
	}
}

func TestBuild(t *testing.T) {
	cfg := engine.DefaultAgentConfig()
	cfg.Name = "built"
	cfg.MaxSteps = 4

	for _, kind := range KindNames() {
		a, err := Build(kind, cfg, nil)
		if err != nil {
			t.Fatalf("Build(%q) failed: %v", kind, err)
		}
		if a.Name() != "built" || a.MaxSteps() != 4 {
			t.Errorf("Build(%q) ignored config: name=%s max=%d", kind, a.Name(), a.MaxSteps())
		}
	}

	if _, err := Build("telepathic", cfg, nil); !errors.Is(err, engine.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for unknown kind, got %v", err)
	}
}

func TestConversationalAgent_SystemPromptNamesMarker(t *testing.T) {
	backend := &MockBackend{Replies: []string{"fin <<END>>"}}
	a, err := NewConversationalAgent("conv", backend, "<<END>>")
	if err != nil {
		t.Fatalf("NewConversationalAgent failed: %v", err)
	}
	if _, err := a.Run(context.Background(), "go"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sys := backend.systems[0]; len(sys) != 1 || !strings.Contains(sys[0].Text(), "<<END>>") {
		t.Errorf("Expected system prompt naming the stop marker, got %v", sys)
	}

	cfg := engine.DefaultAgentConfig()
	cfg.Name = "custom"
	cfg.SystemPrompt = "mine"
	built, err := Build("conversational", cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if built.SystemPrompt() != "mine" {
		t.Errorf("Configured system prompt should win, got %q", built.SystemPrompt())
	}
}
