package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := time.Unix(1700000000, 0)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session, err := store.Create(ctx, "echo", "Test Session")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("Expected a generated session id")
	}

	transcript := []engine.Message{
		engine.UserMessage("Hello"),
		engine.AssistantWithTools("", []engine.ToolCall{
			engine.NewFunctionToolCall("call-1", engine.FunctionCall{Name: "lookup", Arguments: `{"q":"hi"}`}),
		}),
		engine.ToolMessage(`{"a":1}`, "lookup", "call-1"),
		engine.AssistantMessage("Hi there"),
	}

	if err := store.SaveTranscript(ctx, session.ID, transcript); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	loaded, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != session.ID || loaded.Agent != "echo" || loaded.Title != "Test Session" {
		t.Errorf("Unexpected session metadata: %+v", loaded)
	}
	if len(loaded.Transcript) != len(transcript) {
		t.Fatalf("Expected %d messages, got %d", len(transcript), len(loaded.Transcript))
	}
	for i := range transcript {
		if !loaded.Transcript[i].Equal(transcript[i]) {
			t.Errorf("message %d: got %v, want %v", i, loaded.Transcript[i], transcript[i])
		}
	}
	if !loaded.UpdatedAt.After(loaded.CreatedAt) {
		t.Errorf("Expected UpdatedAt after CreatedAt, got %v / %v", loaded.UpdatedAt, loaded.CreatedAt)
	}

	// Saving again replaces the transcript
	if err := store.SaveTranscript(ctx, session.ID, transcript[:1]); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}
	loaded, err = store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Transcript) != 1 {
		t.Errorf("Expected 1 message after overwrite, got %d", len(loaded.Transcript))
	}
}

func TestStore_ListOrdersByUpdate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Create(ctx, "echo", "first")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := store.Create(ctx, "echo", "second")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.SaveTranscript(ctx, first.ID, []engine.Message{engine.UserMessage("bump")}); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 sessions in list, got %d", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("Expected most recently updated first, got %s then %s", list[0].Title, list[1].Title)
	}
	if list[0].Messages != 1 || list[1].Messages != 0 {
		t.Errorf("Unexpected message counts: %d, %d", list[0].Messages, list[1].Messages)
	}
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load: expected ErrNotFound, got %v", err)
	}
	if err := store.SaveTranscript(ctx, "missing", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveTranscript: expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session, err := store.Create(ctx, "echo", "doomed")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.SaveTranscript(ctx, session.ID, []engine.Message{engine.UserMessage("x")}); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}
	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, session.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
}

func TestStore_SetTitle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session, err := store.Create(ctx, "echo", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.SetTitle(ctx, session.ID, "Greeting", "said hello"); err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}
	loaded, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Title != "Greeting" || loaded.Summary != "said hello" {
		t.Errorf("Unexpected title/summary: %q / %q", loaded.Title, loaded.Summary)
	}
}

func TestNewStore_AppliesPragmas(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var journalMode string
	if err := store.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("journal_mode query failed: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want wal", journalMode)
	}

	var busyTimeout int
	if err := store.db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatalf("busy_timeout query failed: %v", err)
	}
	if busyTimeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", busyTimeout)
	}
}
