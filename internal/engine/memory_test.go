package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNewMemory(t *testing.T) {
	if _, err := NewMemory(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for zero capacity, got %v", err)
	}
	if _, err := NewMemory(-3); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for negative capacity, got %v", err)
	}
	if got := NewDefaultMemory().Capacity(); got != DefaultMaxMessages {
		t.Errorf("Default capacity = %d, want %d", got, DefaultMaxMessages)
	}
}

func TestMemory_EvictsOldestFirst(t *testing.T) {
	for _, capacity := range []int{1, 2, 100} {
		for _, extra := range []int{0, 1, capacity} {
			t.Run(fmt.Sprintf("cap=%d/extra=%d", capacity, extra), func(t *testing.T) {
				mem, err := NewMemory(capacity)
				if err != nil {
					t.Fatal(err)
				}
				total := capacity + extra
				for i := 1; i <= total; i++ {
					mem.Append(UserMessage(fmt.Sprintf("m%d", i)))
				}

				msgs := mem.Messages()
				if len(msgs) != capacity {
					t.Fatalf("Expected %d messages, got %d", capacity, len(msgs))
				}
				for i, msg := range msgs {
					if want := fmt.Sprintf("m%d", extra+i+1); msg.Text() != want {
						t.Errorf("message %d = %q, want %q", i, msg.Text(), want)
					}
				}
			})
		}
	}
}

func TestMemory_AppendAllMatchesSequentialAppends(t *testing.T) {
	batch, _ := NewMemory(4)
	single, _ := NewMemory(4)

	var msgs []Message
	for i := 0; i < 7; i++ {
		msgs = append(msgs, AssistantMessage(fmt.Sprintf("a%d", i)))
	}
	batch.Append(UserMessage("first"))
	single.Append(UserMessage("first"))

	batch.AppendAll(msgs...)
	for _, m := range msgs {
		single.Append(m)
	}

	got, want := batch.Messages(), single.Messages()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("message %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMemory_MessagesIsACopy(t *testing.T) {
	mem := NewDefaultMemory()
	mem.Append(UserMessage("a"))

	msgs := mem.Messages()
	msgs[0] = UserMessage("changed")
	if last, _ := mem.Last(); last.Text() != "a" {
		t.Errorf("Memory changed through returned slice: %q", last.Text())
	}
}

func TestMemory_All(t *testing.T) {
	mem := NewDefaultMemory()
	mem.AppendAll(UserMessage("a"), AssistantMessage("b"), UserMessage("c"))

	var seen []string
	for msg := range mem.All() {
		seen = append(seen, msg.Text())
		if len(seen) == 2 {
			break
		}
	}
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("Unexpected iteration: %v", seen)
	}
}

func TestMemory_Lookups(t *testing.T) {
	mem := NewDefaultMemory()
	if _, ok := mem.Last(); ok {
		t.Error("Last on empty memory should report false")
	}
	if _, ok := mem.LastAssistantMessage(); ok {
		t.Error("LastAssistantMessage on empty memory should report false")
	}

	mem.AppendAll(
		UserMessage("q1"),
		AssistantMessage("a1"),
		UserMessage("q2"),
		AssistantMessage("a2"),
		ToolMessage("r", "f", "c1"),
	)

	if m, _ := mem.LastAssistantMessage(); m.Text() != "a2" {
		t.Errorf("LastAssistantMessage = %q", m.Text())
	}
	if m, _ := mem.LastUserMessage(); m.Text() != "q2" {
		t.Errorf("LastUserMessage = %q", m.Text())
	}
	if m, _ := mem.Last(); m.Role() != RoleTool {
		t.Errorf("Last role = %s", m.Role())
	}
}

func TestMemory_RecentMessages(t *testing.T) {
	mem := NewDefaultMemory()
	mem.AppendAll(UserMessage("1"), UserMessage("2"), UserMessage("3"))

	tests := []struct {
		count int
		want  []string
	}{
		{0, nil},
		{2, []string{"2", "3"}},
		{10, []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		got, err := mem.RecentMessages(tt.count)
		if err != nil {
			t.Fatalf("RecentMessages(%d) error: %v", tt.count, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("RecentMessages(%d) len = %d, want %d", tt.count, len(got), len(tt.want))
		}
		for i := range tt.want {
			if got[i].Text() != tt.want[i] {
				t.Errorf("RecentMessages(%d)[%d] = %q, want %q", tt.count, i, got[i].Text(), tt.want[i])
			}
		}
	}

	if _, err := mem.RecentMessages(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for negative count, got %v", err)
	}
}

func TestMemory_CountMessagesWithRoleAndContent(t *testing.T) {
	mem := NewDefaultMemory()
	mem.AppendAll(
		AssistantMessage("same"),
		UserMessage("same"),
		AssistantMessage("same"),
		AssistantMessage(""),
		AssistantMessage("Same"),
	)

	tests := []struct {
		role    Role
		content string
		want    int
	}{
		{RoleAssistant, "same", 2},
		{RoleUser, "same", 1},
		{RoleAssistant, "Same", 1},
		{RoleAssistant, "", 0},
		{RoleSystem, "same", 0},
	}
	for _, tt := range tests {
		if got := mem.CountMessagesWithRoleAndContent(tt.role, tt.content); got != tt.want {
			t.Errorf("Count(%s, %q) = %d, want %d", tt.role, tt.content, got, tt.want)
		}
	}
}

func TestMemory_Clear(t *testing.T) {
	mem := NewDefaultMemory()
	mem.AppendAll(UserMessage("a"), UserMessage("b"))
	mem.Clear()
	if mem.Len() != 0 {
		t.Errorf("Expected empty memory, got %d", mem.Len())
	}
	mem.Append(UserMessage("c"))
	if mem.Len() != 1 {
		t.Errorf("Expected memory usable after Clear, got %d", mem.Len())
	}
}

func TestMemory_ConcurrentAppend(t *testing.T) {
	mem, _ := NewMemory(50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				mem.Append(UserMessage(fmt.Sprintf("%d-%d", g, i)))
				_ = mem.Messages()
			}
		}(g)
	}
	wg.Wait()

	if mem.Len() != 50 {
		t.Errorf("Expected capacity-bounded length 50, got %d", mem.Len())
	}
}
