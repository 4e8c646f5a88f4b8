package engine

import (
	"fmt"
	"iter"
	"slices"
	"sync"
)

// DefaultMaxMessages is the capacity of a Memory built without an explicit size.
const DefaultMaxMessages = 100

// Memory is a bounded transcript. Appending past capacity evicts the
// oldest messages first.
type Memory struct {
	mu          sync.RWMutex
	messages    []Message
	maxMessages int
}

// NewMemory creates a Memory holding at most maxMessages entries.
func NewMemory(maxMessages int) (*Memory, error) {
	if maxMessages <= 0 {
		return nil, fmt.Errorf("%w: max messages must be positive, got %d", ErrInvalidArgument, maxMessages)
	}
	return &Memory{
		messages:    make([]Message, 0, min(maxMessages, DefaultMaxMessages)),
		maxMessages: maxMessages,
	}, nil
}

// NewDefaultMemory creates a Memory with DefaultMaxMessages capacity.
func NewDefaultMemory() *Memory {
	m, _ := NewMemory(DefaultMaxMessages)
	return m
}

func (m *Memory) Capacity() int { return m.maxMessages }

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

func (m *Memory) Append(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	m.trimLocked()
}

// AppendAll appends msgs in order; the result equals appending them one by one.
func (m *Memory) AppendAll(msgs ...Message) {
	if len(msgs) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msgs...)
	m.trimLocked()
}

func (m *Memory) trimLocked() {
	over := len(m.messages) - m.maxMessages
	if over <= 0 {
		return
	}
	n := copy(m.messages, m.messages[over:])
	clear(m.messages[n:])
	m.messages = m.messages[:n]
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.messages)
	m.messages = m.messages[:0]
}

// Messages returns a copy of the transcript, oldest first.
func (m *Memory) Messages() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.messages)
}

// All iterates over a snapshot taken when iteration starts. Later writes
// to the memory are not observed by an iteration already in progress.
func (m *Memory) All() iter.Seq[Message] {
	return func(yield func(Message) bool) {
		for _, msg := range m.Messages() {
			if !yield(msg) {
				return
			}
		}
	}
}

// LastAssistantMessage returns the most recent assistant message.
func (m *Memory) LastAssistantMessage() (Message, bool) {
	return m.lastWithRole(RoleAssistant)
}

// LastUserMessage returns the most recent user message.
func (m *Memory) LastUserMessage() (Message, bool) {
	return m.lastWithRole(RoleUser)
}

func (m *Memory) lastWithRole(role Role) (Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].role == role {
			return m.messages[i], true
		}
	}
	return Message{}, false
}

// Last returns the newest message.
func (m *Memory) Last() (Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.messages) == 0 {
		return Message{}, false
	}
	return m.messages[len(m.messages)-1], true
}

// RecentMessages returns up to count of the newest messages, oldest first.
func (m *Memory) RecentMessages(count int) ([]Message, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidArgument, count)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if count > len(m.messages) {
		count = len(m.messages)
	}
	return slices.Clone(m.messages[len(m.messages)-count:]), nil
}

// CountMessagesWithRoleAndContent counts messages of role whose content
// equals content exactly. Empty content never matches anything.
func (m *Memory) CountMessagesWithRoleAndContent(role Role, content string) int {
	if content == "" {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, msg := range m.messages {
		if msg.role == role && msg.content != nil && *msg.content == content {
			n++
		}
	}
	return n
}
