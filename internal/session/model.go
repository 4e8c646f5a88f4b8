package session

import (
	"errors"
	"time"

	"github.com/ChamsBouzaiene/steploop/internal/engine"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

// Session is a persisted agent conversation.
type Session struct {
	ID         string
	Agent      string
	Title      string
	Summary    string // Context injection for the next session
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Transcript []engine.Message
}

// SessionMeta is a lightweight representation for listing.
type SessionMeta struct {
	ID        string    `json:"id" yaml:"id"`
	Agent     string    `json:"agent" yaml:"agent"`
	Title     string    `json:"title" yaml:"title"`
	Messages  int       `json:"messages" yaml:"messages"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
