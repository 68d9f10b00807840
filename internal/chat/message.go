package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// WelcomeText opens every new thread.
	WelcomeText = "Bienvenido a Orakh. Soy tu guía espiritual y filosófico. ¿En qué puedo ayudarte hoy?"
	// MemoryClearedText replaces a thread's history after a server-side memory reset.
	MemoryClearedText = "Memoria limpiada. ¿En qué puedo ayudarte ahora?"
)

// Message is a single conversation entry. Messages are append-only: once
// created they are never edited, only whole threads are deleted.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsWelcome bool      `json:"isWelcome,omitempty"`
}

// NewMessage creates a new Message instance
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewWelcomeMessage creates the assistant greeting that seeds a thread
func NewWelcomeMessage() Message {
	msg := NewMessage(RoleAssistant, WelcomeText)
	msg.IsWelcome = true
	return msg
}

// NewMemoryClearedMessage creates the greeting shown after a memory reset
func NewMemoryClearedMessage() Message {
	msg := NewMessage(RoleAssistant, MemoryClearedText)
	msg.IsWelcome = true
	return msg
}
