package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Thread represents one persisted conversation
type Thread struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Theme              string     `json:"theme,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	LastMessagePreview string     `json:"lastMessage,omitempty"`
	LastMessageTime    *time.Time `json:"lastMessageTime,omitempty"`
	Messages           []Message  `json:"messages"`
}

// NewThread creates a new Thread seeded with the welcome message. The title
// comes from the theme when given, otherwise from the current date written
// out the way the original UI did (long Spanish form).
func NewThread(theme string) *Thread {
	now := time.Now()
	title := theme
	if title == "" {
		title = FormatLongDate(now)
	}
	return &Thread{
		ID:        uuid.NewString(),
		Title:     title,
		Theme:     theme,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{NewWelcomeMessage()},
	}
}

// LastActivity returns the thread's updatedAt, falling back to createdAt.
func (t *Thread) LastActivity() time.Time {
	if t.UpdatedAt.IsZero() {
		return t.CreatedAt
	}
	return t.UpdatedAt
}

// Message returns the message with the given id, or nil.
func (t *Thread) Message(id string) *Message {
	for i := range t.Messages {
		if t.Messages[i].ID == id {
			return &t.Messages[i]
		}
	}
	return nil
}

// PrecedingUserContent returns the content of the user message immediately
// before the message with the given id in thread order, or "" if none.
func (t *Thread) PrecedingUserContent(id string) string {
	for i := range t.Messages {
		if t.Messages[i].ID == id {
			if i > 0 {
				return t.Messages[i-1].Content
			}
			return ""
		}
	}
	return ""
}

// Clone returns a deep copy of the thread.
func (t *Thread) Clone() *Thread {
	clone := *t
	clone.Messages = make([]Message, len(t.Messages))
	copy(clone.Messages, t.Messages)
	if t.LastMessageTime != nil {
		lmt := *t.LastMessageTime
		clone.LastMessageTime = &lmt
	}
	return &clone
}

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatLongDate renders t as "lunes, 25 de agosto de 2026".
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishWeekdays[t.Weekday()], t.Day(), spanishMonths[t.Month()-1], t.Year())
}
