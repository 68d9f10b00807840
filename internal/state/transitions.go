package state

import (
	"time"

	"github.com/orakh/orakhui/internal/chat"
)

// CreateChat adds a fresh thread seeded with the welcome message and makes
// it the active one. Returns the new state and the new thread's id.
func CreateChat(s *AppState, theme string) (*AppState, string) {
	next := s.Clone()
	thread := chat.NewThread(theme)
	next.Chats = append(next.Chats, thread)
	next.CurrentChatID = thread.ID
	return next, thread.ID
}

// SelectChat makes the thread with the given id the active one.
func SelectChat(s *AppState, chatID string) (*AppState, error) {
	if s.Thread(chatID) == nil {
		return s, ErrUnknownChat
	}
	next := s.Clone()
	next.CurrentChatID = chatID
	return next, nil
}

// DeleteChat removes a thread. Deleting the active thread moves the active
// pointer to the first remaining thread, or clears it when none remain.
// Destructive: callers are expected to confirm with the user first.
func DeleteChat(s *AppState, chatID string) (*AppState, error) {
	if s.Thread(chatID) == nil {
		return s, ErrUnknownChat
	}
	next := s.Clone()
	kept := next.Chats[:0]
	for _, t := range next.Chats {
		if t.ID != chatID {
			kept = append(kept, t)
		}
	}
	next.Chats = kept
	if next.CurrentChatID == chatID {
		next.CurrentChatID = ""
		if len(next.Chats) > 0 {
			next.CurrentChatID = next.Chats[0].ID
		}
	}
	return next, nil
}

// AppendMessage appends a message to a thread and refreshes the thread's
// updatedAt and last-message preview fields.
func AppendMessage(s *AppState, chatID string, msg chat.Message) (*AppState, error) {
	if s.Thread(chatID) == nil {
		return s, ErrUnknownChat
	}
	next := s.Clone()
	thread := next.Thread(chatID)
	thread.Messages = append(thread.Messages, msg)
	thread.UpdatedAt = time.Now()
	thread.LastMessagePreview = chat.Preview(msg.Content)
	ts := msg.Timestamp
	thread.LastMessageTime = &ts
	return next, nil
}

// ResetMessages replaces a thread's whole history with a single fresh
// message. Used after a server-side memory reset; the history is gone.
func ResetMessages(s *AppState, chatID string, msg chat.Message) (*AppState, error) {
	if s.Thread(chatID) == nil {
		return s, ErrUnknownChat
	}
	next := s.Clone()
	thread := next.Thread(chatID)
	thread.Messages = []chat.Message{msg}
	thread.UpdatedAt = time.Now()
	thread.LastMessagePreview = chat.Preview(msg.Content)
	ts := msg.Timestamp
	thread.LastMessageTime = &ts
	return next, nil
}
