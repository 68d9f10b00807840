package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/orakh/orakhui/internal/chat"
)

// ErrUnknownChat is returned for operations referencing a missing thread.
var ErrUnknownChat = errors.New("unknown chat id")

// UserProfile holds the static demo profile shown in the header.
type UserProfile struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Coins    int    `json:"coins"`
	Diamonds int    `json:"diamonds"`
}

// DefaultProfile returns the profile used when no state is persisted.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:     "Buscador Iluminado",
		Level:    7,
		Coins:    1250,
		Diamonds: 300,
	}
}

// AppState is the full application state: every thread, the active thread
// pointer and the user profile. Transitions never mutate a state in place,
// they return a fresh snapshot.
type AppState struct {
	Chats []*chat.Thread `json:"chats"`
	// CurrentChatID is "" when no thread is active. A legacy JSON null
	// unmarshals to "" as well, so old blobs load unchanged.
	CurrentChatID string      `json:"currentChatId"`
	UserProfile   UserProfile `json:"userProfile"`
}

// Default returns the empty state used on first run or after a failed load.
func Default() *AppState {
	return &AppState{
		Chats:       []*chat.Thread{},
		UserProfile: DefaultProfile(),
	}
}

// Clone returns a deep copy of the state.
func (s *AppState) Clone() *AppState {
	clone := &AppState{
		Chats:         make([]*chat.Thread, len(s.Chats)),
		CurrentChatID: s.CurrentChatID,
		UserProfile:   s.UserProfile,
	}
	for i, t := range s.Chats {
		clone.Chats[i] = t.Clone()
	}
	return clone
}

// Thread returns the thread with the given id, or nil.
func (s *AppState) Thread(id string) *chat.Thread {
	for _, t := range s.Chats {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Current returns the active thread, or nil when none is selected.
func (s *AppState) Current() *chat.Thread {
	if s.CurrentChatID == "" {
		return nil
	}
	return s.Thread(s.CurrentChatID)
}

// Sorted returns the threads ordered by last activity, newest first, ties
// kept in insertion order.
func (s *AppState) Sorted() []*chat.Thread {
	sorted := make([]*chat.Thread, len(s.Chats))
	copy(sorted, s.Chats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastActivity().After(sorted[j].LastActivity())
	})
	return sorted
}

// Validate checks the state invariants. A persisted blob that fails here is
// discarded wholesale in favor of the defaults.
func (s *AppState) Validate() error {
	threadIDs := make(map[string]struct{}, len(s.Chats))
	for _, t := range s.Chats {
		if t == nil || t.ID == "" {
			return errors.New("thread without id")
		}
		if _, dup := threadIDs[t.ID]; dup {
			return fmt.Errorf("duplicate thread id %s", t.ID)
		}
		threadIDs[t.ID] = struct{}{}

		if t.UpdatedAt.Before(t.CreatedAt) {
			return fmt.Errorf("thread %s updated before created", t.ID)
		}

		msgIDs := make(map[string]struct{}, len(t.Messages))
		for _, m := range t.Messages {
			if m.ID == "" {
				return fmt.Errorf("message without id in thread %s", t.ID)
			}
			if _, dup := msgIDs[m.ID]; dup {
				return fmt.Errorf("duplicate message id %s in thread %s", m.ID, t.ID)
			}
			msgIDs[m.ID] = struct{}{}
		}
	}

	if s.CurrentChatID != "" {
		if _, ok := threadIDs[s.CurrentChatID]; !ok {
			return fmt.Errorf("current chat id %s not found", s.CurrentChatID)
		}
	}
	return nil
}
