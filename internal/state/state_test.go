package state

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orakh/orakhui/internal/chat"
)

func TestCreateChat(t *testing.T) {
	s := Default()

	next, id := CreateChat(s, "Meditación")

	require.NotEmpty(t, id)
	assert.Empty(t, s.Chats, "previous snapshot must be untouched")
	require.Len(t, next.Chats, 1)
	assert.Equal(t, id, next.CurrentChatID)
	assert.Equal(t, "Meditación", next.Chats[0].Title)
	require.Len(t, next.Chats[0].Messages, 1)
	assert.True(t, next.Chats[0].Messages[0].IsWelcome)
	require.NoError(t, next.Validate())
}

func TestSelectChat(t *testing.T) {
	s, first := CreateChat(Default(), "a")
	s, second := CreateChat(s, "b")
	assert.Equal(t, second, s.CurrentChatID)

	selected, err := SelectChat(s, first)
	require.NoError(t, err)
	assert.Equal(t, first, selected.CurrentChatID)

	_, err = SelectChat(s, "missing")
	assert.ErrorIs(t, err, ErrUnknownChat)
	assert.Equal(t, second, s.CurrentChatID, "failed select must not move the pointer")
}

func TestDeleteChat(t *testing.T) {
	t.Run("active_pointer_moves_to_first_remaining", func(t *testing.T) {
		s, first := CreateChat(Default(), "a")
		s, second := CreateChat(s, "b")

		next, err := DeleteChat(s, second)
		require.NoError(t, err)
		assert.Equal(t, first, next.CurrentChatID)
		require.Len(t, next.Chats, 1)
	})

	t.Run("last_thread_clears_pointer", func(t *testing.T) {
		s, id := CreateChat(Default(), "a")

		next, err := DeleteChat(s, id)
		require.NoError(t, err)
		assert.Empty(t, next.CurrentChatID)
		assert.Empty(t, next.Chats)
		assert.Nil(t, next.Current())
	})

	t.Run("inactive_thread_keeps_pointer", func(t *testing.T) {
		s, first := CreateChat(Default(), "a")
		s, second := CreateChat(s, "b")

		next, err := DeleteChat(s, first)
		require.NoError(t, err)
		assert.Equal(t, second, next.CurrentChatID)
	})

	t.Run("unknown_thread", func(t *testing.T) {
		_, err := DeleteChat(Default(), "missing")
		assert.ErrorIs(t, err, ErrUnknownChat)
	})
}

func TestAppendMessage(t *testing.T) {
	s, id := CreateChat(Default(), "tema")

	msg := chat.NewMessage(chat.RoleAssistant, "<b>El alma es</b> un misterio que trasciende toda palabra y toda forma conocida")
	next, err := AppendMessage(s, id, msg)
	require.NoError(t, err)

	assert.Len(t, s.Thread(id).Messages, 1, "previous snapshot must be untouched")

	thread := next.Thread(id)
	require.Len(t, thread.Messages, 2)
	assert.Equal(t, 50, len([]rune(thread.LastMessagePreview)))
	assert.Contains(t, thread.LastMessagePreview, "El alma es")
	assert.NotContains(t, thread.LastMessagePreview, "<b>")
	require.NotNil(t, thread.LastMessageTime)
	assert.True(t, thread.LastMessageTime.Equal(msg.Timestamp))
	assert.False(t, thread.UpdatedAt.Before(thread.CreatedAt))

	_, err = AppendMessage(s, "missing", msg)
	assert.ErrorIs(t, err, ErrUnknownChat)
}

func TestResetMessages(t *testing.T) {
	s, id := CreateChat(Default(), "tema")
	s, err := AppendMessage(s, id, chat.NewMessage(chat.RoleUser, "hola"))
	require.NoError(t, err)

	next, err := ResetMessages(s, id, chat.NewMemoryClearedMessage())
	require.NoError(t, err)

	thread := next.Thread(id)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, chat.MemoryClearedText, thread.Messages[0].Content)
	assert.True(t, thread.Messages[0].IsWelcome)
}

// The active-chat pointer must stay null or valid through any sequence of
// create/select/delete/append operations.
func TestCurrentChatInvariantUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := Default()

	randomID := func() string {
		if len(s.Chats) == 0 || rng.Intn(4) == 0 {
			return fmt.Sprintf("bogus-%d", rng.Int())
		}
		return s.Chats[rng.Intn(len(s.Chats))].ID
	}

	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			s, _ = CreateChat(s, fmt.Sprintf("tema-%d", i))
		case 1:
			if next, err := SelectChat(s, randomID()); err == nil {
				s = next
			}
		case 2:
			if next, err := DeleteChat(s, randomID()); err == nil {
				s = next
			}
		case 3:
			if next, err := AppendMessage(s, randomID(), chat.NewMessage(chat.RoleUser, "m")); err == nil {
				s = next
			}
		}

		require.NoError(t, s.Validate(), "after %d operations", i+1)
		if s.CurrentChatID != "" {
			require.NotNil(t, s.Current(), "after %d operations", i+1)
		}
	}
}

func TestSorted(t *testing.T) {
	s, first := CreateChat(Default(), "a")
	s, second := CreateChat(s, "b")
	s, third := CreateChat(s, "c")

	// Touch the oldest thread so it jumps to the front.
	s, err := AppendMessage(s, first, chat.NewMessage(chat.RoleUser, "hola"))
	require.NoError(t, err)

	sorted := s.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, first, sorted[0].ID)
	assert.Equal(t, third, sorted[1].ID)
	assert.Equal(t, second, sorted[2].ID)
}
