package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThread(t *testing.T) {
	t.Run("with_theme", func(t *testing.T) {
		thread := NewThread("Meditación")
		assert.Equal(t, "Meditación", thread.Title)
		assert.Equal(t, "Meditación", thread.Theme)
		require.Len(t, thread.Messages, 1)
		welcome := thread.Messages[0]
		assert.Equal(t, RoleAssistant, welcome.Role)
		assert.Equal(t, WelcomeText, welcome.Content)
		assert.True(t, welcome.IsWelcome)
		assert.False(t, thread.UpdatedAt.Before(thread.CreatedAt))
	})

	t.Run("without_theme_uses_date_title", func(t *testing.T) {
		thread := NewThread("")
		assert.Empty(t, thread.Theme)
		assert.Equal(t, FormatLongDate(thread.CreatedAt), thread.Title)
	})

	t.Run("unique_ids", func(t *testing.T) {
		assert.NotEqual(t, NewThread("a").ID, NewThread("a").ID)
	})
}

func TestFormatLongDate(t *testing.T) {
	date := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC) // a Monday
	assert.Equal(t, "lunes, 24 de agosto de 2026", FormatLongDate(date))

	date = time.Date(2026, time.January, 4, 0, 0, 0, 0, time.UTC) // a Sunday
	assert.Equal(t, "domingo, 4 de enero de 2026", FormatLongDate(date))
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "plain_text_passes_through",
			content:  "El alma es",
			expected: "El alma es",
		},
		{
			name:     "markup_is_stripped",
			content:  "<b>El alma</b> es <em>eterna</em>",
			expected: "El alma es eterna",
		},
		{
			name:     "truncated_to_fifty_runes",
			content:  strings.Repeat("ñ", 80),
			expected: strings.Repeat("ñ", 50),
		},
		{
			name:     "whitespace_trimmed",
			content:  "  hola  ",
			expected: "hola",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Preview(tt.content))
		})
	}
}

func TestPrecedingUserContent(t *testing.T) {
	thread := NewThread("tema")
	user := NewMessage(RoleUser, "¿Qué es el alma?")
	reply := NewMessage(RoleAssistant, "El alma es...")
	thread.Messages = append(thread.Messages, user, reply)

	assert.Equal(t, "¿Qué es el alma?", thread.PrecedingUserContent(reply.ID))
	assert.Equal(t, "", thread.PrecedingUserContent(thread.Messages[0].ID))
	assert.Equal(t, "", thread.PrecedingUserContent("missing"))
}

func TestGroupByDate(t *testing.T) {
	now := time.Date(2026, time.August, 29, 15, 0, 0, 0, time.UTC)

	at := func(d time.Time) *Thread {
		thread := NewThread("t")
		thread.CreatedAt = d
		thread.UpdatedAt = d
		return thread
	}

	today := at(now.Add(-time.Hour))
	yesterday := at(now.AddDate(0, 0, -1))
	thisWeek := at(now.AddDate(0, 0, -5))
	thisMonth := at(now.AddDate(0, 0, -20))
	older := at(now.AddDate(0, -3, 0))

	groups := GroupByDate([]*Thread{older, thisWeek, today, yesterday, thisMonth}, now)

	require.Len(t, groups, 5)
	assert.Equal(t, "Hoy", groups[0].Label)
	assert.Equal(t, today.ID, groups[0].Threads[0].ID)
	assert.Equal(t, "Ayer", groups[1].Label)
	assert.Equal(t, "Esta semana", groups[2].Label)
	assert.Equal(t, "Este mes", groups[3].Label)
	assert.Equal(t, "Anteriores", groups[4].Label)

	t.Run("empty_buckets_dropped", func(t *testing.T) {
		groups := GroupByDate([]*Thread{today}, now)
		require.Len(t, groups, 1)
		assert.Equal(t, "Hoy", groups[0].Label)
	})

	t.Run("newest_first_inside_bucket", func(t *testing.T) {
		earlier := at(now.Add(-2 * time.Hour))
		groups := GroupByDate([]*Thread{earlier, today}, now)
		require.Len(t, groups, 1)
		assert.Equal(t, today.ID, groups[0].Threads[0].ID)
		assert.Equal(t, earlier.ID, groups[0].Threads[1].ID)
	})
}

func TestClone(t *testing.T) {
	thread := NewThread("tema")
	clone := thread.Clone()
	clone.Messages = append(clone.Messages, NewMessage(RoleUser, "hola"))
	clone.Messages[0].Content = "changed"

	assert.Len(t, thread.Messages, 1)
	assert.Equal(t, WelcomeText, thread.Messages[0].Content)
}
