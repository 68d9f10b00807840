// Package orchestrator drives the conversation flow: it owns the current
// application state, persists every mutation, and talks to the backend
// with at most one conversation request in flight at a time.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/orakh/orakhui/internal/chat"
	"github.com/orakh/orakhui/internal/client"
	"github.com/orakh/orakhui/internal/prober"
	"github.com/orakh/orakhui/internal/state"
	"github.com/orakh/orakhui/internal/store"
)

const (
	// Fallback replies keep the conversation alive when the backend fails;
	// errors never surface as anything worse than an apology.
	fallbackErrorText  = "Lo siento, ocurrió un error. Por favor intenta nuevamente."
	elaborateErrorText = "Error al profundizar. Intenta nuevamente."

	// The backend keeps at most 40 memory entries, sending more is waste.
	maxHistory = 40
)

var (
	// ErrBusy means another conversation request is already in flight.
	ErrBusy = errors.New("a request is already in flight")
	// ErrEmptyMessage rejects empty or whitespace-only input before any
	// network activity.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNotElaborable means the referenced message is not an assistant
	// reply that can be expanded.
	ErrNotElaborable = errors.New("message cannot be elaborated")
)

// Orchestrator owns the state snapshot and the single-flight gate.
type Orchestrator struct {
	client *client.Client
	prober *prober.Prober
	store  *store.Store

	// inflight is a one-permit gate: at most one conversation request
	// system-wide, so overlapping replies cannot interleave.
	inflight *semaphore.Weighted

	mu    sync.Mutex
	state *state.AppState
}

// New creates an Orchestrator, loading the persisted state.
func New(c *client.Client, p *prober.Prober, st *store.Store) *Orchestrator {
	return &Orchestrator{
		client:   c,
		prober:   p,
		store:    st,
		inflight: semaphore.NewWeighted(1),
		state:    st.Load(),
	}
}

// State returns the current snapshot. Snapshots are never mutated in
// place, so callers may hold on to it safely.
func (o *Orchestrator) State() *state.AppState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Busy reports whether a conversation request is in flight.
func (o *Orchestrator) Busy() bool {
	if !o.inflight.TryAcquire(1) {
		return true
	}
	o.inflight.Release(1)
	return false
}

// apply runs a transition, installs the new snapshot and persists it.
func (o *Orchestrator) apply(transition func(*state.AppState) (*state.AppState, error)) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	next, err := transition(o.state)
	if err != nil {
		return err
	}
	o.state = next
	o.store.Save(next)
	return nil
}

// CreateChat starts a new thread and makes it active.
func (o *Orchestrator) CreateChat(theme string) string {
	var id string
	_ = o.apply(func(s *state.AppState) (*state.AppState, error) {
		next, newID := state.CreateChat(s, theme)
		id = newID
		return next, nil
	})
	return id
}

// SelectChat makes an existing thread active.
func (o *Orchestrator) SelectChat(chatID string) error {
	return o.apply(func(s *state.AppState) (*state.AppState, error) {
		return state.SelectChat(s, chatID)
	})
}

// DeleteChat removes a thread for good. The caller must have confirmed
// with the user already.
func (o *Orchestrator) DeleteChat(chatID string) error {
	return o.apply(func(s *state.AppState) (*state.AppState, error) {
		return state.DeleteChat(s, chatID)
	})
}

// SendMessage appends the user's message optimistically, wakes the
// backend, requests a reply and appends it. Backend failures degrade to a
// fallback assistant message; the error returns only for local rejections
// (empty input, busy gate, unknown thread).
func (o *Orchestrator) SendMessage(ctx context.Context, chatID, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if !o.inflight.TryAcquire(1) {
		return ErrBusy
	}
	defer o.inflight.Release(1)

	history := o.history(chatID)
	userMsg := chat.NewMessage(chat.RoleUser, text)
	if err := o.apply(func(s *state.AppState) (*state.AppState, error) {
		return state.AppendMessage(s, chatID, userMsg)
	}); err != nil {
		return err
	}

	o.prober.Wake(ctx)

	reply, err := o.client.Converse(ctx, text, history)
	if err != nil {
		slog.Warn("Conversation request failed, appending fallback reply", "error", err)
		reply = fallbackErrorText
	}
	return o.apply(func(s *state.AppState) (*state.AppState, error) {
		return state.AppendMessage(s, chatID, chat.NewMessage(chat.RoleAssistant, reply))
	})
}

// Elaborate asks the backend to expand on one of its prior replies in the
// thread. Same gate and same degradation as SendMessage.
func (o *Orchestrator) Elaborate(ctx context.Context, chatID, messageID string) error {
	if !o.inflight.TryAcquire(1) {
		return ErrBusy
	}
	defer o.inflight.Release(1)

	o.mu.Lock()
	thread := o.state.Thread(chatID)
	if thread == nil {
		o.mu.Unlock()
		return state.ErrUnknownChat
	}
	prior := thread.Message(messageID)
	if prior == nil || prior.Role != chat.RoleAssistant {
		o.mu.Unlock()
		return ErrNotElaborable
	}
	priorContent := prior.Content
	userContent := thread.PrecedingUserContent(messageID)
	o.mu.Unlock()

	o.prober.Wake(ctx)

	reply, err := o.client.Elaborate(ctx, priorContent, userContent)
	if err != nil {
		slog.Warn("Elaborate request failed, appending fallback reply", "error", err)
		reply = elaborateErrorText
	}
	return o.apply(func(s *state.AppState) (*state.AppState, error) {
		return state.AppendMessage(s, chatID, chat.NewMessage(chat.RoleAssistant, reply))
	})
}

// ClearMemory resets the server-side conversation memory and, only once
// that succeeds, replaces the thread's history with a fresh welcome
// message. The old history is gone after this.
func (o *Orchestrator) ClearMemory(ctx context.Context, chatID string) error {
	o.mu.Lock()
	thread := o.state.Thread(chatID)
	o.mu.Unlock()
	if thread == nil {
		return state.ErrUnknownChat
	}

	o.prober.Wake(ctx)

	if err := o.client.ClearMemory(ctx); err != nil {
		return err
	}
	return o.apply(func(s *state.AppState) (*state.AppState, error) {
		return state.ResetMessages(s, chatID, chat.NewMemoryClearedMessage())
	})
}

// history collects the thread's prior messages as role+content pairs,
// capped at the backend's memory window.
func (o *Orchestrator) history(chatID string) []client.HistoryMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	thread := o.state.Thread(chatID)
	if thread == nil {
		return nil
	}
	msgs := thread.Messages
	if len(msgs) > maxHistory {
		msgs = msgs[len(msgs)-maxHistory:]
	}
	history := make([]client.HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, client.HistoryMessage{Role: string(m.Role), Content: m.Content})
	}
	return history
}
