// Package store persists the application state, the auth token and the
// music volume preference as three independent best-effort records. A
// failed read falls back to defaults, a failed write is logged and
// dropped; neither ever reaches the caller as an error.
package store

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/orakh/orakhui/internal/chat"
	"github.com/orakh/orakhui/internal/state"
	"github.com/orakh/orakhui/storage"
)

const (
	stateKey  = "orakh_app_state"
	tokenKey  = "auth_token"
	volumeKey = "orakh_music_volume"
)

const defaultVolume = 0.5

// Store reads and writes the persisted records.
type Store struct {
	kv *storage.KeyValues
}

// New creates a new Store over the given key-value storage
func New(kv *storage.KeyValues) *Store {
	return &Store{kv: kv}
}

// Load reads the persisted application state. Missing, unreadable or
// invalid blobs all yield the default state; the date fields come back
// typed because the whole blob decodes into the typed state.
func (s *Store) Load() *state.AppState {
	raw, err := s.kv.Get(stateKey)
	if errors.Is(err, storage.ErrNotFound) {
		return state.Default()
	}
	if err != nil {
		slog.Error("Failed to read persisted state", "error", err)
		return state.Default()
	}

	loaded := &state.AppState{}
	if err := json.Unmarshal([]byte(raw), loaded); err != nil {
		slog.Warn("Persisted state is not valid JSON, using defaults", "error", err)
		return state.Default()
	}
	if err := loaded.Validate(); err != nil {
		slog.Warn("Persisted state failed validation, using defaults", "error", err)
		return state.Default()
	}
	if loaded.Chats == nil {
		loaded.Chats = []*chat.Thread{}
	}
	return loaded
}

// Save writes the full state as a single record. Failures are logged and
// swallowed: losing persistence must not take the UI down with it.
func (s *Store) Save(st *state.AppState) {
	data, err := json.Marshal(st)
	if err != nil {
		slog.Error("Failed to serialize state", "error", err)
		return
	}
	if err := s.kv.Set(stateKey, string(data)); err != nil {
		slog.Error("Failed to persist state", "error", err)
	}
}

// Token returns the persisted bearer token, if any.
func (s *Store) Token() (string, bool) {
	token, err := s.kv.Get(tokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false
	}
	if err != nil {
		slog.Error("Failed to read auth token", "error", err)
		return "", false
	}
	return token, true
}

// SetToken persists the bearer token.
func (s *Store) SetToken(token string) {
	if err := s.kv.Set(tokenKey, token); err != nil {
		slog.Error("Failed to persist auth token", "error", err)
	}
}

// ClearToken drops the persisted bearer token.
func (s *Store) ClearToken() {
	if err := s.kv.Delete(tokenKey); err != nil {
		slog.Error("Failed to delete auth token", "error", err)
	}
}

// Volume returns the persisted music volume preference.
func (s *Store) Volume() float64 {
	raw, err := s.kv.Get(volumeKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("Failed to read volume preference", "error", err)
		}
		return defaultVolume
	}
	volume, err := strconv.ParseFloat(raw, 64)
	if err != nil || volume < 0 || volume > 1 {
		return defaultVolume
	}
	return volume
}

// SetVolume persists the music volume preference.
func (s *Store) SetVolume(volume float64) {
	if err := s.kv.Set(volumeKey, strconv.FormatFloat(volume, 'f', -1, 64)); err != nil {
		slog.Error("Failed to persist volume preference", "error", err)
	}
}
