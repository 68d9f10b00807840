package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// KeyValues is a storage for independent serialized records, one per key
type KeyValues struct {
	db *sqlx.DB
}

// NewKeyValues creates a new KeyValues storage
func NewKeyValues(db *sqlx.DB) (*KeyValues, error) {
	createKeyValuesTable := `
	CREATE TABLE IF NOT EXISTS keyvalues (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
	`
	if _, err := db.Exec(createKeyValuesTable); err != nil {
		return nil, fmt.Errorf("failed to create keyvalues table: %w", err)
	}

	return &KeyValues{db: db}, nil
}

// Get returns the value stored under key
func (kv *KeyValues) Get(key string) (string, error) {
	var value string
	err := kv.db.Get(&value, "SELECT value FROM keyvalues WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get value for key %s: %w", key, err)
	}

	slog.Debug("read keyvalue",
		slog.String("key", key),
		slog.Int("size", len(value)),
	)
	return value, nil
}

// Set writes value under key, replacing any previous value in a single statement
func (kv *KeyValues) Set(key, value string) error {
	upsertQuery := `
	INSERT INTO keyvalues (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := kv.db.Exec(upsertQuery, key, value); err != nil {
		return fmt.Errorf("failed to set value for key %s: %w", key, err)
	}

	slog.Debug("keyvalue written",
		slog.String("key", key),
		slog.Int("size", len(value)),
	)
	return nil
}

// Delete deletes the value stored under key, if any
func (kv *KeyValues) Delete(key string) error {
	if _, err := kv.db.Exec("DELETE FROM keyvalues WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete value for key %s: %w", key, err)
	}

	slog.Debug("keyvalue deleted",
		slog.String("key", key),
	)
	return nil
}
