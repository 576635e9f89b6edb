package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned by Store.Get when the key has never been written.
// It hides the backend's own not-found value (sql.ErrNoRows, redis.Nil).
var ErrNotFound = errors.New("store: not found")

// SchemaVersion is the version written into every persisted envelope. Bump it
// when the shape of a persisted value changes incompatibly; older payloads then
// load as their defaults.
const SchemaVersion = 1

// Keys of the persisted application state.
const (
	KeyDarkMode           = "allma.dark_mode"
	KeyConversations      = "allma.conversations"
	KeyActiveConversation = "allma.active_conversation"
	KeySettings           = "allma.settings"
)

// Store is a durable per-key string store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Load reads key into a value of type T. It never fails: an absent,
// unreadable, malformed or version-mismatched value yields def.
func Load[T any](ctx context.Context, s Store, key string, def T) T {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			slog.Debug("No persisted value, using default.", "key", key)
		} else {
			slog.Warn("Failed to read persisted value, using default.", "key", key, "error", err)
		}
		return def
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		slog.Warn("Persisted value is malformed, using default.", "key", key, "error", err)
		return def
	}
	if env.Version != SchemaVersion {
		slog.Warn("Persisted value has an unsupported schema version, using default.",
			"key", key, "version", env.Version, "expected", SchemaVersion)
		return def
	}

	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		slog.Warn("Persisted value does not match the expected shape, using default.", "key", key, "error", err)
		return def
	}
	return v
}

// Save serializes v into a versioned envelope and writes it under key.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal value for %s: %w", key, err)
	}
	raw, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("could not marshal envelope for %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("could not write %s: %w", key, err)
	}
	return nil
}
