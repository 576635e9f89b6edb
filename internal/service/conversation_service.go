package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"allma-client/internal/backend"
	"allma-client/internal/state"
)

const backendDeleteTimeout = 5 * time.Second

// ConversationService manages the local conversation list and clears the
// backend's per-conversation history when a conversation is deleted.
type ConversationService struct {
	*state.Registry
	prefs  *state.Preferences
	client backend.Client
}

func NewConversationService(reg *state.Registry, prefs *state.Preferences, client backend.Client) *ConversationService {
	return &ConversationService{Registry: reg, prefs: prefs, client: client}
}

// DeleteConversation removes the conversation locally, then asks the backend
// to drop its history. A backend failure is logged and never undoes the local
// delete.
func (s *ConversationService) DeleteConversation(ctx context.Context, id string) error {
	if err := s.Registry.DeleteConversation(id); err != nil {
		return err
	}

	apiURL := s.prefs.Settings().APIURL
	ctx, cancel := context.WithTimeout(ctx, backendDeleteTimeout)
	defer cancel()

	err := s.client.DeleteConversation(ctx, apiURL, id)
	var statusErr *backend.StatusError
	switch {
	case err == nil:
		slog.Info("Cleared backend history", "conversation_id", id)
	case errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound:
		slog.Debug("Backend holds no history for conversation", "conversation_id", id)
	default:
		slog.Warn("Failed to clear backend history", "conversation_id", id, "api_url", apiURL, "error", err)
	}
	return nil
}
