package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"allma-client/internal/interfaces"
	"allma-client/internal/state"

	"github.com/go-chi/chi/v5"
)

const (
	// eventBuffer bounds how many state events may queue for one slow stream
	// consumer before newer ones are dropped.
	eventBuffer    = 32
	heartbeatEvery = 15 * time.Second
)

// ChatHandler serves the conversation registry, the chat controller and the
// state event stream.
type ChatHandler struct {
	chat          interfaces.ChatService
	conversations interfaces.ConversationService
	state         interfaces.StateService
}

func NewChatHandler(chat interfaces.ChatService, conversations interfaces.ConversationService, st interfaces.StateService) *ChatHandler {
	return &ChatHandler{chat: chat, conversations: conversations, state: st}
}

// GetState godoc
// @Summary      Get application state
// @Description  Returns every conversation, the active conversation id, the settings, the dark-mode flag and whether a reply is pending.
// @Tags         State
// @Produce      json
// @Success      200  {object}  model.Snapshot
// @Router       /v1/state [get]
func (h *ChatHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.state.Snapshot())
}

// StreamEvents godoc
// @Summary      Stream state changes
// @Description  Server-Sent Events stream. The first event is "snapshot"; every later event is named after the part of the state that changed and carries the new snapshot.
// @Tags         State
// @Produce      text/event-stream
// @Success      200  {object}  StateEvent
// @Router       /v1/events [get]
func (h *ChatHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := make(chan state.Event, eventBuffer)
	unsubscribe := h.state.Subscribe(func(e state.Event) {
		// The bus is synchronous; never block the publisher.
		select {
		case events <- e:
		default:
			slog.Warn("Dropping state event for slow stream", "kind", e.Kind)
		}
	})
	defer unsubscribe()

	ctx := r.Context()
	if err := writeStreamEvent(w, "snapshot", h.state.Snapshot()); err != nil {
		slog.Info("Client disconnected from state stream", "error", err)
		return
	}

	heartbeat := time.NewTicker(heartbeatEvery)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("State stream closed by client")
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		case e := <-events:
			payload := StateEvent{Event: e, State: h.state.Snapshot()}
			if err := writeStreamEvent(w, string(e.Kind), payload); err != nil {
				slog.Info("Client disconnected from state stream", "error", err)
				return
			}
		}
	}
}

// SendMessage godoc
// @Summary      Send a chat message
// @Description  Appends the message to the active conversation, waits for the backend reply and appends it. Blank content is ignored with 204. Only one message may be pending at a time.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        message  body      SendMessageRequest  true  "Message text"
// @Success      200      {object}  SendMessageResponse
// @Success      204      "Blank message ignored"
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /v1/messages [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, decodeError(err))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	// The exchange completes even if the caller hangs up; the reply still
	// lands in the conversation and the event stream.
	reply, err := h.chat.SendMessage(context.WithoutCancel(r.Context()), req.Content)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if reply == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, SendMessageResponse{Message: reply})
}

// ListConversations godoc
// @Summary      List conversations
// @Description  Returns conversation summaries in display order, newest first, with the active conversation id.
// @Tags         Conversations
// @Produce      json
// @Success      200  {object}  ConversationListResponse
// @Router       /v1/conversations [get]
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, ConversationListResponse{
		Conversations:        h.conversations.Summaries(),
		ActiveConversationID: h.conversations.ActiveID(),
	})
}

// CreateConversation godoc
// @Summary      Create a conversation
// @Description  Creates an empty conversation at the top of the list and makes it active.
// @Tags         Conversations
// @Produce      json
// @Success      201  {object}  model.Conversation
// @Router       /v1/conversations [post]
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusCreated, h.conversations.CreateConversation())
}

// GetConversation godoc
// @Summary      Get a conversation
// @Description  Returns one conversation with all of its messages.
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.Conversation
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [get]
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.conversations.Conversation(chi.URLParam(r, "conversationID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conv)
}

// ExportConversation godoc
// @Summary      Export a conversation
// @Description  Downloads one conversation as a JSON file.
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.Conversation
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/export [get]
func (h *ChatHandler) ExportConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.conversations.Conversation(chi.URLParam(r, "conversationID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="conversation-%s.json"`, conv.ID))
	respondWithJSON(w, http.StatusOK, conv)
}

// DeleteConversation godoc
// @Summary      Delete a conversation
// @Description  Removes a conversation and clears its history on the backend. The list is never left empty and the active conversation is reassigned when needed.
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  ConversationListResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [delete]
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := h.conversations.DeleteConversation(r.Context(), chi.URLParam(r, "conversationID")); err != nil {
		respondWithError(w, err)
		return
	}
	h.ListConversations(w, r)
}

// SelectConversation godoc
// @Summary      Select the active conversation
// @Description  Makes the given conversation the target of new messages.
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        selection  body      SelectConversationRequest  true  "Conversation to activate"
// @Success      200        {object}  ConversationListResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/conversations/active [put]
func (h *ChatHandler) SelectConversation(w http.ResponseWriter, r *http.Request) {
	var req SelectConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, decodeError(err))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.conversations.SelectConversation(req.ID); err != nil {
		respondWithError(w, err)
		return
	}
	h.ListConversations(w, r)
}
