package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"allma-client/internal/backend"
	app_errors "allma-client/internal/errors"
	"allma-client/internal/model"
	"allma-client/internal/state"
)

// NoResponsePlaceholder replaces an empty or missing reply from the backend.
const NoResponsePlaceholder = "No response received from the assistant."

// DiagnosticMessage is the assistant reply shown when the backend at apiURL
// could not produce an answer.
func DiagnosticMessage(apiURL string) string {
	return fmt.Sprintf("Sorry, I couldn't get a response from the backend at %s. Please make sure the server is running and the API URL in settings is correct.", apiURL)
}

type sessionState int32

const (
	sessionIdle sessionState = iota
	sessionAwaiting
)

// ChatService sends user messages to the backend and records both sides of
// the exchange in the registry. Only one exchange runs at a time.
type ChatService struct {
	reg    *state.Registry
	prefs  *state.Preferences
	client backend.Client
	bus    *state.Bus
	status atomic.Int32
}

func NewChatService(reg *state.Registry, prefs *state.Preferences, client backend.Client, bus *state.Bus) *ChatService {
	return &ChatService{reg: reg, prefs: prefs, client: client, bus: bus}
}

// IsLoading reports whether a reply is being awaited.
func (s *ChatService) IsLoading() bool {
	return sessionState(s.status.Load()) == sessionAwaiting
}

// SendMessage appends text as a user message to the active conversation,
// asks the backend for a reply and appends it. Blank text is ignored and
// returns (nil, nil). While another exchange is running it returns ErrBusy.
//
// Backend failures never surface as errors: they become an assistant message
// naming the configured API URL.
func (s *ChatService) SendMessage(ctx context.Context, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if !s.status.CompareAndSwap(int32(sessionIdle), int32(sessionAwaiting)) {
		slog.Warn("Rejected message while awaiting a reply")
		return nil, app_errors.ErrBusy
	}
	defer s.setIdle()

	// The reply goes to this conversation even if the user switches away.
	conversationID := s.reg.ActiveID()
	settings := s.prefs.Settings()

	if err := s.reg.AppendMessage(conversationID, model.NewMessage(model.RoleUser, text, nil)); err != nil {
		return nil, err
	}
	s.publishLoading(conversationID)

	resp, chatErr := s.client.Chat(ctx, settings.APIURL, &backend.ChatRequest{
		Message:        text,
		ConversationID: conversationID,
		UseRAG:         settings.UseRAG,
		Model:          settings.Model,
	})

	var reply model.Message
	if chatErr != nil {
		slog.Warn("Chat request failed, replying with diagnostic", "conversation_id", conversationID, "api_url", settings.APIURL, "error", chatErr)
		reply = model.NewMessage(model.RoleAssistant, DiagnosticMessage(settings.APIURL), nil)
	} else {
		content := resp.Response
		if strings.TrimSpace(content) == "" {
			slog.Warn("Backend reply has no response text", "conversation_id", conversationID)
			content = NoResponsePlaceholder
		}
		reply = model.NewMessage(model.RoleAssistant, content, resp.Context)
	}

	if err := s.reg.AppendMessage(conversationID, reply); err != nil {
		slog.Warn("Conversation was deleted while awaiting a reply, discarding it", "conversation_id", conversationID)
		return nil, err
	}
	slog.Info("Recorded assistant reply", "conversation_id", conversationID, "failed", chatErr != nil)
	return &reply, nil
}

func (s *ChatService) setIdle() {
	if s.status.Swap(int32(sessionIdle)) == int32(sessionAwaiting) {
		s.publishLoading("")
	}
}

func (s *ChatService) publishLoading(conversationID string) {
	if s.bus != nil {
		s.bus.Publish(state.Event{Kind: state.EventLoading, ConversationID: conversationID})
	}
}
