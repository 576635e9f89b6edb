package service

import (
	"allma-client/internal/model"
	"allma-client/internal/state"
)

// StateService exposes the whole application state to the view layer.
type StateService struct {
	reg   *state.Registry
	prefs *state.Preferences
	chat  *ChatService
	bus   *state.Bus
}

func NewStateService(reg *state.Registry, prefs *state.Preferences, chat *ChatService, bus *state.Bus) *StateService {
	return &StateService{reg: reg, prefs: prefs, chat: chat, bus: bus}
}

// Snapshot returns a copy of the current state.
func (s *StateService) Snapshot() model.Snapshot {
	return model.Snapshot{
		Conversations:        s.reg.Conversations(),
		ActiveConversationID: s.reg.ActiveID(),
		Settings:             s.prefs.Settings(),
		DarkMode:             s.prefs.DarkMode(),
		IsLoading:            s.chat.IsLoading(),
	}
}

// Subscribe registers fn for every state event until the returned func is
// called.
func (s *StateService) Subscribe(fn func(state.Event)) func() {
	return s.bus.Subscribe(fn)
}
