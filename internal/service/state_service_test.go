package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allma-client/internal/backend/mocks"
	"allma-client/internal/model"
	"allma-client/internal/service"
	"allma-client/internal/state"
)

func TestStateService(t *testing.T) {
	bus := state.NewBus()
	reg := state.NewRegistry(bus)
	prefs := state.NewPreferences(bus, testSettings())
	chat := service.NewChatService(reg, prefs, mocks.NewMockClient(t), bus)
	svc := service.NewStateService(reg, prefs, chat, bus)

	var kinds []state.EventKind
	unsubscribe := svc.Subscribe(func(e state.Event) { kinds = append(kinds, e.Kind) })

	c := reg.CreateConversation()
	require.NoError(t, reg.AppendMessage(c.ID, model.NewMessage(model.RoleUser, "Hi", nil)))
	prefs.SetDarkMode(true)
	unsubscribe()
	prefs.SetDarkMode(false)

	assert.Equal(t, []state.EventKind{
		state.EventConversations, state.EventActive, state.EventConversations, state.EventDarkMode,
	}, kinds)

	snap := svc.Snapshot()
	assert.Equal(t, c.ID, snap.ActiveConversationID)
	require.Len(t, snap.Conversations, 2)
	assert.Equal(t, "Hi", snap.Conversations[0].Title)
	assert.Equal(t, testSettings(), snap.Settings)
	assert.False(t, snap.DarkMode)
	assert.False(t, snap.IsLoading)
}
