package interfaces

import (
	"context"

	"allma-client/internal/backend"
	"allma-client/internal/model"
	"allma-client/internal/service"
	"allma-client/internal/state"
)

// The API layer depends on these contracts rather than on the concrete
// services so handlers can be tested against mocks.

// ChatService sends messages and reports the loading state.
type ChatService interface {
	SendMessage(ctx context.Context, text string) (*model.Message, error)
	IsLoading() bool
}

// ConversationService is implemented by *service.ConversationService.
type ConversationService interface {
	CreateConversation() *model.Conversation
	DeleteConversation(ctx context.Context, id string) error
	SelectConversation(id string) error
	Conversation(id string) (*model.Conversation, error)
	Summaries() []model.ConversationSummary
	ActiveID() string
}

// SettingsService manages settings and the dark-mode flag.
type SettingsService interface {
	Get() model.Settings
	Replace(ctx context.Context, settings model.Settings) error
	Update(ctx context.Context, patch model.SettingsPatch) (model.Settings, error)
	Reset() model.Settings
	DarkMode() bool
	SetDarkMode(enabled bool)
	ToggleDarkMode() bool
}

// StateService exposes snapshots and change notifications.
type StateService interface {
	Snapshot() model.Snapshot
	Subscribe(fn func(state.Event)) func()
}

// DocumentService forwards documents to the backend knowledge base.
type DocumentService interface {
	Ingest(ctx context.Context, docs []service.Document) []service.IngestResult
}

// ModelService reports backend models and health.
type ModelService interface {
	List(ctx context.Context) (*backend.ModelsResponse, error)
	Health(ctx context.Context) (*backend.HealthResponse, error)
}
