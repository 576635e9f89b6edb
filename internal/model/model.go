package model

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

const (
	DefaultTitle   = "New Chat"
	DefaultPreview = "No messages yet"
)

// MessageContext holds the retrieval context the backend attached to a reply.
// Sources are kept as opaque JSON since the backend owns their shape.
type MessageContext struct {
	Sources []json.RawMessage `json:"sources"`
}

// Message is a single chat message. It is never modified after being appended.
type Message struct {
	Role      Role            `json:"role"`
	Content   string          `json:"content"`
	Timestamp int64           `json:"timestamp"` // Epoch milliseconds.
	Context   *MessageContext `json:"context,omitempty"`
}

// NewMessage builds a message stamped with the current time.
func NewMessage(role Role, content string, msgCtx *MessageContext) Message {
	return Message{Role: role, Content: content, Timestamp: NowMillis(), Context: msgCtx}
}

// Conversation is a named, ordered sequence of messages.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"created_at"`
	UpdatedAt int64     `json:"updated_at"`
}

// Clone returns a deep copy so callers outside the registry cannot mutate it.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}

// ConversationSummary is the list view of a conversation, without messages.
type ConversationSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Preview      string `json:"preview"`
	MessageCount int    `json:"message_count"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Summary builds the list view of c.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:           c.ID,
		Title:        c.Title,
		Preview:      c.Preview,
		MessageCount: len(c.Messages),
		UpdatedAt:    c.UpdatedAt,
	}
}

// Settings holds the user-configurable parameters for model choice and
// backend connectivity.
type Settings struct {
	Model          string `json:"model" validate:"required" example:"llama3.2"`
	EmbeddingModel string `json:"embedding_model" validate:"required" example:"nomic-embed-text"`
	UseRAG         bool   `json:"use_rag" example:"true"`
	TopK           int    `json:"top_k" validate:"min=1,max=10" example:"5"`
	APIURL         string `json:"api_url" validate:"required,url" example:"http://localhost:8000"`
}

// SettingsPatch is a field-by-field settings update; nil fields are kept.
type SettingsPatch struct {
	Model          *string `json:"model,omitempty"`
	EmbeddingModel *string `json:"embedding_model,omitempty"`
	UseRAG         *bool   `json:"use_rag,omitempty"`
	TopK           *int    `json:"top_k,omitempty"`
	APIURL         *string `json:"api_url,omitempty"`
}

// Apply returns s with the non-nil fields of p applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Model != nil {
		s.Model = *p.Model
	}
	if p.EmbeddingModel != nil {
		s.EmbeddingModel = *p.EmbeddingModel
	}
	if p.UseRAG != nil {
		s.UseRAG = *p.UseRAG
	}
	if p.TopK != nil {
		s.TopK = *p.TopK
	}
	if p.APIURL != nil {
		s.APIURL = *p.APIURL
	}
	return s
}

// Snapshot is the full application state as seen by the view layer.
type Snapshot struct {
	Conversations        []*Conversation `json:"conversations"`
	ActiveConversationID string          `json:"active_conversation_id"`
	Settings             Settings        `json:"settings"`
	DarkMode             bool            `json:"dark_mode"`
	IsLoading            bool            `json:"is_loading"`
}

// NowMillis returns the current time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
