package state

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	app_errors "allma-client/internal/errors"
	"allma-client/internal/model"
)

const (
	titleLength   = 35
	previewLength = 50
	ellipsis      = "..."
)

// Registry holds the ordered conversation list and the active pointer.
// The list is never empty and the active id always names one of its members.
type Registry struct {
	mu            sync.RWMutex
	conversations []*model.Conversation
	activeID      string
	bus           *Bus
	newID         func() string
}

// NewRegistry returns a registry holding a single default conversation.
func NewRegistry(bus *Bus) *Registry {
	r := &Registry{bus: bus, newID: newConversationID}
	c := r.newConversation()
	r.conversations = []*model.Conversation{c}
	r.activeID = c.ID
	return r
}

// newConversationID returns a time-ordered UUIDv7, falling back to a random
// UUID if the clock source fails.
func newConversationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (r *Registry) newConversation() *model.Conversation {
	now := model.NowMillis()
	return &model.Conversation{
		ID:        r.newID(),
		Title:     model.DefaultTitle,
		Preview:   model.DefaultPreview,
		Messages:  []model.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateConversation inserts a fresh conversation at the front of the list
// and makes it active.
func (r *Registry) CreateConversation() *model.Conversation {
	r.mu.Lock()
	c := r.newConversation()
	r.conversations = append([]*model.Conversation{c}, r.conversations...)
	r.activeID = c.ID
	out := c.Clone()
	r.mu.Unlock()

	slog.Debug("Created conversation", "conversation_id", c.ID)
	r.publish(EventConversations, c.ID)
	r.publish(EventActive, c.ID)
	return out
}

// DeleteConversation removes the conversation with the given id. An emptied
// list receives a new default conversation, and deleting the active
// conversation activates the first remaining one.
func (r *Registry) DeleteConversation(id string) error {
	r.mu.Lock()
	idx := r.indexOf(id)
	if idx < 0 {
		r.mu.Unlock()
		slog.Warn("Delete of unknown conversation ignored", "conversation_id", id)
		return fmt.Errorf("%w: %s", app_errors.ErrInvalidReference, id)
	}

	r.conversations = append(r.conversations[:idx], r.conversations[idx+1:]...)
	if len(r.conversations) == 0 {
		r.conversations = []*model.Conversation{r.newConversation()}
	}
	activeChanged := false
	if r.activeID == id {
		r.activeID = r.conversations[0].ID
		activeChanged = true
	}
	activeID := r.activeID
	r.mu.Unlock()

	slog.Info("Deleted conversation", "conversation_id", id)
	r.publish(EventConversations, id)
	if activeChanged {
		r.publish(EventActive, activeID)
	}
	return nil
}

// SelectConversation moves the active pointer to id.
func (r *Registry) SelectConversation(id string) error {
	r.mu.Lock()
	if r.indexOf(id) < 0 {
		r.mu.Unlock()
		slog.Warn("Select of unknown conversation ignored", "conversation_id", id)
		return fmt.Errorf("%w: %s", app_errors.ErrInvalidReference, id)
	}
	changed := r.activeID != id
	r.activeID = id
	r.mu.Unlock()

	if changed {
		r.publish(EventActive, id)
	}
	return nil
}

// AppendMessage appends msg to the conversation. A user message refreshes the
// preview, and the first one also sets the title.
func (r *Registry) AppendMessage(conversationID string, msg model.Message) error {
	r.mu.Lock()
	idx := r.indexOf(conversationID)
	if idx < 0 {
		r.mu.Unlock()
		slog.Warn("Append to unknown conversation ignored", "conversation_id", conversationID)
		return fmt.Errorf("%w: %s", app_errors.ErrInvalidReference, conversationID)
	}

	c := r.conversations[idx]
	first := len(c.Messages) == 0
	c.Messages = append(c.Messages, msg)
	if msg.Role == model.RoleUser {
		if first {
			c.Title = truncate(msg.Content, titleLength, ellipsis)
		}
		c.Preview = truncate(msg.Content, previewLength, "")
	}
	c.UpdatedAt = model.NowMillis()
	r.mu.Unlock()

	r.publish(EventConversations, conversationID)
	return nil
}

// ActiveID returns the id of the active conversation.
func (r *Registry) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

// Active returns a copy of the active conversation.
func (r *Registry) Active() *model.Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conversations[r.indexOf(r.activeID)].Clone()
}

// Conversation returns a copy of the conversation with the given id.
func (r *Registry) Conversation(id string) (*model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: conversation %s", app_errors.ErrNotFound, id)
	}
	return r.conversations[idx].Clone(), nil
}

// Conversations returns copies of all conversations in display order.
func (r *Registry) Conversations() []*model.Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Conversation, len(r.conversations))
	for i, c := range r.conversations {
		out[i] = c.Clone()
	}
	return out
}

// Summaries returns the list view of all conversations in display order.
func (r *Registry) Summaries() []model.ConversationSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.ConversationSummary, len(r.conversations))
	for i, c := range r.conversations {
		out[i] = c.Summary()
	}
	return out
}

// Restore replaces the registry contents with loaded data, repairing it so
// the invariants hold: entries without an id and duplicate ids are dropped,
// an empty list gets a default conversation and a dangling active id falls
// back to the first conversation. It reports whether anything was repaired.
func (r *Registry) Restore(conversations []*model.Conversation, activeID string) bool {
	repaired := false
	seen := make(map[string]bool, len(conversations))
	kept := make([]*model.Conversation, 0, len(conversations))
	for _, c := range conversations {
		if c == nil || c.ID == "" || seen[c.ID] {
			repaired = true
			continue
		}
		seen[c.ID] = true
		c = c.Clone()
		if c.Messages == nil {
			c.Messages = []model.Message{}
		}
		kept = append(kept, c)
	}

	r.mu.Lock()
	if len(kept) == 0 {
		if len(conversations) > 0 {
			repaired = true
		}
		kept = []*model.Conversation{r.newConversation()}
	}
	r.conversations = kept
	if !seen[activeID] {
		if activeID != "" {
			repaired = true
		}
		activeID = kept[0].ID
	}
	r.activeID = activeID
	r.mu.Unlock()

	if repaired {
		slog.Warn("Repaired persisted conversation state", "conversations", len(kept), "active_conversation_id", activeID)
	}
	return repaired
}

func (r *Registry) indexOf(id string) int {
	for i, c := range r.conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) publish(kind EventKind, conversationID string) {
	if r.bus != nil {
		r.bus.Publish(Event{Kind: kind, ConversationID: conversationID})
	}
}

// truncate shortens s to n runes, adding suffix only when something was cut.
func truncate(s string, n int, suffix string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + suffix
}
