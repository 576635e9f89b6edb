package state

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "allma-client/internal/errors"
	"allma-client/internal/model"
)

// sequentialIDs makes conversation ids predictable.
func sequentialIDs(r *Registry) {
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}
}

func assertInvariants(t *testing.T, r *Registry) {
	t.Helper()
	summaries := r.Summaries()
	require.NotEmpty(t, summaries)
	found := false
	seen := map[string]bool{}
	for _, s := range summaries {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		if s.ID == r.ActiveID() {
			found = true
		}
	}
	assert.True(t, found, "active id %s not in list", r.ActiveID())
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry(nil)

	summaries := r.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, model.DefaultTitle, summaries[0].Title)
	assert.Equal(t, model.DefaultPreview, summaries[0].Preview)
	assert.Equal(t, summaries[0].ID, r.ActiveID())
	assert.Empty(t, r.Active().Messages)
}

func TestRegistry_CreateConversation(t *testing.T) {
	bus := NewBus()
	var kinds []EventKind
	bus.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })
	r := NewRegistry(bus)
	first := r.ActiveID()

	c := r.CreateConversation()

	assert.Equal(t, c.ID, r.ActiveID())
	summaries := r.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, c.ID, summaries[0].ID, "new conversations go to the front")
	assert.Equal(t, first, summaries[1].ID)
	assert.Equal(t, []EventKind{EventConversations, EventActive}, kinds)
	assert.NotEqual(t, first, c.ID)
}

func TestRegistry_DeleteConversation(t *testing.T) {
	t.Run("Deleting the active conversation activates the first remaining", func(t *testing.T) {
		r := NewRegistry(nil)
		sequentialIDs(r)
		a := r.CreateConversation() // c1
		b := r.CreateConversation() // c2, active, list: c2 c1 default

		require.NoError(t, r.DeleteConversation(b.ID))

		assert.Equal(t, a.ID, r.ActiveID())
		assert.Len(t, r.Summaries(), 2)
	})

	t.Run("Deleting an inactive conversation keeps the active pointer", func(t *testing.T) {
		r := NewRegistry(nil)
		sequentialIDs(r)
		a := r.CreateConversation()
		b := r.CreateConversation()

		require.NoError(t, r.DeleteConversation(a.ID))

		assert.Equal(t, b.ID, r.ActiveID())
	})

	t.Run("Deleting the last conversation creates a default one", func(t *testing.T) {
		r := NewRegistry(nil)
		only := r.ActiveID()

		require.NoError(t, r.DeleteConversation(only))

		summaries := r.Summaries()
		require.Len(t, summaries, 1)
		assert.NotEqual(t, only, summaries[0].ID)
		assert.Equal(t, model.DefaultTitle, summaries[0].Title)
		assert.Equal(t, summaries[0].ID, r.ActiveID())
	})

	t.Run("Unknown id is rejected without changes", func(t *testing.T) {
		r := NewRegistry(nil)
		before := r.Summaries()

		err := r.DeleteConversation("ghost")

		assert.ErrorIs(t, err, app_errors.ErrInvalidReference)
		assert.Equal(t, before, r.Summaries())
	})
}

func TestRegistry_SelectConversation(t *testing.T) {
	r := NewRegistry(nil)
	first := r.ActiveID()
	r.CreateConversation()

	require.NoError(t, r.SelectConversation(first))
	assert.Equal(t, first, r.ActiveID())

	err := r.SelectConversation("ghost")
	assert.ErrorIs(t, err, app_errors.ErrInvalidReference)
	assert.Equal(t, first, r.ActiveID())
}

func TestRegistry_AppendMessage(t *testing.T) {
	t.Run("Order, title and preview", func(t *testing.T) {
		r := NewRegistry(nil)
		id := r.ActiveID()

		require.NoError(t, r.AppendMessage(id, model.NewMessage(model.RoleUser, "  What is RAG?  ", nil)))
		require.NoError(t, r.AppendMessage(id, model.NewMessage(model.RoleAssistant, "Retrieval-augmented generation.", nil)))
		require.NoError(t, r.AppendMessage(id, model.NewMessage(model.RoleUser, "And embeddings?", nil)))

		conv, err := r.Conversation(id)
		require.NoError(t, err)
		require.Len(t, conv.Messages, 3)
		assert.Equal(t, model.RoleUser, conv.Messages[0].Role)
		assert.Equal(t, model.RoleAssistant, conv.Messages[1].Role)
		assert.Equal(t, "What is RAG?", conv.Title, "title comes from the first user message only")
		assert.Equal(t, "And embeddings?", conv.Preview, "preview follows the latest user message")
	})

	t.Run("Long text is truncated by runes", func(t *testing.T) {
		r := NewRegistry(nil)
		id := r.ActiveID()
		text := strings.Repeat("é", 60)

		require.NoError(t, r.AppendMessage(id, model.NewMessage(model.RoleUser, text, nil)))

		conv, err := r.Conversation(id)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("é", 35)+"...", conv.Title)
		assert.Equal(t, strings.Repeat("é", 50), conv.Preview)
	})

	t.Run("Assistant message alone keeps defaults", func(t *testing.T) {
		r := NewRegistry(nil)
		id := r.ActiveID()

		require.NoError(t, r.AppendMessage(id, model.NewMessage(model.RoleAssistant, "Hi", nil)))

		conv, err := r.Conversation(id)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultTitle, conv.Title)
		assert.Equal(t, model.DefaultPreview, conv.Preview)
	})

	t.Run("Unknown conversation", func(t *testing.T) {
		r := NewRegistry(nil)
		err := r.AppendMessage("ghost", model.NewMessage(model.RoleUser, "Hi", nil))
		assert.ErrorIs(t, err, app_errors.ErrInvalidReference)
	})

	t.Run("Returned copies are detached", func(t *testing.T) {
		r := NewRegistry(nil)
		id := r.ActiveID()
		require.NoError(t, r.AppendMessage(id, model.NewMessage(model.RoleUser, "Hi", nil)))

		conv, err := r.Conversation(id)
		require.NoError(t, err)
		conv.Messages[0].Content = "changed"
		conv.Title = "changed"

		again, err := r.Conversation(id)
		require.NoError(t, err)
		assert.Equal(t, "Hi", again.Messages[0].Content)
		assert.Equal(t, "Hi", again.Title)
	})
}

func TestRegistry_RandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := NewRegistry(NewBus())

	for i := 0; i < 2000; i++ {
		summaries := r.Summaries()
		pick := summaries[rng.Intn(len(summaries))].ID
		switch rng.Intn(5) {
		case 0:
			r.CreateConversation()
		case 1, 2:
			require.NoError(t, r.DeleteConversation(pick))
		case 3:
			require.NoError(t, r.SelectConversation(pick))
		case 4:
			require.NoError(t, r.AppendMessage(pick, model.NewMessage(model.RoleUser, "msg", nil)))
		}
		assertInvariants(t, r)
	}
}

func TestRegistry_Restore(t *testing.T) {
	t.Run("Clean data", func(t *testing.T) {
		r := NewRegistry(nil)
		list := []*model.Conversation{
			{ID: "a", Title: "A", Messages: []model.Message{{Role: model.RoleUser, Content: "x"}}},
			{ID: "b", Title: "B"},
		}

		repaired := r.Restore(list, "b")

		assert.False(t, repaired)
		assert.Equal(t, "b", r.ActiveID())
		assert.Len(t, r.Summaries(), 2)
		conv, err := r.Conversation("b")
		require.NoError(t, err)
		assert.NotNil(t, conv.Messages)
	})

	t.Run("Dangling active id", func(t *testing.T) {
		r := NewRegistry(nil)
		repaired := r.Restore([]*model.Conversation{{ID: "a"}, {ID: "b"}}, "zzz")

		assert.True(t, repaired)
		assert.Equal(t, "a", r.ActiveID())
	})

	t.Run("Duplicates and blank ids are dropped", func(t *testing.T) {
		r := NewRegistry(nil)
		repaired := r.Restore([]*model.Conversation{{ID: "a"}, nil, {ID: ""}, {ID: "a", Title: "dup"}}, "a")

		assert.True(t, repaired)
		summaries := r.Summaries()
		require.Len(t, summaries, 1)
		assert.Equal(t, "a", summaries[0].ID)
	})

	t.Run("Empty list gets a default", func(t *testing.T) {
		r := NewRegistry(nil)
		r.Restore(nil, "")

		assertInvariants(t, r)
		assert.Equal(t, model.DefaultTitle, r.Active().Title)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("  short \n", 35, ellipsis))
	assert.Equal(t, "abc...", truncate("abcdef", 3, ellipsis))
	assert.Equal(t, "abc", truncate("abc", 3, ellipsis))
	assert.Equal(t, "ab", truncate("abcdef", 2, ""))
}
