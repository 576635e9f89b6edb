package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"allma-client/internal/api"
	app_errors "allma-client/internal/errors"
	"allma-client/internal/interfaces/mocks"
	"allma-client/internal/model"
	"allma-client/internal/state"
)

func setupChatHandler(t *testing.T) (*api.ChatHandler, *mocks.MockChatService, *mocks.MockConversationService, *mocks.MockStateService) {
	mockChat := mocks.NewMockChatService(t)
	mockConvs := mocks.NewMockConversationService(t)
	mockState := mocks.NewMockStateService(t)
	handler := api.NewChatHandler(mockChat, mockConvs, mockState)
	return handler, mockChat, mockConvs, mockState
}

// addChiURLParams injects route parameters the way the chi router does.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func TestChatHandler_SendMessage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockChat, _, _ := setupChatHandler(t)
		reply := &model.Message{Role: model.RoleAssistant, Content: "Hello!", Timestamp: 1700000000000}
		mockChat.On("SendMessage", mock.Anything, "Hi").Return(reply, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":"Hi"}`))
		rr := httptest.NewRecorder()

		handler.SendMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.SendMessageResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Hello!", resp.Message.Content)
		assert.Equal(t, model.RoleAssistant, resp.Message.Role)
	})

	t.Run("Blank message is ignored", func(t *testing.T) {
		handler, mockChat, _, _ := setupChatHandler(t)
		mockChat.On("SendMessage", mock.Anything, "   ").Return(nil, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":"   "}`))
		rr := httptest.NewRecorder()

		handler.SendMessage(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("Failure - Busy", func(t *testing.T) {
		handler, mockChat, _, _ := setupChatHandler(t)
		mockChat.On("SendMessage", mock.Anything, "Again").Return(nil, app_errors.ErrBusy).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":"Again"}`))
		rr := httptest.NewRecorder()

		handler.SendMessage(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "already being processed")
	})

	t.Run("Failure - Conversation deleted while waiting", func(t *testing.T) {
		handler, mockChat, _, _ := setupChatHandler(t)
		err := fmt.Errorf("%w: conversation c1", app_errors.ErrInvalidReference)
		mockChat.On("SendMessage", mock.Anything, "Hi").Return(nil, err).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":"Hi"}`))
		rr := httptest.NewRecorder()

		handler.SendMessage(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - Invalid JSON", func(t *testing.T) {
		handler, _, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":`))
		rr := httptest.NewRecorder()

		handler.SendMessage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid request payload")
	})

	t.Run("Client disconnect does not cancel the exchange", func(t *testing.T) {
		handler, mockChat, _, _ := setupChatHandler(t)
		mockChat.On("SendMessage", mock.Anything, "Hi").
			Run(func(args mock.Arguments) {
				ctx := args.Get(0).(context.Context)
				assert.NoError(t, ctx.Err())
			}).
			Return(&model.Message{Role: model.RoleAssistant, Content: "ok"}, nil).Once()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":"Hi"}`)).WithContext(ctx)
		rr := httptest.NewRecorder()

		handler.SendMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestChatHandler_Conversations(t *testing.T) {
	summaries := []model.ConversationSummary{
		{ID: "c2", Title: model.DefaultTitle, Preview: model.DefaultPreview},
		{ID: "c1", Title: "Hello", Preview: "Hello", MessageCount: 2},
	}

	t.Run("List", func(t *testing.T) {
		handler, _, mockConvs, _ := setupChatHandler(t)
		mockConvs.On("Summaries").Return(summaries).Once()
		mockConvs.On("ActiveID").Return("c2").Once()

		rr := httptest.NewRecorder()
		handler.ListConversations(rr, httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.ConversationListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "c2", resp.ActiveConversationID)
		assert.Equal(t, summaries, resp.Conversations)
	})

	t.Run("Create", func(t *testing.T) {
		handler, _, mockConvs, _ := setupChatHandler(t)
		conv := &model.Conversation{ID: "c3", Title: model.DefaultTitle, Preview: model.DefaultPreview, Messages: []model.Message{}}
		mockConvs.On("CreateConversation").Return(conv).Once()

		rr := httptest.NewRecorder()
		handler.CreateConversation(rr, httptest.NewRequest(http.MethodPost, "/api/v1/conversations", nil))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"id":"c3"`)
	})

	t.Run("Get - Not found", func(t *testing.T) {
		handler, _, mockConvs, _ := setupChatHandler(t)
		mockConvs.On("Conversation", "nope").Return(nil, app_errors.ErrNotFound).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/conversations/nope", nil), map[string]string{"conversationID": "nope"})
		rr := httptest.NewRecorder()
		handler.GetConversation(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Export sets attachment header", func(t *testing.T) {
		handler, _, mockConvs, _ := setupChatHandler(t)
		conv := &model.Conversation{ID: "c1", Title: "Hello", Messages: []model.Message{{Role: model.RoleUser, Content: "Hello"}}}
		mockConvs.On("Conversation", "c1").Return(conv, nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/conversations/c1/export", nil), map[string]string{"conversationID": "c1"})
		rr := httptest.NewRecorder()
		handler.ExportConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, `attachment; filename="conversation-c1.json"`, rr.Header().Get("Content-Disposition"))
	})

	t.Run("Delete returns the remaining list", func(t *testing.T) {
		handler, _, mockConvs, _ := setupChatHandler(t)
		mockConvs.On("DeleteConversation", mock.Anything, "c1").Return(nil).Once()
		mockConvs.On("Summaries").Return(summaries[:1]).Once()
		mockConvs.On("ActiveID").Return("c2").Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodDelete, "/api/v1/conversations/c1", nil), map[string]string{"conversationID": "c1"})
		rr := httptest.NewRecorder()
		handler.DeleteConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"active_conversation_id":"c2"`)
	})

	t.Run("Delete - Unknown id", func(t *testing.T) {
		handler, _, mockConvs, _ := setupChatHandler(t)
		mockConvs.On("DeleteConversation", mock.Anything, "ghost").Return(fmt.Errorf("%w: ghost", app_errors.ErrInvalidReference)).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodDelete, "/api/v1/conversations/ghost", nil), map[string]string{"conversationID": "ghost"})
		rr := httptest.NewRecorder()
		handler.DeleteConversation(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Select", func(t *testing.T) {
		handler, _, mockConvs, _ := setupChatHandler(t)
		mockConvs.On("SelectConversation", "c1").Return(nil).Once()
		mockConvs.On("Summaries").Return(summaries).Once()
		mockConvs.On("ActiveID").Return("c1").Once()

		req := httptest.NewRequest(http.MethodPut, "/api/v1/conversations/active", strings.NewReader(`{"id":"c1"}`))
		rr := httptest.NewRecorder()
		handler.SelectConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"active_conversation_id":"c1"`)
	})

	t.Run("Select - Missing id", func(t *testing.T) {
		handler, _, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/conversations/active", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		handler.SelectConversation(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Field 'ID' failed on the 'required' tag")
	})
}

func TestChatHandler_GetState(t *testing.T) {
	handler, _, _, mockState := setupChatHandler(t)
	snap := model.Snapshot{ActiveConversationID: "c1", DarkMode: true, IsLoading: true}
	mockState.On("Snapshot").Return(snap).Once()

	rr := httptest.NewRecorder()
	handler.GetState(rr, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got model.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, snap, got)
}

// streamRecorder guards the body so the test can read it while the handler
// is still streaming.
type streamRecorder struct {
	*httptest.ResponseRecorder
	mu sync.Mutex
}

func (s *streamRecorder) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ResponseRecorder.Write(p)
}

func (s *streamRecorder) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ResponseRecorder.Flush()
}

func (s *streamRecorder) body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Body.String()
}

func TestChatHandler_StreamEvents(t *testing.T) {
	handler, _, _, mockState := setupChatHandler(t)
	mockState.On("Snapshot").Return(model.Snapshot{ActiveConversationID: "c1"})

	subscribed := make(chan func(state.Event), 1)
	var unsubscribed atomic.Bool
	mockState.On("Subscribe", mock.Anything).
		Run(func(args mock.Arguments) { subscribed <- args.Get(0).(func(state.Event)) }).
		Return(func() { unsubscribed.Store(true) }).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil).WithContext(ctx)
	rec := &streamRecorder{ResponseRecorder: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		handler.StreamEvents(rec, req)
		close(done)
	}()

	publish := <-subscribed
	publish(state.Event{Kind: state.EventSettings, At: 42})

	assert.Eventually(t, func() bool {
		return strings.Contains(rec.body(), "event: settings")
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream handler did not return after the client left")
	}

	body := rec.body()
	assert.True(t, strings.HasPrefix(body, "event: snapshot\n"))
	assert.Contains(t, body, `"kind":"settings"`)
	assert.Contains(t, body, `"active_conversation_id":"c1"`)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.True(t, unsubscribed.Load())
}

func TestRespondWithError_Internal(t *testing.T) {
	handler, mockChat, _, _ := setupChatHandler(t)
	mockChat.On("SendMessage", mock.Anything, "Hi").Return(nil, errors.New("disk on fire")).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"content":"Hi"}`))
	rr := httptest.NewRecorder()
	handler.SendMessage(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal server error")
	assert.NotContains(t, rr.Body.String(), "disk on fire")
}
