package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allma-client/internal/config"
	"allma-client/internal/model"
)

func fakeBackend(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/":
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["message"] == "" {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"response": reply})
		case "/health/":
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "healthy", "version": "test"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, driver, apiURL string) *config.Config {
	return &config.Config{
		AppPort:               0,
		StoreDriver:           driver,
		DatabasePath:          filepath.Join(t.TempDir(), "allma.db"),
		BoltPath:              filepath.Join(t.TempDir(), "allma.bolt"),
		APIURL:                apiURL,
		DefaultModel:          "llama3.2",
		DefaultEmbeddingModel: "nomic-embed-text",
		IngestConcurrency:     2,
		MaxFileSizeMB:         1,
		AllowedOrigins:        "*",
		LogLevel:              "DEBUG",
	}
}

func TestNew_StatePersistsAcrossRestarts(t *testing.T) {
	for _, driver := range []string{config.StoreSQLite, config.StoreBolt} {
		t.Run(driver, func(t *testing.T) {
			testStatePersists(t, driver)
		})
	}
}

func testStatePersists(t *testing.T, driver string) {
	backend := fakeBackend(t, "Hello!")
	cfg := testConfig(t, driver, backend.URL)
	ctx := context.Background()

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	assert.Len(t, a.Registry.Summaries(), 1)

	created := a.Registry.CreateConversation()
	reply, err := a.Chat.SendMessage(ctx, "Hi there")
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, "Hello!", reply.Content)
	a.Preferences.SetDarkMode(true)
	require.NoError(t, a.Close())

	reopened, err := New(ctx, cfg)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	assert.Equal(t, created.ID, reopened.Registry.ActiveID())
	assert.Len(t, reopened.Registry.Summaries(), 2)
	conv, err := reopened.Registry.Conversation(created.ID)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "Hi there", conv.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, conv.Messages[1].Role)
	assert.Equal(t, "Hi there", conv.Title)
	assert.True(t, reopened.Preferences.DarkMode())
	assert.Equal(t, backend.URL, reopened.Preferences.Settings().APIURL)
}

func TestRouter_SendMessageEndToEnd(t *testing.T) {
	backend := fakeBackend(t, "Hello!")
	a, err := New(context.Background(), testConfig(t, config.StoreMemory, backend.URL))
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Close()) }()

	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/messages", "application/json", strings.NewReader(`{"content":"Hi"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stateResp, err := http.Get(srv.URL + "/api/v1/state")
	require.NoError(t, err)
	defer stateResp.Body.Close()
	var snap model.Snapshot
	require.NoError(t, json.NewDecoder(stateResp.Body).Decode(&snap))
	require.Len(t, snap.Conversations, 1)
	msgs := snap.Conversations[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hi", msgs[0].Content)
	assert.Equal(t, "Hello!", msgs[1].Content)
	assert.False(t, snap.IsLoading)
}

func TestRouter_DeleteConversationClearsBackendHistory(t *testing.T) {
	deleted := make(chan string, 1)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/chat/conversation/") {
			deleted <- strings.TrimPrefix(r.URL.Path, "/chat/conversation/")
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
			return
		}
		http.NotFound(w, r)
	}))
	defer backend.Close()

	a, err := New(context.Background(), testConfig(t, config.StoreMemory, backend.URL))
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Close()) }()
	created := a.Registry.CreateConversation()

	srv := httptest.NewServer(a.Router())
	defer srv.Close()
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/conversations/"+created.ID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, <-deleted)
	assert.Len(t, a.Registry.Summaries(), 1)
}

func TestNew_UnreachableRedisFallsBackToDefaults(t *testing.T) {
	cfg := testConfig(t, config.StoreRedis, "http://localhost:8000")
	cfg.RedisAddr = "127.0.0.1:1"

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.Len(t, a.Registry.Summaries(), 1)
	assert.Equal(t, "llama3.2", a.Preferences.Settings().Model)
	assert.False(t, a.Preferences.DarkMode())
	// The final flush cannot reach Redis either.
	assert.Error(t, a.Close())
}

func TestSetupLogger(t *testing.T) {
	for _, level := range []string{"debug", "WARN", "error", "bogus"} {
		assert.NotPanics(t, func() { setupLogger(level) })
	}
}
