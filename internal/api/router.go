package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "allma-client/docs"
	appmw "allma-client/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Chat      *ChatHandler
	Settings  *SettingsHandler
	Documents *DocumentHandler
	Models    *ModelHandler
}

// NewRouter creates and configures a new chi router with all the application's routes.
// An empty frontendDir disables the static file server.
func NewRouter(h Handlers, allowedOrigins []string, frontendDir string) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appmw.CORS(allowedOrigins))

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- API Version 1 Routes ---
	r.Route("/api/v1", func(r chi.Router) {

		// Plain JSON routes get a request timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/state", h.Chat.GetState)

			// --- Conversations ---
			r.Get("/conversations", h.Chat.ListConversations)
			r.Post("/conversations", h.Chat.CreateConversation)
			r.Put("/conversations/active", h.Chat.SelectConversation)
			r.Get("/conversations/{conversationID}", h.Chat.GetConversation)
			r.Get("/conversations/{conversationID}/export", h.Chat.ExportConversation)
			r.Delete("/conversations/{conversationID}", h.Chat.DeleteConversation)

			// --- Settings ---
			r.Get("/settings", h.Settings.GetSettings)
			r.Put("/settings", h.Settings.ReplaceSettings)
			r.Patch("/settings", h.Settings.UpdateSettings)
			r.Delete("/settings", h.Settings.ResetSettings)
			r.Get("/dark-mode", h.Settings.GetDarkMode)
			r.Put("/dark-mode", h.Settings.SetDarkMode)
			r.Post("/dark-mode/toggle", h.Settings.ToggleDarkMode)

			// --- Backend ---
			r.Get("/models", h.Models.HandleListModels)
			r.Get("/backend/health", h.Models.HandleBackendHealth)
		})

		// Long-running routes. The backend call may outlive any fixed limit
		// and the event stream stays open until the client leaves.
		r.Group(func(r chi.Router) {
			r.Get("/events", h.Chat.StreamEvents)
			r.Post("/messages", h.Chat.SendMessage)
			r.Post("/documents", h.Documents.HandleIngest)
		})
	})

	// --- Frontend File Server ---
	if frontendDir != "" {
		fileServer := http.FileServer(http.Dir(frontendDir))
		r.Handle("/*", fileServer)
	}

	return r
}
