package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	t.Run("Explicit origin gets credentials", func(t *testing.T) {
		h := CORS([]string{"http://localhost:5173"})(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("Wildcard echoes origin without credentials", func(t *testing.T) {
		h := CORS([]string{"*"})(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		req.Header.Set("Origin", "http://example.com")
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, "http://example.com", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("Unknown origin gets no headers", func(t *testing.T) {
		h := CORS([]string{"http://localhost:5173"})(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		req.Header.Set("Origin", "http://evil.test")
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight short-circuits", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
		h := CORS([]string{"*"})(next)
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/messages", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.False(t, called)
	})
}
