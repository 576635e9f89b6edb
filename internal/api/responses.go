package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "allma-client/internal/errors"
	"allma-client/internal/model"
	"allma-client/internal/service"
	"allma-client/internal/state"
)

// This file contains shared DTOs (Data Transfer Objects) for API responses
// and helper functions for sending consistent HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse defines a generic success response for operations that
// don't need to return a resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// SelectConversationRequest is the DTO for switching the active conversation.
type SelectConversationRequest struct {
	ID string `json:"id" validate:"required" example:"01929d4e-6f3a-7c2b-9a51-3f1e2d4c5b6a"`
}

// SendMessageRequest is the DTO for sending a chat message. Blank content is
// accepted and ignored.
type SendMessageRequest struct {
	Content string `json:"content" validate:"max=32000" example:"What is retrieval-augmented generation?"`
}

// SendMessageResponse carries the assistant reply appended to the conversation.
type SendMessageResponse struct {
	Message *model.Message `json:"message"`
}

// DarkModeRequest is the DTO for the dark-mode toggle.
type DarkModeRequest struct {
	Enabled *bool `json:"enabled" validate:"required" example:"true"`
}

// DarkModeResponse reports the dark-mode flag.
type DarkModeResponse struct {
	Enabled bool `json:"enabled"`
}

// ConversationListResponse lists conversations with the active pointer.
type ConversationListResponse struct {
	Conversations        []model.ConversationSummary `json:"conversations"`
	ActiveConversationID string                      `json:"active_conversation_id"`
}

// IngestResponse reports one result per uploaded file.
type IngestResponse struct {
	Results []service.IngestResult `json:"results"`
}

// StateEvent is one Server-Sent Event on the state stream.
type StateEvent struct {
	state.Event
	State model.Snapshot `json:"state"`
}

// respondWithError is the centralized error handling function for the API layer.
// It maps business-layer errors to HTTP status codes and writes a standard
// JSON error response.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound), errors.Is(err, app_errors.ErrInvalidReference):
		statusCode = http.StatusNotFound
		message = "The requested conversation was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		// Validation messages from the service layer are already user-friendly.
		message = err.Error()
	case errors.Is(err, app_errors.ErrBusy):
		statusCode = http.StatusConflict
		message = "A message is already being processed. Please wait for the reply."
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = "A conflict occurred with the current state of the resource."
	case errors.Is(err, app_errors.ErrUpstream):
		statusCode = http.StatusBadGateway
		message = "The assistant backend could not be reached."
	default:
		// Anything else is an internal error; details stay in the log.
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// decodeError wraps a request body decoding failure as a validation error.
func decodeError(err error) error {
	return fmt.Errorf("%w: Invalid request payload: %s", app_errors.ErrValidation, err.Error())
}

// respondWithJSON is a low-level helper for marshaling a payload to JSON
// and writing it to the http.ResponseWriter with a given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// writeStreamEvent marshals data and writes it as one SSE event. A write
// error means the client has gone away.
func writeStreamEvent(w http.ResponseWriter, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		return nil
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData)); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
