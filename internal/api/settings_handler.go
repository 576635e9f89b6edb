package api

import (
	"encoding/json"
	"net/http"

	"allma-client/internal/interfaces"
	"allma-client/internal/model"
)

// SettingsHandler serves user preferences.
type SettingsHandler struct {
	service interfaces.SettingsService
}

func NewSettingsHandler(svc interfaces.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// GetSettings godoc
// @Summary      Get settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  model.Settings
// @Router       /v1/settings [get]
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.Get())
}

// ReplaceSettings godoc
// @Summary      Replace settings
// @Description  Replaces the whole settings object. Changing the model checks that the backend offers it.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body      model.Settings  true  "New settings"
// @Success      200       {object}  model.Settings
// @Failure      400       {object}  ErrorResponse
// @Failure      409       {object}  ErrorResponse
// @Router       /v1/settings [put]
func (h *SettingsHandler) ReplaceSettings(w http.ResponseWriter, r *http.Request) {
	var req model.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, decodeError(err))
		return
	}
	if err := h.service.Replace(r.Context(), req); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.service.Get())
}

// UpdateSettings godoc
// @Summary      Update settings
// @Description  Merges the given fields into the current settings. Omitted fields keep their value.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        patch  body      model.SettingsPatch  true  "Fields to change"
// @Success      200    {object}  model.Settings
// @Failure      400    {object}  ErrorResponse
// @Failure      409    {object}  ErrorResponse
// @Router       /v1/settings [patch]
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch model.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, decodeError(err))
		return
	}
	updated, err := h.service.Update(r.Context(), patch)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// ResetSettings godoc
// @Summary      Reset settings
// @Description  Restores the configured default settings.
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  model.Settings
// @Router       /v1/settings [delete]
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.Reset())
}

// GetDarkMode godoc
// @Summary      Get the dark-mode flag
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  DarkModeResponse
// @Router       /v1/dark-mode [get]
func (h *SettingsHandler) GetDarkMode(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, DarkModeResponse{Enabled: h.service.DarkMode()})
}

// SetDarkMode godoc
// @Summary      Set the dark-mode flag
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        darkMode  body      DarkModeRequest  true  "Dark mode on or off"
// @Success      200       {object}  DarkModeResponse
// @Failure      400       {object}  ErrorResponse
// @Router       /v1/dark-mode [put]
func (h *SettingsHandler) SetDarkMode(w http.ResponseWriter, r *http.Request) {
	var req DarkModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, decodeError(err))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}
	h.service.SetDarkMode(*req.Enabled)
	respondWithJSON(w, http.StatusOK, DarkModeResponse{Enabled: *req.Enabled})
}

// ToggleDarkMode godoc
// @Summary      Toggle the dark-mode flag
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  DarkModeResponse
// @Router       /v1/dark-mode/toggle [post]
func (h *SettingsHandler) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, DarkModeResponse{Enabled: h.service.ToggleDarkMode()})
}
