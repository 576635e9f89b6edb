package api

import (
	"net/http"

	"allma-client/internal/interfaces"
)

// ModelHandler reports what the configured backend offers.
type ModelHandler struct {
	service interfaces.ModelService
}

func NewModelHandler(svc interfaces.ModelService) *ModelHandler {
	return &ModelHandler{service: svc}
}

// HandleListModels godoc
// @Summary      List backend models
// @Description  Gets the models the assistant backend can serve.
// @Tags         Models
// @Produce      json
// @Success      200  {object}  backend.ModelsResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /v1/models [get]
func (h *ModelHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models)
}

// HandleBackendHealth godoc
// @Summary      Backend health
// @Description  Proxies the assistant backend's health report.
// @Tags         Models
// @Produce      json
// @Success      200  {object}  backend.HealthResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /v1/backend/health [get]
func (h *ModelHandler) HandleBackendHealth(w http.ResponseWriter, r *http.Request) {
	health, err := h.service.Health(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, health)
}
