package service

import (
	"context"
	"fmt"

	"allma-client/internal/backend"
	app_errors "allma-client/internal/errors"
	"allma-client/internal/state"
)

// ModelService reports what the configured backend offers.
type ModelService struct {
	client backend.Client
	prefs  *state.Preferences
}

// NewModelService creates a new ModelService.
func NewModelService(client backend.Client, prefs *state.Preferences) *ModelService {
	return &ModelService{client: client, prefs: prefs}
}

// List returns the models available on the backend.
func (s *ModelService) List(ctx context.Context) (*backend.ModelsResponse, error) {
	resp, err := s.client.ListModels(ctx, s.prefs.Settings().APIURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrUpstream, err.Error())
	}
	return resp, nil
}

// Health returns the backend's own health report.
func (s *ModelService) Health(ctx context.Context) (*backend.HealthResponse, error) {
	resp, err := s.client.Health(ctx, s.prefs.Settings().APIURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrUpstream, err.Error())
	}
	return resp, nil
}
