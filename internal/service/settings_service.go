package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"allma-client/internal/backend"
	app_errors "allma-client/internal/errors"
	"allma-client/internal/model"
	"allma-client/internal/state"
)

// SettingsService guards changes to the user preferences. When the model
// changes it checks the backend still offers it, mirroring how the backend
// resolves models.
type SettingsService struct {
	prefs  *state.Preferences
	client backend.Client
}

func NewSettingsService(prefs *state.Preferences, client backend.Client) *SettingsService {
	return &SettingsService{prefs: prefs, client: client}
}

// Get returns the current settings.
func (s *SettingsService) Get() model.Settings {
	return s.prefs.Settings()
}

// Replace validates and stores settings wholesale.
func (s *SettingsService) Replace(ctx context.Context, settings model.Settings) error {
	return s.apply(ctx, s.prefs.Settings(), settings)
}

// Update applies a field-by-field patch. If the settings change while the
// model is being checked, it returns ErrConflict and stores nothing.
func (s *SettingsService) Update(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	base := s.prefs.Settings()
	next := patch.Apply(base)
	if err := s.apply(ctx, base, next); err != nil {
		return model.Settings{}, err
	}
	return next, nil
}

// Reset restores the configured default settings.
func (s *SettingsService) Reset() model.Settings {
	defaults := s.prefs.Defaults()
	if err := s.prefs.ReplaceSettings(defaults); err != nil {
		slog.Error("Default settings failed validation", "error", err)
	}
	return s.prefs.Settings()
}

func (s *SettingsService) apply(ctx context.Context, base, next model.Settings) error {
	if err := state.ValidateSettings(next); err != nil {
		return err
	}
	if err := s.checkModel(ctx, base, next); err != nil {
		return err
	}
	return s.prefs.CompareAndReplaceSettings(base, next)
}

func (s *SettingsService) DarkMode() bool {
	return s.prefs.DarkMode()
}

func (s *SettingsService) SetDarkMode(enabled bool) {
	s.prefs.SetDarkMode(enabled)
}

// ToggleDarkMode flips the flag and returns the new value.
func (s *SettingsService) ToggleDarkMode() bool {
	return s.prefs.ToggleDarkMode()
}

// checkModel rejects a model the backend does not list. An unreachable
// backend, or one that lists no models, does not block the change.
func (s *SettingsService) checkModel(ctx context.Context, base, next model.Settings) error {
	if next.Model == base.Model {
		return nil
	}
	available, err := s.client.ListModels(ctx, next.APIURL)
	if err != nil {
		slog.Warn("Could not list models for validation, saving settings without check", "api_url", next.APIURL, "error", err)
		return nil
	}
	if len(available.Models) == 0 {
		return nil
	}
	names := make([]string, len(available.Models))
	for i, m := range available.Models {
		names[i] = m.Name
	}
	if !slices.Contains(names, next.Model) {
		return fmt.Errorf("%w: model '%s' is not available on the backend", app_errors.ErrValidation, next.Model)
	}
	return nil
}
