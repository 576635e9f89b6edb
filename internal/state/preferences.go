package state

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	app_errors "allma-client/internal/errors"
	"allma-client/internal/model"
)

var (
	settingsValidator *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		settingsValidator = validator.New()
	})
	return settingsValidator
}

// ValidateSettings checks s against its struct tags and returns a wrapped
// ErrValidation naming every failing field.
func ValidateSettings(s model.Settings) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %s", app_errors.ErrValidation, err.Error())
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag()))
	}
	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(msgs, "; "))
}

// Preferences holds the Settings and the dark-mode flag.
type Preferences struct {
	mu       sync.RWMutex
	settings model.Settings
	darkMode bool
	defaults model.Settings
	bus      *Bus
}

// NewPreferences starts from defaults with dark mode off.
func NewPreferences(bus *Bus, defaults model.Settings) *Preferences {
	return &Preferences{settings: defaults, defaults: defaults, bus: bus}
}

func (p *Preferences) Settings() model.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// Defaults returns the settings the preferences started from.
func (p *Preferences) Defaults() model.Settings {
	return p.defaults
}

// ReplaceSettings validates s and stores it wholesale.
func (p *Preferences) ReplaceSettings(s model.Settings) error {
	if err := ValidateSettings(s); err != nil {
		return err
	}
	p.mu.Lock()
	p.settings = s
	p.mu.Unlock()

	slog.Info("Settings updated", "model", s.Model, "use_rag", s.UseRAG, "top_k", s.TopK, "api_url", s.APIURL)
	p.publish(EventSettings)
	return nil
}

// CompareAndReplaceSettings stores next only if the current settings still
// equal base, and returns ErrConflict otherwise. Callers that derive next from
// a read of the settings use it so a concurrent change is not overwritten.
func (p *Preferences) CompareAndReplaceSettings(base, next model.Settings) error {
	if err := ValidateSettings(next); err != nil {
		return err
	}
	p.mu.Lock()
	if p.settings != base {
		p.mu.Unlock()
		return fmt.Errorf("%w: settings changed while the update was being checked", app_errors.ErrConflict)
	}
	p.settings = next
	p.mu.Unlock()

	slog.Info("Settings updated", "model", next.Model, "use_rag", next.UseRAG, "top_k", next.TopK, "api_url", next.APIURL)
	p.publish(EventSettings)
	return nil
}

func (p *Preferences) DarkMode() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.darkMode
}

func (p *Preferences) SetDarkMode(enabled bool) {
	p.mu.Lock()
	changed := p.darkMode != enabled
	p.darkMode = enabled
	p.mu.Unlock()

	if changed {
		p.publish(EventDarkMode)
	}
}

// ToggleDarkMode flips the flag and returns the new value.
func (p *Preferences) ToggleDarkMode() bool {
	p.mu.Lock()
	p.darkMode = !p.darkMode
	enabled := p.darkMode
	p.mu.Unlock()

	p.publish(EventDarkMode)
	return enabled
}

// Restore installs loaded values. Loaded settings that no longer validate are
// replaced by the defaults; the return value reports that repair.
func (p *Preferences) Restore(s model.Settings, darkMode bool) bool {
	repaired := false
	if err := ValidateSettings(s); err != nil {
		slog.Warn("Persisted settings are invalid, using defaults", "error", err)
		s = p.defaults
		repaired = true
	}
	p.mu.Lock()
	p.settings = s
	p.darkMode = darkMode
	p.mu.Unlock()
	return repaired
}

func (p *Preferences) publish(kind EventKind) {
	if p.bus != nil {
		p.bus.Publish(Event{Kind: kind})
	}
}
