package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"allma-client/internal/model"
	"allma-client/internal/store"
)

// Persister mirrors state changes into a store. It writes synchronously from
// the publishing goroutine; a failed write is logged and the in-memory state
// stays authoritative.
//
// Each write snapshots the state under mu, so a write never replaces a newer
// snapshot with an older one.
type Persister struct {
	mu    sync.Mutex
	ctx   context.Context
	store store.Store
	reg   *Registry
	prefs *Preferences
}

func NewPersister(ctx context.Context, st store.Store, reg *Registry, prefs *Preferences) *Persister {
	return &Persister{ctx: ctx, store: st, reg: reg, prefs: prefs}
}

// Attach subscribes the persister to bus and returns the unsubscribe func.
func (p *Persister) Attach(bus *Bus) func() {
	return bus.Subscribe(p.handle)
}

func (p *Persister) handle(e Event) {
	if e.Kind == EventLoading {
		// The loading flag is session-only.
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	switch e.Kind {
	case EventConversations:
		err = p.saveConversations()
	case EventActive:
		err = p.saveActive()
	case EventSettings:
		err = p.saveSettings()
	case EventDarkMode:
		err = p.saveDarkMode()
	}
	if err != nil {
		slog.Error("Failed to persist state change", "kind", e.Kind, "error", err)
	}
}

func (p *Persister) saveConversations() error {
	return store.Save(p.ctx, p.store, store.KeyConversations, p.reg.Conversations())
}

func (p *Persister) saveActive() error {
	return store.Save(p.ctx, p.store, store.KeyActiveConversation, p.reg.ActiveID())
}

// saveSettings drops the stored value once the settings are back at their
// defaults, so they follow the configured defaults from then on.
func (p *Persister) saveSettings() error {
	settings := p.prefs.Settings()
	if settings == p.prefs.Defaults() {
		if err := p.store.Delete(p.ctx, store.KeySettings); err != nil {
			return fmt.Errorf("could not delete %s: %w", store.KeySettings, err)
		}
		return nil
	}
	return store.Save(p.ctx, p.store, store.KeySettings, settings)
}

func (p *Persister) saveDarkMode() error {
	return store.Save(p.ctx, p.store, store.KeyDarkMode, p.prefs.DarkMode())
}

// Flush writes every persisted key.
func (p *Persister) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, save := range []func() error{p.saveConversations, p.saveActive, p.saveSettings, p.saveDarkMode} {
		if err := save(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState reads every persisted key with its default and builds the
// registry and preferences from them. The returned flag reports whether the
// loaded data had to be repaired and should be written back.
func LoadState(ctx context.Context, st store.Store, bus *Bus, defaults model.Settings) (*Registry, *Preferences, bool) {
	conversations := store.Load[[]*model.Conversation](ctx, st, store.KeyConversations, nil)
	activeID := store.Load(ctx, st, store.KeyActiveConversation, "")
	settings := store.Load(ctx, st, store.KeySettings, defaults)
	darkMode := store.Load(ctx, st, store.KeyDarkMode, false)

	reg := NewRegistry(bus)
	regRepaired := reg.Restore(conversations, activeID)

	prefs := NewPreferences(bus, defaults)
	prefsRepaired := prefs.Restore(settings, darkMode)

	slog.Info("Loaded application state",
		"conversations", len(reg.Summaries()),
		"active_conversation_id", reg.ActiveID(),
		"dark_mode", darkMode,
	)
	return reg, prefs, regRepaired || prefsRepaired || len(conversations) == 0
}
