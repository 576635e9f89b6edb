// Package state owns the client application state: the conversation registry,
// the user preferences and the event bus that announces every change to them.
//
// Mutations never write to storage directly. They publish an Event, and the
// Persister subscribed to the bus mirrors the affected key into the store.
// The view layer subscribes to the same bus to re-render.
package state

import (
	"sync"

	"allma-client/internal/model"
)

// EventKind names the part of the state that changed.
type EventKind string

const (
	EventConversations EventKind = "conversations"
	EventActive        EventKind = "active_conversation"
	EventSettings      EventKind = "settings"
	EventDarkMode      EventKind = "dark_mode"
	EventLoading       EventKind = "loading"
)

// Event is published after a mutation has been applied.
type Event struct {
	Kind           EventKind `json:"kind"`
	ConversationID string    `json:"conversation_id,omitempty"`
	At             int64     `json:"at"`
}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus delivers events synchronously, in subscription order, on the goroutine
// that published them.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish stamps e and hands it to every current subscriber. Subscribers must
// not block; the publisher waits for all of them.
func (b *Bus) Publish(e Event) {
	if e.At == 0 {
		e.At = model.NowMillis()
	}
	b.mu.RLock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(e)
	}
}
