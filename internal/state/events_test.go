package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus(t *testing.T) {
	bus := NewBus()
	var first, second []Event

	unsubFirst := bus.Subscribe(func(e Event) { first = append(first, e) })
	bus.Subscribe(func(e Event) { second = append(second, e) })

	bus.Publish(Event{Kind: EventSettings})
	unsubFirst()
	unsubFirst()
	bus.Publish(Event{Kind: EventDarkMode, At: 99})

	assert.Len(t, first, 1)
	assert.Len(t, second, 2)
	assert.NotZero(t, first[0].At, "publish stamps the event time")
	assert.Equal(t, int64(99), second[1].At)
	assert.Equal(t, EventDarkMode, second[1].Kind)
}

func TestBus_SubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	calls := 0
	var unsub func()
	unsub = bus.Subscribe(func(e Event) {
		calls++
		unsub()
	})

	bus.Publish(Event{Kind: EventLoading})
	bus.Publish(Event{Kind: EventLoading})

	assert.Equal(t, 1, calls)
}
