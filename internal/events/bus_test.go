package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()

	ch, unsub := bus.Subscribe()
	defer unsub()

	bus.Publish(Event{Type: EventTypeStarted, Job: "backup"})

	select {
	case event := <-ch:
		require.Equal(t, EventTypeStarted, event.Type)
		require.Equal(t, "backup", event.Job)
		require.NotEmpty(t, event.ID)
		require.False(t, event.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	ch, unsub := bus.Subscribe()
	require.Equal(t, 1, bus.Subscribers())

	unsub()
	require.Equal(t, 0, bus.Subscribers())

	_, open := <-ch
	require.False(t, open, "channel must be closed after unsubscribe")

	// Publishing with no subscribers is a no-op.
	bus.Publish(Event{Type: EventTypeCompleted, Job: "backup"})

	// Unsubscribing twice is safe.
	unsub()
}

func TestBus_SlowSubscriberDropsEvents(t *testing.T) {
	bus := NewBus()

	ch, unsub := bus.Subscribe()
	defer unsub()

	for i := 0; i < defaultBuffer+10; i++ {
		bus.Publish(Event{Type: EventTypeStarted, Job: "flood"})
	}

	require.Len(t, ch, defaultBuffer, "overflow must be dropped, not block")
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()

	first, unsubFirst := bus.Subscribe()
	second, unsubSecond := bus.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	bus.Publish(Event{Type: EventTypeFailed, Job: "report", Error: "exit 1"})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case event := <-ch:
			require.Equal(t, EventTypeFailed, event.Type)
			require.Equal(t, "exit 1", event.Error)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}
