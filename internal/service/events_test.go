package service

import "testing"

func TestEventBusPublish(t *testing.T) {
	bus := NewEventBus()
	first := make(chan Event, 1)
	second := make(chan Event, 1)
	bus.Subscribe(first)
	bus.Subscribe(second)

	bus.Publish(Event{Type: EventEpicCreated, Payload: map[string]any{"epic_id": uint32(1)}})

	for _, ch := range []chan Event{first, second} {
		select {
		case ev := <-ch:
			if ev.Type != EventEpicCreated {
				t.Errorf("expected %s, got %s", EventEpicCreated, ev.Type)
			}
		default:
			t.Error("expected event to be delivered")
		}
	}
}

func TestEventBusSkipsSlowSubscriber(t *testing.T) {
	bus := NewEventBus()
	full := make(chan Event) // unbuffered, nobody reading
	bus.Subscribe(full)

	// Must return without blocking.
	bus.Publish(Event{Type: EventStoryDeleted})
}
