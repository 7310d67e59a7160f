package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventEpicCreated        EventType = "epic_created"
	EventEpicDeleted        EventType = "epic_deleted"
	EventEpicStatusUpdated  EventType = "epic_status_updated"
	EventStoryCreated       EventType = "story_created"
	EventStoryDeleted       EventType = "story_deleted"
	EventStoryStatusUpdated EventType = "story_status_updated"
)

// Event represents a mutation that was persisted
type Event struct {
	Type    EventType      `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers without blocking
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
