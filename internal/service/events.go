package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventPersonSaved     EventType = "person_saved"
	EventPersonUpdated   EventType = "person_updated"
	EventPersonDeleted   EventType = "person_deleted"
	EventPeopleCleared   EventType = "people_cleared"
	EventPoemSubmitted   EventType = "poem_submitted"
	EventPoemsCleared    EventType = "poems_cleared"
	EventDatasetImported EventType = "dataset_imported"
)

// Event represents a change to the open database
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events. A nil bus drops
// everything, so services can run without one.
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

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
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
