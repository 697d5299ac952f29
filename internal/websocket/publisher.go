package websocket

import "github.com/google/uuid"

// EventPublisher defines the interface for delivering events about a user's data
type EventPublisher interface {
	// Publish sends an event to every sink interested in the user's changes
	Publish(userID uuid.UUID, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the user's clients
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.Broadcast(userID, event)
}

// MultiPublisher fans an event out to several publishers in order
type MultiPublisher []EventPublisher

// NewMultiPublisher combines publishers, skipping nil entries
func NewMultiPublisher(publishers ...EventPublisher) MultiPublisher {
	m := make(MultiPublisher, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			m = append(m, p)
		}
	}
	return m
}

// Publish forwards the event to every wrapped publisher
func (m MultiPublisher) Publish(userID uuid.UUID, event Event) {
	for _, p := range m {
		p.Publish(userID, event)
	}
}

// NoOpPublisher is a publisher that does nothing (for testing or when no sink is configured)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID uuid.UUID, event Event) {}
