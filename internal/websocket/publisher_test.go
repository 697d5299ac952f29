package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	users  []uuid.UUID
}

func (r *recordingPublisher) Publish(userID uuid.UUID, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
	r.events = append(r.events, event)
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	client := newMockClient("client-1", userID)
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(userID, ExpenseCreated(map[string]interface{}{"id": float64(42)}))

	// Allow async broadcast to complete
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client.GetMessages(), 1)
}

func TestMultiPublisher_FansOut(t *testing.T) {
	first := &recordingPublisher{}
	second := &recordingPublisher{}
	multi := NewMultiPublisher(first, nil, second)
	userID := uuid.New()

	multi.Publish(userID, BudgetWarning(map[string]interface{}{"warning": "exceeded"}))

	assert.Len(t, multi, 2, "nil publishers should be dropped")
	for _, p := range []*recordingPublisher{first, second} {
		if assert.Len(t, p.events, 1) {
			assert.Equal(t, "budget.warning", p.events[0].Type)
			assert.Equal(t, userID, p.users[0])
		}
	}
}

func TestMultiPublisher_Empty(t *testing.T) {
	multi := NewMultiPublisher()

	assert.NotPanics(t, func() {
		multi.Publish(uuid.New(), IncomeUpdated(nil))
	})
}

func TestNoOpPublisher_Publish(t *testing.T) {
	var publisher EventPublisher = &NoOpPublisher{}

	assert.NotPanics(t, func() {
		publisher.Publish(uuid.New(), ExpenseDeleted(nil))
	})
}
