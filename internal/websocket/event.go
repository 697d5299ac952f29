package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the action that happened to an entity
type EventType string

const (
	EventTypeCreated     EventType = "created"
	EventTypeUpdated     EventType = "updated"
	EventTypeDeleted     EventType = "deleted"
	EventTypeWarning     EventType = "warning"
	EventTypeContributed EventType = "contributed"
	EventTypeGenerated   EventType = "generated"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeIncome   EntityType = "income"
	EntityTypeBudget   EntityType = "budget"
	EntityTypeExpense  EntityType = "expense"
	EntityTypeGoal     EntityType = "goal"
	EntityTypeSettings EntityType = "settings"
	EntityTypeReport   EntityType = "report"
)

// Event represents a message pushed to a user's connected clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "expense"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// IncomeUpdated creates an income.updated event
func IncomeUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeIncome, payload)
}

// BudgetCreated creates a budget.created event
func BudgetCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudget, payload)
}

// BudgetUpdated creates a budget.updated event
func BudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}

// BudgetDeleted creates a budget.deleted event
func BudgetDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBudget, payload)
}

// BudgetWarning creates a budget.warning event
func BudgetWarning(payload interface{}) Event {
	return NewEvent(EventTypeWarning, EntityTypeBudget, payload)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// GoalCreated creates a goal.created event
func GoalCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeGoal, payload)
}

// GoalUpdated creates a goal.updated event
func GoalUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeGoal, payload)
}

// GoalContributed creates a goal.contributed event
func GoalContributed(payload interface{}) Event {
	return NewEvent(EventTypeContributed, EntityTypeGoal, payload)
}

// GoalDeleted creates a goal.deleted event
func GoalDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeGoal, payload)
}

// SettingsUpdated creates a settings.updated event
func SettingsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSettings, payload)
}

// ReportGenerated creates a report.generated event
func ReportGenerated(payload interface{}) Event {
	return NewEvent(EventTypeGenerated, EntityTypeReport, payload)
}
