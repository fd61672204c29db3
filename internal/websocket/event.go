package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeUser          EntityType = "user"
	EntityTypeCategory      EntityType = "category"
	EntityTypeProduct       EntityType = "product"
	EntityTypeCommunication EntityType = "communication"
	EntityTypeFinancial     EntityType = "financial"
	EntityTypeProject       EntityType = "project"
	EntityTypeTask          EntityType = "task"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "task.updated"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "task"
	Payload   interface{} `json:"payload"`   // Full entity data, or {"id": n} for deletions
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

// Created creates an <entity>.created event
func Created(entity EntityType, payload interface{}) Event {
	return NewEvent(EventTypeCreated, entity, payload)
}

// Updated creates an <entity>.updated event
func Updated(entity EntityType, payload interface{}) Event {
	return NewEvent(EventTypeUpdated, entity, payload)
}

// Deleted creates an <entity>.deleted event carrying only the id
func Deleted(entity EntityType, id int32) Event {
	return NewEvent(EventTypeDeleted, entity, DeletedPayload{ID: id})
}

// DeletedPayload is the payload of deletion events
type DeletedPayload struct {
	ID int32 `json:"id"`
}
