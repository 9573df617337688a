package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEventCreated               EventType = "event_created"
	EventEventUpdated               EventType = "event_updated"
	EventEventStatusChanged         EventType = "event_status_changed"
	EventEventDeleted               EventType = "event_deleted"
	EventUserRegistered             EventType = "user_registered"
	EventStudentVerificationChanged EventType = "student_verification_changed"
	EventCoordinatorRegistered      EventType = "coordinator_registered"
	EventProductStatusChanged       EventType = "product_status_changed"

	// AllEvents subscribes a handler to every event type.
	AllEvents EventType = "*"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	ResourceID string    `json:"resource_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// New stamps an id and timestamp onto an event.
func New(eventType EventType, resourceID, actorID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ResourceID: resourceID,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// EventChangedPayload payload.
type EventChangedPayload struct {
	Title         string `json:"title"`
	CoordinatorID string `json:"coordinator_id"`
	Status        string `json:"status"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ByAdmin   bool   `json:"by_admin"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	UserType string `json:"user_type"`
}

// VerificationChangedPayload payload.
type VerificationChangedPayload struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// CoordinatorRegisteredPayload payload.
type CoordinatorRegisteredPayload struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	HasCredentials bool   `json:"has_credentials"`
}
