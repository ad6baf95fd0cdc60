// Package events is the real-time notification layer consumed by the admin
// dashboards. Publishing is fire-and-forget: there is no delivery guarantee,
// no retry, and a disconnected subscriber simply misses the event.
package events

import "context"

// Event names broadcast to live subscribers.
const (
	AppointmentCreated       = "appointment:created"
	AppointmentUpdated       = "appointment:updated"
	AppointmentStatusChanged = "appointment:statusChanged"
	AppointmentDeleted       = "appointment:deleted"

	ServiceCreated = "service:created"
	ServiceUpdated = "service:updated"
	ServiceDeleted = "service:deleted"

	UserCreated = "user:created"
	UserUpdated = "user:updated"
	UserDeleted = "user:deleted"

	MessageCreated = "message:created"
	MessageUpdated = "message:updated"
	MessageDeleted = "message:deleted"
)

// Publisher is injected into every component that performs mutations. The
// payload must be JSON-serializable.
type Publisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

// Nop discards every event. Used when no real-time transport is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
