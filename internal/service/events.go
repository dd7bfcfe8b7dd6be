// Package service implements the domain services. Each service owns
// one entity's lifecycle and authorization rules, and reports realtime
// events through an injected EventSink.
package service

import "context"

// Realtime event names pushed to connected clients.
const (
	EventApplicationNew     = "application:new"
	EventApplicationCreated = "application:created"
	EventApplicationUpdated = "application:updated"
	EventApplicationRemoved = "application:removed"
	EventMessageNew         = "message:new"
)

// EventSink delivers a named event to every live connection a user
// has. Delivery is best effort, a user with no connections is a no-op.
type EventSink interface {
	EmitToUser(userID uint, event string, payload any)
}

// NoopSink discards all events. Used when the realtime layer is not
// wired up, and in tests that do not care about events.
type NoopSink struct{}

func (NoopSink) EmitToUser(uint, string, any) {}

// Followup is deferred side-effect work (emails, realtime pushes)
// spawned once the mutation has committed. It runs concurrently with
// the response write and carries no ordering guarantee relative to it.
// Followups must tolerate cancellation and never panic their way out.
type Followup func(ctx context.Context)
