package store

import "context"

// Event names a committed state change
type Event string

const (
	EventStored   Event = "action_stored"
	EventCanceled Event = "action_canceled"
	EventDeleted  Event = "action_deleted"
)

// Notifier announces committed changes. It must not block, and delivery
// failures stay with the notifier.
type Notifier interface {
	Notify(ctx context.Context, event Event, actionID int64)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event, int64) {}
