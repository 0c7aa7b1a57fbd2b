package bus

import "time"

// Event kinds published on the bus. Subscribers filter by prefix, so the part
// before the first dot acts as the namespace.
const (
	ListStateChanged = "list.state_changed"
	ListLoaded       = "list.loaded"
	ListFailed       = "list.failed"

	MutationQueued  = "mutation.queued"
	MutationApplied = "mutation.applied"
	MutationFailed  = "mutation.failed"

	NotifyCount = "notify.count"

	SessionChanged = "session.changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
