package store

import "time"

// Outbox entry statuses.
const (
	OutboxQueued  = "queued"
	OutboxSending = "sending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// CachedCollection is the last successful fetch of one list, stored verbatim.
type CachedCollection struct {
	Key       string
	Payload   []byte
	FetchedAt time.Time
}

// OutboxEntry is one queued create, update or delete against the backend.
type OutboxEntry struct {
	ID           int64
	MutationID   string
	Entity       string
	Method       string
	Path         string
	Body         []byte
	Status       string // queued, sending, sent, failed
	ErrorMessage string
	CreatedAt    time.Time
}
