package domain

import "time"

// EventKind names a domain event emitted by a write operation.
type EventKind string

const (
	EventDocumentCreated   EventKind = "document.created"
	EventDocumentUpdated   EventKind = "document.updated"
	EventDocumentDeleted   EventKind = "document.deleted"
	EventDocumentApproved  EventKind = "document.approved"
	EventDocumentLocked    EventKind = "document.locked"
	EventItemAdded         EventKind = "document.item_added"
	EventItemUpdated       EventKind = "document.item_updated"
	EventItemRemoved       EventKind = "document.item_removed"
	EventApprovalRequested EventKind = "document.approval_requested"
	EventApprovalResolved  EventKind = "document.approval_resolved"
)

// Event is an explicit domain event returned by write operations and
// dispatched by the caller. Side effects (counter invalidation, search
// reindexing) hang off events rather than implicit persistence hooks.
type Event struct {
	Kind         EventKind    `json:"kind"`
	DocumentKind DocumentKind `json:"documentKind,omitempty"`
	DocumentID   string       `json:"documentID,omitempty"`
	JobID        *string      `json:"jobID,omitempty"`
	ActorUserID  string       `json:"actorUserID"`
	OccurredAt   time.Time    `json:"occurredAt"`
}
