// Package platform declares ports for infrastructure concerns that sit
// outside the relational store: caches, search projections and event fanout.
package platform

import (
	"context"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
)

// CounterCache caches derived per-user job counters with a TTL.
type CounterCache interface {
	// GetJobCounters returns cached counters for a user. The second return
	// value reports a cache hit.
	GetJobCounters(ctx context.Context, userID string) (*domain.JobCounters, bool, error)

	// SetJobCounters stores counters for a user with the configured TTL.
	SetJobCounters(ctx context.Context, userID string, counters domain.JobCounters) error

	// InvalidateJobCounters drops cached counters for the given users.
	InvalidateJobCounters(ctx context.Context, userIDs ...string) error
}

// SearchIndexer keeps the external search projection in sync with document
// writes. Implementations must tolerate being called after the database
// transaction commits; a projection failure must not fail the write.
type SearchIndexer interface {
	// IndexDocument upserts the search projection of a document.
	IndexDocument(ctx context.Context, doc domain.SearchDocument) error

	// RemoveDocument deletes a document from the projection.
	RemoveDocument(ctx context.Context, documentID string) error
}

// EventDispatcher fans out domain events emitted by write operations.
type EventDispatcher interface {
	// Dispatch delivers events to registered consumers. Must not block the
	// calling write path.
	Dispatch(ctx context.Context, events ...domain.Event)
}

// DistributedLocker provides cross-process mutual exclusion for background
// sweeps that may run on several instances at once.
type DistributedLocker interface {
	// Obtain acquires a named lock for ttl. Returns the release function, or
	// an error when another holder owns the lock.
	Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}
