package repositories

import (
	"context"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
)

// JobRepositoryFacade defines operations for jobs and their derived counters.
type JobRepositoryFacade interface {
	// SaveJob inserts a new job.
	SaveJob(ctx context.Context, job domain.Job) error

	// FindJobByID retrieves a job by its ID.
	FindJobByID(ctx context.Context, jobID string) (*domain.Job, error)

	// UpdateJob updates mutable job fields.
	UpdateJob(ctx context.Context, job domain.Job) error

	// ListJobs retrieves a paginated list of jobs.
	ListJobs(ctx context.Context, limit int, offset int) ([]domain.Job, error)

	// CountJobCounters recalculates the inbox/mine/team counts for a user from
	// the store. Used on cache miss; results are cached by the service.
	CountJobCounters(ctx context.Context, userID string, teamID *string) (*domain.JobCounters, error)
}
