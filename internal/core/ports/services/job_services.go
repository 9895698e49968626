package services

import (
	"context"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/dto"
)

// JobSvcFacade defines job operations and the cached counter reads.
type JobSvcFacade interface {
	// CreateJob validates and persists a new job.
	CreateJob(ctx context.Context, req dto.CreateJobRequest, userID string) (*domain.Job, error)

	// GetJobByID retrieves a job by ID.
	GetJobByID(ctx context.Context, jobID string) (*domain.Job, error)

	// ListJobs retrieves a page of jobs.
	ListJobs(ctx context.Context, limit int, offset int) ([]domain.Job, error)

	// UpdateJob updates a job's mutable fields and invalidates affected counters.
	UpdateJob(ctx context.Context, jobID string, req dto.UpdateJobRequest, userID string) (*domain.Job, error)

	// GetJobCounters returns the inbox/mine/team counts for a user, served from
	// cache when fresh and recomputed on miss.
	GetJobCounters(ctx context.Context, userID string, teamID *string) (*domain.JobCounters, error)
}
