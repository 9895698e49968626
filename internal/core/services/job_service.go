package services

import (
	"context"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/core/ports/platform"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/google/uuid"
)

// jobSvc serves job CRUD plus the per-user inbox/mine/team counters. Counter
// reads are cache-aside: a stale or missing cache entry triggers one COUNT
// query and a re-fill.
type jobSvc struct {
	jobRepo      portsrepo.JobRepositoryFacade
	counterCache platform.CounterCache
}

// NewJobService creates the job service.
func NewJobService(repos portsrepo.RepositoryProvider, counterCache platform.CounterCache) portssvc.JobSvcFacade {
	return &jobSvc{
		jobRepo:      repos.JobRepo,
		counterCache: counterCache,
	}
}

var _ portssvc.JobSvcFacade = (*jobSvc)(nil)

// CreateJob validates and persists a new job.
func (s *jobSvc) CreateJob(ctx context.Context, req dto.CreateJobRequest, userID string) (*domain.Job, error) {
	now := time.Now().UTC()
	job := domain.Job{
		JobID:          uuid.NewString(),
		Title:          req.Title,
		LocationID:     req.LocationID,
		AssigneeUserID: req.AssigneeUserID,
		TeamID:         req.TeamID,
		State:          domain.JobOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.jobRepo.SaveJob(ctx, job); err != nil {
		return nil, err
	}

	s.invalidateCounters(ctx, job.AssigneeUserID)
	return &job, nil
}

// GetJobByID retrieves a job by ID.
func (s *jobSvc) GetJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.jobRepo.FindJobByID(ctx, jobID)
}

// ListJobs retrieves a page of jobs.
func (s *jobSvc) ListJobs(ctx context.Context, limit int, offset int) ([]domain.Job, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.jobRepo.ListJobs(ctx, limit, offset)
}

// UpdateJob updates a job's mutable fields and invalidates counters for every
// user whose counts the change can shift.
func (s *jobSvc) UpdateJob(ctx context.Context, jobID string, req dto.UpdateJobRequest, userID string) (*domain.Job, error) {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	previousAssignee := job.AssigneeUserID

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.State != nil {
		job.State = *req.State
	}
	if req.AssigneeUserID != nil {
		job.AssigneeUserID = req.AssigneeUserID
	}
	if req.TeamID != nil {
		job.TeamID = req.TeamID
	}
	job.LastUpdatedAt = time.Now().UTC()
	job.LastUpdatedBy = userID

	if err := s.jobRepo.UpdateJob(ctx, *job); err != nil {
		return nil, err
	}

	s.invalidateCounters(ctx, previousAssignee, job.AssigneeUserID)
	return job, nil
}

// GetJobCounters returns the inbox/mine/team counts for a user.
func (s *jobSvc) GetJobCounters(ctx context.Context, userID string, teamID *string) (*domain.JobCounters, error) {
	counters, hit, err := s.counterCache.GetJobCounters(ctx, userID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Counter cache read failed, falling back to database", "user_id", userID, "error", err)
	}
	if hit {
		return counters, nil
	}

	counters, err = s.jobRepo.CountJobCounters(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}
	counters.RefreshedAt = time.Now().UTC()

	if err := s.counterCache.SetJobCounters(ctx, userID, *counters); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Counter cache write failed", "user_id", userID, "error", err)
	}
	return counters, nil
}

// invalidateCounters drops cached counters for the given assignees. Cache
// errors are logged, never surfaced: the TTL bounds staleness regardless.
func (s *jobSvc) invalidateCounters(ctx context.Context, assignees ...*string) {
	userIDs := make([]string, 0, len(assignees))
	seen := make(map[string]bool, len(assignees))
	for _, a := range assignees {
		if a == nil || seen[*a] {
			continue
		}
		seen[*a] = true
		userIDs = append(userIDs, *a)
	}
	if len(userIDs) == 0 {
		return
	}
	if err := s.counterCache.InvalidateJobCounters(ctx, userIDs...); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Counter cache invalidation failed", "user_ids", userIDs, "error", err)
	}
}
