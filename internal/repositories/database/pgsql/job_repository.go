package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	"github.com/backofficehq/jobledger_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJobRepository struct {
	pool *pgxpool.Pool
}

func newPgxJobRepository(pool *pgxpool.Pool) portsrepo.JobRepositoryFacade {
	return &PgxJobRepository{pool: pool}
}

var _ portsrepo.JobRepositoryFacade = (*PgxJobRepository)(nil)

func toDomainJob(m models.Job) domain.Job {
	return domain.Job{
		JobID:          m.JobID,
		Title:          m.Title,
		LocationID:     m.LocationID,
		AssigneeUserID: m.AssigneeUserID,
		TeamID:         m.TeamID,
		State:          domain.JobState(m.State),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const jobColumns = `job_id, title, location_id, assignee_user_id, team_id, state, created_at, created_by, last_updated_at, last_updated_by`

func scanJob(row rowScanner) (models.Job, error) {
	var m models.Job
	err := row.Scan(
		&m.JobID,
		&m.Title,
		&m.LocationID,
		&m.AssigneeUserID,
		&m.TeamID,
		&m.State,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveJob inserts a new job.
func (r *PgxJobRepository) SaveJob(ctx context.Context, job domain.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		job.JobID,
		job.Title,
		job.LocationID,
		job.AssigneeUserID,
		job.TeamID,
		job.State,
		job.CreatedAt,
		job.CreatedBy,
		job.LastUpdatedAt,
		job.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: job with ID %s already exists", apperrors.ErrDuplicate, job.JobID)
		}
		return fmt.Errorf("failed to save job %s: %w", job.JobID, err)
	}
	return nil
}

// FindJobByID retrieves a job by its ID.
func (r *PgxJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE job_id = $1;`
	m, err := scanJob(r.pool.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job %s: %w", jobID, err)
	}
	job := toDomainJob(m)
	return &job, nil
}

// UpdateJob updates mutable job fields.
func (r *PgxJobRepository) UpdateJob(ctx context.Context, job domain.Job) error {
	query := `
		UPDATE jobs
		SET title = $2, state = $3, assignee_user_id = $4, team_id = $5, last_updated_at = $6, last_updated_by = $7
		WHERE job_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		job.JobID,
		job.Title,
		job.State,
		job.AssigneeUserID,
		job.TeamID,
		job.LastUpdatedAt,
		job.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", job.JobID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListJobs retrieves a paginated list of jobs.
func (r *PgxJobRepository) ListJobs(ctx context.Context, limit int, offset int) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		m, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, toDomainJob(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// CountJobCounters recalculates the inbox/mine/team counts for a user: inbox
// is open unassigned jobs, mine is open jobs assigned to the user, team is
// open jobs assigned to the user's team.
func (r *PgxJobRepository) CountJobCounters(ctx context.Context, userID string, teamID *string) (*domain.JobCounters, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE assignee_user_id IS NULL)            AS inbox,
			COUNT(*) FILTER (WHERE assignee_user_id = $1)               AS mine,
			COUNT(*) FILTER (WHERE team_id = $2 AND team_id IS NOT NULL) AS team
		FROM jobs
		WHERE state = 'OPEN';
	`
	counters := domain.JobCounters{RefreshedAt: time.Now().UTC()}
	err := r.pool.QueryRow(ctx, query, userID, teamID).Scan(&counters.Inbox, &counters.Mine, &counters.Team)
	if err != nil {
		return nil, fmt.Errorf("failed to count job counters for user %s: %w", userID, err)
	}
	return &counters, nil
}
