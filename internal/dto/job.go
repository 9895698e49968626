package dto

import (
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
)

// CreateJobRequest defines the payload for creating a job.
type CreateJobRequest struct {
	Title          string  `json:"title" binding:"required"`
	LocationID     string  `json:"locationID" binding:"required"`
	AssigneeUserID *string `json:"assigneeUserID"`
	TeamID         *string `json:"teamID"`
}

// UpdateJobRequest defines the payload for updating a job.
type UpdateJobRequest struct {
	Title          *string          `json:"title"`
	State          *domain.JobState `json:"state" binding:"omitempty,oneof=OPEN CLOSED"`
	AssigneeUserID *string          `json:"assigneeUserID"`
	TeamID         *string          `json:"teamID"`
}

// JobResponse defines the data returned for a job.
type JobResponse struct {
	JobID          string    `json:"jobID"`
	Title          string    `json:"title"`
	LocationID     string    `json:"locationID"`
	State          string    `json:"state"`
	AssigneeUserID *string   `json:"assigneeUserID,omitempty"`
	TeamID         *string   `json:"teamID,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// JobCountersResponse defines the data returned for the per-user job counters.
type JobCountersResponse struct {
	Inbox       int64     `json:"inbox"`
	Mine        int64     `json:"mine"`
	Team        int64     `json:"team"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

// ToJobResponse converts a domain.Job to its DTO.
func ToJobResponse(j *domain.Job) JobResponse {
	return JobResponse{
		JobID:          j.JobID,
		Title:          j.Title,
		LocationID:     j.LocationID,
		State:          string(j.State),
		AssigneeUserID: j.AssigneeUserID,
		TeamID:         j.TeamID,
		CreatedAt:      j.CreatedAt,
	}
}

// ToJobResponses converts a slice of domain.Job to DTOs.
func ToJobResponses(jobs []domain.Job) []JobResponse {
	responses := make([]JobResponse, len(jobs))
	for i := range jobs {
		responses[i] = ToJobResponse(&jobs[i])
	}
	return responses
}

// ToJobCountersResponse converts domain.JobCounters to its DTO.
func ToJobCountersResponse(c *domain.JobCounters) JobCountersResponse {
	return JobCountersResponse{
		Inbox:       c.Inbox,
		Mine:        c.Mine,
		Team:        c.Team,
		RefreshedAt: c.RefreshedAt,
	}
}
