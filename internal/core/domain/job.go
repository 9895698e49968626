package domain

import "time"

// JobState indicates the workflow state of a job.
type JobState string

const (
	JobOpen   JobState = "OPEN"
	JobClosed JobState = "CLOSED"
)

// Job is a piece of field work (or claim) that financial documents may be
// raised against.
type Job struct {
	JobID          string   `json:"jobID"`
	Title          string   `json:"title"`
	LocationID     string   `json:"locationID"`
	AssigneeUserID *string  `json:"assigneeUserID"`
	TeamID         *string  `json:"teamID"`
	State          JobState `json:"state"`
	AuditFields
}

// JobCounters are the derived inbox/mine/team counts for a user's job list.
// They are cached with a TTL and recalculated on demand after invalidation.
type JobCounters struct {
	Inbox       int64     `json:"inbox"`
	Mine        int64     `json:"mine"`
	Team        int64     `json:"team"`
	RefreshedAt time.Time `json:"refreshedAt"`
}
