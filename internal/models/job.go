package models

// Job represents a row in the jobs table.
type Job struct {
	JobID          string  `db:"job_id"`
	Title          string  `db:"title"`
	LocationID     string  `db:"location_id"`
	AssigneeUserID *string `db:"assignee_user_id"` // Nullable
	TeamID         *string `db:"team_id"`          // Nullable
	State          string  `db:"state"`
	AuditFields
}
