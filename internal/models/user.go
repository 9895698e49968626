package models

import "time"

// User represents a row in the users table.
type User struct {
	UserID                 string     `db:"user_id"`
	Name                   string     `db:"name"`
	Email                  string     `db:"email"`
	PasswordHash           string     `db:"password_hash"`
	Permissions            []string   `db:"permissions"` // text[] column
	AuthProvider           string     `db:"auth_provider"`
	ProviderUserID         string     `db:"provider_user_id"`
	RefreshTokenHash       string     `db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `db:"refresh_token_expiry_time"`
	DeletedAt              *time.Time `db:"deleted_at"` // Soft delete marker
	AuditFields
}
