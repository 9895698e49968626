package domain

import "time"

// AuthProviderType indicates how a user authenticates.
type AuthProviderType string

const (
	ProviderLocal  AuthProviderType = "LOCAL"
	ProviderGoogle AuthProviderType = "GOOGLE"
)

// User represents an application user within the core domain.
type User struct {
	UserID                 string           `json:"userID"`
	Name                   string           `json:"name"`
	Email                  string           `json:"email"`
	PasswordHash           string           `json:"-"`
	Permissions            []string         `json:"permissions"` // Named permission strings, e.g. "invoices.update"
	AuthProvider           AuthProviderType `json:"authProvider"`
	ProviderUserID         string           `json:"-"` // Subject from the external provider
	RefreshTokenHash       string           `json:"-"`
	RefreshTokenExpiryTime *time.Time       `json:"-"`
	DeletedAt              *time.Time       `json:"-"`
	AuditFields
}

// HasPermission reports whether the user carries the named permission.
func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GoogleUserInfo holds the user details returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
