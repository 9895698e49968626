package domain

// AccountingOrganization is the accounting entity a document belongs to. Its
// lock day of month drives the end-of-period sweep that makes dated documents
// immutable.
type AccountingOrganization struct {
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	LockDayOfMonth int    `json:"lockDayOfMonth"` // 1..28
	IsActive       bool   `json:"isActive"`
	AuditFields
}
