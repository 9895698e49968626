package models

// GLAccount represents a row in the gl_accounts table.
type GLAccount struct {
	GLAccountID              string `db:"gl_account_id"`
	AccountingOrganizationID string `db:"accounting_organization_id"`
	Code                     string `db:"code"`
	Name                     string `db:"name"`
	AccountType              string `db:"account_type"`
	Description              string `db:"description"`
	IsActive                 bool   `db:"is_active"`
	AuditFields
}

// TaxRate represents a row in the tax_rates table.
type TaxRate struct {
	TaxRateID string `db:"tax_rate_id"`
	Name      string `db:"name"`
	Rate      string `db:"rate"` // NUMERIC scanned via decimal in the repo
	IsActive  bool   `db:"is_active"`
	AuditFields
}

// AccountingOrganization represents a row in the accounting_organizations table.
type AccountingOrganization struct {
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	LockDayOfMonth int    `db:"lock_day_of_month"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}
