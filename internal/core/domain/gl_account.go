package domain

// GLAccountType defines the fundamental accounting type of a general-ledger account.
type GLAccountType string

const (
	Asset     GLAccountType = "ASSET"
	Liability GLAccountType = "LIABILITY"
	Equity    GLAccountType = "EQUITY"
	Revenue   GLAccountType = "REVENUE"
	Expense   GLAccountType = "EXPENSE"
)

// GLAccount is a general-ledger account that document items and ledger
// transactions post against.
type GLAccount struct {
	GLAccountID              string        `json:"glAccountID"`
	AccountingOrganizationID string        `json:"accountingOrganizationID"`
	Code                     string        `json:"code"` // User-facing account code
	Name                     string        `json:"name"`
	AccountType              GLAccountType `json:"accountType"`
	Description              string        `json:"description"`
	IsActive                 bool          `json:"isActive"`
	AuditFields
}
