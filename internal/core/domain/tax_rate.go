package domain

import "github.com/shopspring/decimal"

// TaxRate is a named tax rate. Rate is stored as a decimal fraction,
// e.g. 0.1 for 10%.
type TaxRate struct {
	TaxRateID string          `json:"taxRateID"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}
