package domain

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// DocumentItem is a single line item of a financial document.
// DiscountPercent applies to invoice items, MarkupPercent to purchase-order
// items; credit-note items use UnitCost verbatim.
type DocumentItem struct {
	ItemID          string          `json:"itemID"`
	DocumentID      string          `json:"documentID"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unitCost"`
	DiscountPercent decimal.Decimal `json:"discountPercent"` // 0..100
	MarkupPercent   decimal.Decimal `json:"markupPercent"`   // >= 0
	TaxRateID       string          `json:"taxRateID"`
	TaxRate         decimal.Decimal `json:"taxRate"` // Fraction, e.g. 0.1 for 10%
	GLAccountID     string          `json:"glAccountID"`
	Position        int             `json:"position"`
	AuditFields
}

// AmountForOneUnit returns the effective per-unit amount for the given
// document kind: invoices discount down, purchase orders mark up, credit
// notes use the unit cost as-is.
func (i DocumentItem) AmountForOneUnit(kind DocumentKind) decimal.Decimal {
	switch kind {
	case KindInvoice:
		return i.UnitCost.Mul(decimal.NewFromInt(1).Sub(i.DiscountPercent.Div(oneHundred)))
	case KindPurchaseOrder:
		return i.UnitCost.Mul(decimal.NewFromInt(1).Add(i.MarkupPercent.Div(oneHundred)))
	default:
		return i.UnitCost
	}
}

// Subtotal is the per-unit amount multiplied by quantity.
func (i DocumentItem) Subtotal(kind DocumentKind) decimal.Decimal {
	return i.AmountForOneUnit(kind).Mul(i.Quantity)
}

// TaxAmount is the subtotal multiplied by the tax rate fraction.
func (i DocumentItem) TaxAmount(kind DocumentKind) decimal.Decimal {
	return i.Subtotal(kind).Mul(i.TaxRate)
}

// Total is subtotal plus tax.
func (i DocumentItem) Total(kind DocumentKind) decimal.Decimal {
	return i.Subtotal(kind).Add(i.TaxAmount(kind))
}
