package domain_test

import (
	"testing"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAmountForOneUnit_InvoiceAppliesDiscount(t *testing.T) {
	item := domain.DocumentItem{
		UnitCost:        dec("200"),
		DiscountPercent: dec("25"),
		MarkupPercent:   dec("50"), // Ignored for invoices
	}

	assert.True(t, dec("150").Equal(item.AmountForOneUnit(domain.KindInvoice)))
}

func TestAmountForOneUnit_PurchaseOrderAppliesMarkup(t *testing.T) {
	item := domain.DocumentItem{
		UnitCost:        dec("200"),
		DiscountPercent: dec("25"), // Ignored for purchase orders
		MarkupPercent:   dec("50"),
	}

	assert.True(t, dec("300").Equal(item.AmountForOneUnit(domain.KindPurchaseOrder)))
}

func TestAmountForOneUnit_CreditNoteUsesUnitCostVerbatim(t *testing.T) {
	item := domain.DocumentItem{
		UnitCost:        dec("200"),
		DiscountPercent: dec("25"),
		MarkupPercent:   dec("50"),
	}

	assert.True(t, dec("200").Equal(item.AmountForOneUnit(domain.KindCreditNote)))
}

func TestSubtotalTaxAndTotal(t *testing.T) {
	item := domain.DocumentItem{
		Quantity:        dec("3"),
		UnitCost:        dec("100"),
		DiscountPercent: dec("10"),
		TaxRate:         dec("0.1"),
	}

	subtotal := item.Subtotal(domain.KindInvoice)
	assert.True(t, dec("270").Equal(subtotal), "subtotal was %s", subtotal)

	tax := item.TaxAmount(domain.KindInvoice)
	assert.True(t, dec("27").Equal(tax), "tax was %s", tax)

	total := item.Total(domain.KindInvoice)
	assert.True(t, dec("297").Equal(total), "total was %s", total)
}

func TestSubtotal_ZeroDiscountAndMarkup(t *testing.T) {
	item := domain.DocumentItem{
		Quantity: dec("2.5"),
		UnitCost: dec("40"),
	}

	assert.True(t, dec("100").Equal(item.Subtotal(domain.KindInvoice)))
	assert.True(t, dec("100").Equal(item.Subtotal(domain.KindPurchaseOrder)))
	assert.True(t, dec("100").Equal(item.Subtotal(domain.KindCreditNote)))
}

func TestTaxAmount_NoTaxRate(t *testing.T) {
	item := domain.DocumentItem{
		Quantity: dec("4"),
		UnitCost: dec("25"),
	}

	assert.True(t, item.TaxAmount(domain.KindInvoice).IsZero())
	assert.True(t, dec("100").Equal(item.Total(domain.KindInvoice)))
}

func TestSubtotal_ExactDecimalArithmetic(t *testing.T) {
	// 0.1 + 0.2 style precision: three units at 0.1 must be exactly 0.3.
	item := domain.DocumentItem{
		Quantity: dec("3"),
		UnitCost: dec("0.1"),
	}

	assert.True(t, dec("0.3").Equal(item.Subtotal(domain.KindCreditNote)))
}
