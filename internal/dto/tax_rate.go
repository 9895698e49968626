package dto

import (
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTaxRateRequest defines the payload for creating a tax rate. Rate is a
// fraction, e.g. 0.0825 for 8.25%.
type CreateTaxRateRequest struct {
	Name string          `json:"name" binding:"required"`
	Rate decimal.Decimal `json:"rate" binding:"required"`
}

// TaxRateResponse defines the data returned for a tax rate.
type TaxRateResponse struct {
	TaxRateID string          `json:"taxRateID"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	IsActive  bool            `json:"isActive"`
}

// ToTaxRateResponse converts a domain.TaxRate to its DTO.
func ToTaxRateResponse(r *domain.TaxRate) TaxRateResponse {
	return TaxRateResponse{
		TaxRateID: r.TaxRateID,
		Name:      r.Name,
		Rate:      r.Rate,
		IsActive:  r.IsActive,
	}
}

// ToTaxRateResponses converts a slice of domain.TaxRate to DTOs.
func ToTaxRateResponses(rates []domain.TaxRate) []TaxRateResponse {
	responses := make([]TaxRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToTaxRateResponse(&rates[i])
	}
	return responses
}
