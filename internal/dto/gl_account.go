package dto

import (
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
)

// CreateGLAccountRequest defines the payload for creating a GL account.
type CreateGLAccountRequest struct {
	Name                     string               `json:"name" binding:"required"`
	Code                     string               `json:"code" binding:"required"`
	AccountType              domain.GLAccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	AccountingOrganizationID string               `json:"accountingOrganizationID" binding:"required"`
	Description              string               `json:"description"`
}

// UpdateGLAccountRequest defines the payload for updating a GL account.
type UpdateGLAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// GLAccountResponse defines the data returned for a GL account.
type GLAccountResponse struct {
	GLAccountID              string    `json:"glAccountID"`
	Name                     string    `json:"name"`
	Code                     string    `json:"code"`
	AccountType              string    `json:"accountType"`
	AccountingOrganizationID string    `json:"accountingOrganizationID"`
	Description              string    `json:"description,omitempty"`
	IsActive                 bool      `json:"isActive"`
	CreatedAt                time.Time `json:"createdAt"`
}

// ToGLAccountResponse converts a domain.GLAccount to its DTO.
func ToGLAccountResponse(a *domain.GLAccount) GLAccountResponse {
	return GLAccountResponse{
		GLAccountID:              a.GLAccountID,
		Name:                     a.Name,
		Code:                     a.Code,
		AccountType:              string(a.AccountType),
		AccountingOrganizationID: a.AccountingOrganizationID,
		Description:              a.Description,
		IsActive:                 a.IsActive,
		CreatedAt:                a.CreatedAt,
	}
}

// ToGLAccountResponses converts a slice of domain.GLAccount to DTOs.
func ToGLAccountResponses(accounts []domain.GLAccount) []GLAccountResponse {
	responses := make([]GLAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToGLAccountResponse(&accounts[i])
	}
	return responses
}

// OrganizationResponse defines the data returned for an accounting organization.
type OrganizationResponse struct {
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	LockDayOfMonth int    `json:"lockDayOfMonth"`
	IsActive       bool   `json:"isActive"`
}

// ToOrganizationResponse converts a domain.AccountingOrganization to its DTO.
func ToOrganizationResponse(org *domain.AccountingOrganization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: org.OrganizationID,
		Name:           org.Name,
		LockDayOfMonth: org.LockDayOfMonth,
		IsActive:       org.IsActive,
	}
}

// ToOrganizationResponses converts a slice of organizations to DTOs.
func ToOrganizationResponses(orgs []domain.AccountingOrganization) []OrganizationResponse {
	responses := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		responses[i] = ToOrganizationResponse(&orgs[i])
	}
	return responses
}
