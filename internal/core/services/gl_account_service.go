package services

import (
	"context"
	"fmt"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/google/uuid"
)

type glAccountSvc struct {
	glAccountRepo    portsrepo.GLAccountRepositoryFacade
	organizationRepo portsrepo.OrganizationRepositoryFacade
}

// NewGLAccountService creates the GL account service.
func NewGLAccountService(repos portsrepo.RepositoryProvider) portssvc.GLAccountSvcFacade {
	return &glAccountSvc{
		glAccountRepo:    repos.GLAccountRepo,
		organizationRepo: repos.OrganizationRepo,
	}
}

var _ portssvc.GLAccountSvcFacade = (*glAccountSvc)(nil)

// CreateGLAccount validates and persists a new account.
func (s *glAccountSvc) CreateGLAccount(ctx context.Context, req dto.CreateGLAccountRequest, userID string) (*domain.GLAccount, error) {
	if _, err := s.organizationRepo.FindOrganizationByID(ctx, req.AccountingOrganizationID); err != nil {
		return nil, fmt.Errorf("%w: organization %s not found", apperrors.ErrValidation, req.AccountingOrganizationID)
	}

	now := time.Now().UTC()
	account := domain.GLAccount{
		GLAccountID:              uuid.NewString(),
		AccountingOrganizationID: req.AccountingOrganizationID,
		Code:                     req.Code,
		Name:                     req.Name,
		AccountType:              req.AccountType,
		Description:              req.Description,
		IsActive:                 true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.glAccountRepo.SaveGLAccount(ctx, account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetGLAccountByID retrieves an account by ID.
func (s *glAccountSvc) GetGLAccountByID(ctx context.Context, glAccountID string) (*domain.GLAccount, error) {
	return s.glAccountRepo.FindGLAccountByID(ctx, glAccountID)
}

// ListGLAccounts retrieves active accounts for an organization.
func (s *glAccountSvc) ListGLAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.GLAccount, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.glAccountRepo.ListGLAccounts(ctx, organizationID, limit, offset)
}

// UpdateGLAccount updates an account's mutable fields.
func (s *glAccountSvc) UpdateGLAccount(ctx context.Context, glAccountID string, req dto.UpdateGLAccountRequest, userID string) (*domain.GLAccount, error) {
	account, err := s.glAccountRepo.FindGLAccountByID(ctx, glAccountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.glAccountRepo.UpdateGLAccount(ctx, *account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeactivateGLAccount marks an account inactive.
func (s *glAccountSvc) DeactivateGLAccount(ctx context.Context, glAccountID string, userID string) error {
	return s.glAccountRepo.DeactivateGLAccount(ctx, glAccountID, userID, time.Now().UTC())
}

// GetOrganizationByID retrieves an accounting organization.
func (s *glAccountSvc) GetOrganizationByID(ctx context.Context, organizationID string) (*domain.AccountingOrganization, error) {
	return s.organizationRepo.FindOrganizationByID(ctx, organizationID)
}

// ListOrganizations retrieves all active accounting organizations.
func (s *glAccountSvc) ListOrganizations(ctx context.Context) ([]domain.AccountingOrganization, error) {
	return s.organizationRepo.ListOrganizations(ctx)
}
