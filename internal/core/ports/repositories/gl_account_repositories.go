package repositories

import (
	"context"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
)

// GLAccountReader defines read operations for general-ledger accounts.
type GLAccountReader interface {
	// FindGLAccountByID retrieves an account by its ID.
	FindGLAccountByID(ctx context.Context, glAccountID string) (*domain.GLAccount, error)

	// FindGLAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs
	// are simply absent from the map; the caller decides whether that is an error.
	FindGLAccountsByIDs(ctx context.Context, glAccountIDs []string) (map[string]domain.GLAccount, error)

	// ListGLAccounts retrieves active accounts for an organization.
	ListGLAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.GLAccount, error)
}

// GLAccountWriter defines write operations for general-ledger accounts.
type GLAccountWriter interface {
	// SaveGLAccount inserts a new account.
	SaveGLAccount(ctx context.Context, account domain.GLAccount) error

	// UpdateGLAccount updates name, description and active flag.
	UpdateGLAccount(ctx context.Context, account domain.GLAccount) error

	// DeactivateGLAccount marks an account inactive.
	DeactivateGLAccount(ctx context.Context, glAccountID string, userID string, now time.Time) error
}

// GLAccountRepositoryFacade combines the GL account repository interfaces.
type GLAccountRepositoryFacade interface {
	GLAccountReader
	GLAccountWriter
}
