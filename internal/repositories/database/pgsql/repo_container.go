package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository onto one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		DocumentRepo:     newPgxDocumentRepository(dbPool),
		LedgerRepo:       newPgxLedgerRepository(dbPool),
		GLAccountRepo:    newPgxGLAccountRepository(dbPool),
		TaxRateRepo:      newPgxTaxRateRepository(dbPool),
		OrganizationRepo: newPgxOrganizationRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		JobRepo:          newPgxJobRepository(dbPool),
	}
}

// pgxStore carries the shared pool handle and the transaction plumbing that
// repositories with multi-statement writes embed.
type pgxStore struct {
	Pool *pgxpool.Pool
}

func (s *pgxStore) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (s *pgxStore) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback tolerates transactions that already finished, so it can run
// deferred on both the commit and the error path.
func (s *pgxStore) Rollback(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err == nil || errors.Is(err, pgx.ErrTxClosed) || errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return fmt.Errorf("failed to rollback transaction: %w", err)
}
