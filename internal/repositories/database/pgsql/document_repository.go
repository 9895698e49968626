package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	"github.com/backofficehq/jobledger_backend/internal/models"
	"github.com/backofficehq/jobledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDocumentRepository struct {
	pgxStore
}

// newPgxDocumentRepository creates a new repository for financial documents.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{pgxStore{Pool: pool}}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentRepositoryWithTx
var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

// Helper to convert domain.FinancialDocument to models.FinancialDocument for DB storage
func toModelDocument(d domain.FinancialDocument) models.FinancialDocument {
	return models.FinancialDocument{
		DocumentID:               d.DocumentID,
		Kind:                     string(d.Kind),
		Number:                   d.Number,
		LocationID:               d.LocationID,
		AccountingOrganizationID: d.AccountingOrganizationID,
		RecipientContactID:       d.RecipientContactID,
		JobID:                    d.JobID,
		Date:                     d.Date,
		DueAt:                    d.DueAt,
		LockedAt:                 d.LockedAt,
		Notes:                    d.Notes,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.FinancialDocument from DB to domain.FinancialDocument
func toDomainDocument(m models.FinancialDocument) domain.FinancialDocument {
	return domain.FinancialDocument{
		DocumentID:               m.DocumentID,
		Kind:                     domain.DocumentKind(m.Kind),
		Number:                   m.Number,
		LocationID:               m.LocationID,
		AccountingOrganizationID: m.AccountingOrganizationID,
		RecipientContactID:       m.RecipientContactID,
		JobID:                    m.JobID,
		Date:                     m.Date,
		DueAt:                    m.DueAt,
		LockedAt:                 m.LockedAt,
		Notes:                    m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toModelDocumentItem(d domain.DocumentItem) models.DocumentItem {
	return models.DocumentItem{
		ItemID:          d.ItemID,
		DocumentID:      d.DocumentID,
		Description:     d.Description,
		Quantity:        d.Quantity,
		UnitCost:        d.UnitCost,
		DiscountPercent: d.DiscountPercent,
		MarkupPercent:   d.MarkupPercent,
		TaxRateID:       d.TaxRateID,
		TaxRate:         d.TaxRate,
		GLAccountID:     d.GLAccountID,
		Position:        d.Position,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainDocumentItem(m models.DocumentItem) domain.DocumentItem {
	return domain.DocumentItem{
		ItemID:          m.ItemID,
		DocumentID:      m.DocumentID,
		Description:     m.Description,
		Quantity:        m.Quantity,
		UnitCost:        m.UnitCost,
		DiscountPercent: m.DiscountPercent,
		MarkupPercent:   m.MarkupPercent,
		TaxRateID:       m.TaxRateID,
		TaxRate:         m.TaxRate,
		GLAccountID:     m.GLAccountID,
		Position:        m.Position,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const documentColumns = `document_id, kind, number, location_id, accounting_organization_id, recipient_contact_id, job_id, date, due_at, locked_at, notes, created_at, created_by, last_updated_at, last_updated_by`

const documentItemColumns = `item_id, document_id, description, quantity, unit_cost, discount_percent, markup_percent, tax_rate_id, tax_rate, gl_account_id, position, created_at, created_by, last_updated_at, last_updated_by`

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (models.FinancialDocument, error) {
	var m models.FinancialDocument
	err := row.Scan(
		&m.DocumentID,
		&m.Kind,
		&m.Number,
		&m.LocationID,
		&m.AccountingOrganizationID,
		&m.RecipientContactID,
		&m.JobID,
		&m.Date,
		&m.DueAt,
		&m.LockedAt,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanDocumentItem(row rowScanner) (models.DocumentItem, error) {
	var m models.DocumentItem
	err := row.Scan(
		&m.ItemID,
		&m.DocumentID,
		&m.Description,
		&m.Quantity,
		&m.UnitCost,
		&m.DiscountPercent,
		&m.MarkupPercent,
		&m.TaxRateID,
		&m.TaxRate,
		&m.GLAccountID,
		&m.Position,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindDocumentByID retrieves a document with its items, status history,
// approve requests and payment allocations fully loaded.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.FinancialDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM financial_documents WHERE document_id = $1 AND kind = $2;`

	m, err := scanDocument(r.Pool.QueryRow(ctx, query, documentID, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}

	doc := toDomainDocument(m)
	if err := r.loadRelations(ctx, []*domain.FinancialDocument{&doc}); err != nil {
		return nil, err
	}
	return &doc, nil
}

// loadRelations populates items, statuses, approve requests and payments for
// the given documents with one query per relation.
func (r *PgxDocumentRepository) loadRelations(ctx context.Context, docs []*domain.FinancialDocument) error {
	if len(docs) == 0 {
		return nil
	}
	byID := make(map[string]*domain.FinancialDocument, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		byID[d.DocumentID] = d
		ids = append(ids, d.DocumentID)
	}

	itemQuery := `SELECT ` + documentItemColumns + ` FROM document_items WHERE document_id = ANY($1) ORDER BY document_id, position;`
	rows, err := r.Pool.Query(ctx, itemQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to query document items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanDocumentItem(rows)
		if err != nil {
			return fmt.Errorf("failed to scan document item: %w", err)
		}
		doc := byID[m.DocumentID]
		doc.Items = append(doc.Items, toDomainDocumentItem(m))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate document items: %w", err)
	}
	rows.Close()

	statusQuery := `SELECT status_id, document_id, user_id, status, created_at FROM document_statuses WHERE document_id = ANY($1) ORDER BY document_id, created_at, status_id;`
	rows, err = r.Pool.Query(ctx, statusQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to query document statuses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s models.DocumentStatus
		if err := rows.Scan(&s.StatusID, &s.DocumentID, &s.UserID, &s.Status, &s.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan document status: %w", err)
		}
		doc := byID[s.DocumentID]
		doc.Statuses = append(doc.Statuses, domain.StatusEntry{
			StatusID:   s.StatusID,
			DocumentID: s.DocumentID,
			UserID:     s.UserID,
			Status:     domain.DocumentStatus(s.Status),
			CreatedAt:  s.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate document statuses: %w", err)
	}
	rows.Close()

	reqQuery := `SELECT requester_id, approver_id, document_id, approved_at, created_at FROM approve_requests WHERE document_id = ANY($1) ORDER BY created_at;`
	rows, err = r.Pool.Query(ctx, reqQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to query approve requests: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.ApproveRequest
		if err := rows.Scan(&m.RequesterID, &m.ApproverID, &m.DocumentID, &m.ApprovedAt, &m.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan approve request: %w", err)
		}
		doc := byID[m.DocumentID]
		doc.ApproveRequests = append(doc.ApproveRequests, domain.ApproveRequest{
			RequesterID: m.RequesterID,
			ApproverID:  m.ApproverID,
			DocumentID:  m.DocumentID,
			ApprovedAt:  m.ApprovedAt,
			CreatedAt:   m.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate approve requests: %w", err)
	}
	rows.Close()

	payQuery := `SELECT payment_id, document_id, amount, paid_at, created_at, created_by, last_updated_at, last_updated_by FROM payment_allocations WHERE document_id = ANY($1) ORDER BY paid_at;`
	rows, err = r.Pool.Query(ctx, payQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to query payment allocations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.PaymentAllocation
		if err := rows.Scan(&m.PaymentID, &m.DocumentID, &m.Amount, &m.PaidAt, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return fmt.Errorf("failed to scan payment allocation: %w", err)
		}
		doc := byID[m.DocumentID]
		doc.Payments = append(doc.Payments, domain.PaymentAllocation{
			PaymentID:  m.PaymentID,
			DocumentID: m.DocumentID,
			Amount:     m.Amount,
			PaidAt:     m.PaidAt,
			AuditFields: domain.AuditFields{
				CreatedAt:     m.CreatedAt,
				CreatedBy:     m.CreatedBy,
				LastUpdatedAt: m.LastUpdatedAt,
				LastUpdatedBy: m.LastUpdatedBy,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payment allocations: %w", err)
	}

	return nil
}

// ListDocuments retrieves a paginated list of documents of one kind, newest
// first, using (date, created_at) keyset pagination.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, kind domain.DocumentKind, limit int, nextToken *string) ([]domain.FinancialDocument, *string, error) {
	args := []any{kind, limit + 1}
	query := `SELECT ` + documentColumns + ` FROM financial_documents WHERE kind = $1`

	if nextToken != nil && *nextToken != "" {
		docDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (date, created_at) < ($3, $4)`
		args = append(args, docDate, createdAt)
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.FinancialDocument
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, toDomainDocument(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	rows.Close()

	var newToken *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		newToken = &token
	}

	ptrs := make([]*domain.FinancialDocument, len(docs))
	for i := range docs {
		ptrs[i] = &docs[i]
	}
	if err := r.loadRelations(ctx, ptrs); err != nil {
		return nil, nil, err
	}

	return docs, newToken, nil
}

// ListLockCandidates retrieves unlocked documents of active organizations
// whose lock day equals now's day-of-month, dated on or before now. Relations
// are loaded so the sweep sees the same snapshot shape as everything else.
func (r *PgxDocumentRepository) ListLockCandidates(ctx context.Context, now time.Time) ([]domain.FinancialDocument, error) {
	query := `
		SELECT ` + prefixColumns("d", documentColumns) + `
		FROM financial_documents d
		JOIN accounting_organizations o ON o.organization_id = d.accounting_organization_id
		WHERE o.is_active
		  AND o.lock_day_of_month = $1
		  AND d.locked_at IS NULL
		  AND d.date <= $2
		ORDER BY d.document_id;
	`
	rows, err := r.Pool.Query(ctx, query, now.Day(), now)
	if err != nil {
		return nil, fmt.Errorf("failed to list lock candidates: %w", err)
	}
	defer rows.Close()

	var docs []domain.FinancialDocument
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lock candidate: %w", err)
		}
		docs = append(docs, toDomainDocument(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lock candidates: %w", err)
	}
	return docs, nil
}

// SaveDocument persists a new document header together with its items in one
// transaction.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.FinancialDocument) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := toModelDocument(doc)
	headerQuery := `
		INSERT INTO financial_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.DocumentID,
		m.Kind,
		m.Number,
		m.LocationID,
		m.AccountingOrganizationID,
		m.RecipientContactID,
		m.JobID,
		m.Date,
		m.DueAt,
		m.LockedAt,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: document with ID %s already exists", apperrors.ErrDuplicate, m.DocumentID)
		}
		return fmt.Errorf("failed to save document %s: %w", m.DocumentID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO document_items (` + documentItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	for _, item := range doc.Items {
		im := toModelDocumentItem(item)
		batch.Queue(itemQuery,
			im.ItemID,
			im.DocumentID,
			im.Description,
			im.Quantity,
			im.UnitCost,
			im.DiscountPercent,
			im.MarkupPercent,
			im.TaxRateID,
			im.TaxRate,
			im.GLAccountID,
			im.Position,
			im.CreatedAt,
			im.CreatedBy,
			im.LastUpdatedAt,
			im.LastUpdatedBy,
		)
	}
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to insert items for document %s: %w", m.DocumentID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// UpdateDocument updates header fields of an existing document.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, doc domain.FinancialDocument) error {
	m := toModelDocument(doc)
	query := `
		UPDATE financial_documents
		SET number = $2, recipient_contact_id = $3, job_id = $4, date = $5, due_at = $6,
		    notes = $7, last_updated_at = $8, last_updated_by = $9
		WHERE document_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.DocumentID,
		m.Number,
		m.RecipientContactID,
		m.JobID,
		m.Date,
		m.DueAt,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", m.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteDocument removes a document together with its items and status rows.
func (r *PgxDocumentRepository) DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM document_items WHERE document_id = $1;`, documentID); err != nil {
		return fmt.Errorf("failed to delete items of document %s: %w", documentID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM document_statuses WHERE document_id = $1;`, documentID); err != nil {
		return fmt.Errorf("failed to delete statuses of document %s: %w", documentID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM financial_documents WHERE document_id = $1 AND kind = $2;`, documentID, kind)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// SaveItem inserts a line item.
func (r *PgxDocumentRepository) SaveItem(ctx context.Context, item domain.DocumentItem) error {
	m := toModelDocumentItem(item)
	query := `
		INSERT INTO document_items (` + documentItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ItemID,
		m.DocumentID,
		m.Description,
		m.Quantity,
		m.UnitCost,
		m.DiscountPercent,
		m.MarkupPercent,
		m.TaxRateID,
		m.TaxRate,
		m.GLAccountID,
		m.Position,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: item with ID %s already exists", apperrors.ErrDuplicate, m.ItemID)
		}
		return fmt.Errorf("failed to save item %s: %w", m.ItemID, err)
	}
	return nil
}

// UpdateItem updates a line item.
func (r *PgxDocumentRepository) UpdateItem(ctx context.Context, item domain.DocumentItem) error {
	m := toModelDocumentItem(item)
	query := `
		UPDATE document_items
		SET description = $3, quantity = $4, unit_cost = $5, discount_percent = $6,
		    markup_percent = $7, tax_rate_id = $8, tax_rate = $9, gl_account_id = $10,
		    position = $11, last_updated_at = $12, last_updated_by = $13
		WHERE document_id = $1 AND item_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.DocumentID,
		m.ItemID,
		m.Description,
		m.Quantity,
		m.UnitCost,
		m.DiscountPercent,
		m.MarkupPercent,
		m.TaxRateID,
		m.TaxRate,
		m.GLAccountID,
		m.Position,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update item %s: %w", m.ItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteItem removes a line item.
func (r *PgxDocumentRepository) DeleteItem(ctx context.Context, documentID, itemID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM document_items WHERE document_id = $1 AND item_id = $2;`, documentID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkLocked sets locked_at once. The locked_at IS NULL guard makes the sweep
// idempotent under concurrent runs.
func (r *PgxDocumentRepository) MarkLocked(ctx context.Context, documentID string, lockedAt time.Time) (bool, error) {
	query := `UPDATE financial_documents SET locked_at = $2 WHERE document_id = $1 AND locked_at IS NULL;`
	tag, err := r.Pool.Exec(ctx, query, documentID, lockedAt)
	if err != nil {
		return false, fmt.Errorf("failed to lock document %s: %w", documentID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// SavePaymentAllocation links a payment amount to an invoice.
func (r *PgxDocumentRepository) SavePaymentAllocation(ctx context.Context, alloc domain.PaymentAllocation) error {
	query := `
		INSERT INTO payment_allocations (payment_id, document_id, amount, paid_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		alloc.PaymentID,
		alloc.DocumentID,
		alloc.Amount,
		alloc.PaidAt,
		alloc.CreatedAt,
		alloc.CreatedBy,
		alloc.LastUpdatedAt,
		alloc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: payment %s already allocated to document %s", apperrors.ErrDuplicate, alloc.PaymentID, alloc.DocumentID)
		}
		return fmt.Errorf("failed to save payment allocation: %w", err)
	}
	return nil
}

// FindDocumentForUpdate loads the document header with a FOR UPDATE row lock
// together with its items and status history, all within the given
// transaction. Approval checks the total from this snapshot, so the items are
// part of it. Concurrent approvers serialize on the lock; the loser re-reads a
// history that already contains APPROVED and fails its transition check.
func (r *PgxDocumentRepository) FindDocumentForUpdate(ctx context.Context, tx pgx.Tx, kind domain.DocumentKind, documentID string) (*domain.FinancialDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM financial_documents WHERE document_id = $1 AND kind = $2 FOR UPDATE;`

	m, err := scanDocument(tx.QueryRow(ctx, query, documentID, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock document %s: %w", documentID, err)
	}
	doc := toDomainDocument(m)

	itemQuery := `SELECT ` + documentItemColumns + ` FROM document_items WHERE document_id = $1 ORDER BY position;`
	rows, err := tx.Query(ctx, itemQuery, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of document %s: %w", documentID, err)
	}
	defer rows.Close()
	for rows.Next() {
		im, err := scanDocumentItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item of document %s: %w", documentID, err)
		}
		doc.Items = append(doc.Items, toDomainDocumentItem(im))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items of document %s: %w", documentID, err)
	}
	rows.Close()

	statusQuery := `SELECT status_id, document_id, user_id, status, created_at FROM document_statuses WHERE document_id = $1 ORDER BY created_at, status_id;`
	rows, err = tx.Query(ctx, statusQuery, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses of document %s: %w", documentID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var s models.DocumentStatus
		if err := rows.Scan(&s.StatusID, &s.DocumentID, &s.UserID, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status of document %s: %w", documentID, err)
		}
		doc.Statuses = append(doc.Statuses, domain.StatusEntry{
			StatusID:   s.StatusID,
			DocumentID: s.DocumentID,
			UserID:     s.UserID,
			Status:     domain.DocumentStatus(s.Status),
			CreatedAt:  s.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate statuses of document %s: %w", documentID, err)
	}

	return &doc, nil
}

// AppendStatusInTx appends a status history row and returns its generated ID.
func (r *PgxDocumentRepository) AppendStatusInTx(ctx context.Context, tx pgx.Tx, entry domain.StatusEntry) (int64, error) {
	query := `
		INSERT INTO document_statuses (document_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING status_id;
	`
	var statusID int64
	err := tx.QueryRow(ctx, query, entry.DocumentID, entry.UserID, entry.Status, entry.CreatedAt).Scan(&statusID)
	if err != nil {
		return 0, fmt.Errorf("failed to append status for document %s: %w", entry.DocumentID, err)
	}
	return statusID, nil
}

// SaveApproveRequest inserts an approve request.
func (r *PgxDocumentRepository) SaveApproveRequest(ctx context.Context, req domain.ApproveRequest) error {
	query := `
		INSERT INTO approve_requests (requester_id, approver_id, document_id, approved_at, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, req.RequesterID, req.ApproverID, req.DocumentID, req.ApprovedAt, req.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: approve request already exists for document %s", apperrors.ErrDuplicate, req.DocumentID)
		}
		return fmt.Errorf("failed to save approve request for document %s: %w", req.DocumentID, err)
	}
	return nil
}

// ResolveApproveRequestInTx stamps approved_at on an unresolved request
// within the caller's transaction. No matching pending request is ErrNotFound,
// which rolls back whatever the caller did alongside it.
func (r *PgxDocumentRepository) ResolveApproveRequestInTx(ctx context.Context, tx pgx.Tx, requesterID, approverID, documentID string, approvedAt time.Time) error {
	query := `
		UPDATE approve_requests
		SET approved_at = $4
		WHERE requester_id = $1 AND approver_id = $2 AND document_id = $3 AND approved_at IS NULL;
	`
	tag, err := tx.Exec(ctx, query, requesterID, approverID, documentID, approvedAt)
	if err != nil {
		return fmt.Errorf("failed to resolve approve request for document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: no pending approve request from %s for document %s", apperrors.ErrNotFound, requesterID, documentID)
	}
	return nil
}

// DeleteApproveRequestsForDocument removes all requests for a document.
func (r *PgxDocumentRepository) DeleteApproveRequestsForDocument(ctx context.Context, documentID string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM approve_requests WHERE document_id = $1;`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete approve requests for document %s: %w", documentID, err)
	}
	return nil
}

// prefixColumns qualifies each column in a comma-separated list with a table alias.
func prefixColumns(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}
