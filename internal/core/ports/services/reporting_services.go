package services

import (
	"context"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
)

// ReportingSvcFacade defines spreadsheet export operations.
type ReportingSvcFacade interface {
	// ExportDocumentsXLSX renders all documents of one kind into an XLSX
	// workbook and returns the serialized bytes.
	ExportDocumentsXLSX(ctx context.Context, kind domain.DocumentKind) ([]byte, error)
}
