package services

import (
	"context"
	"fmt"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/xuri/excelize/v2"
)

// exportPageSize bounds each repository read while streaming a full export.
const exportPageSize = 500

type reportingSvc struct {
	documentRepo portsrepo.DocumentReader
}

// NewReportingService creates the spreadsheet export service.
func NewReportingService(repos portsrepo.RepositoryProvider) portssvc.ReportingSvcFacade {
	return &reportingSvc{documentRepo: repos.DocumentRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingSvc)(nil)

// ExportDocumentsXLSX renders all documents of one kind into an XLSX workbook.
func (s *reportingSvc) ExportDocumentsXLSX(ctx context.Context, kind domain.DocumentKind) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Number", "Date", "Status", "Subtotal", "Taxes", "Total", "Amount Due", "Locked At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	row := 2
	var nextToken *string
	for {
		docs, token, err := s.documentRepo.ListDocuments(ctx, kind, exportPageSize, nextToken)
		if err != nil {
			return nil, err
		}
		for i := range docs {
			doc := &docs[i]
			lockedAt := ""
			if doc.LockedAt != nil {
				lockedAt = doc.LockedAt.Format(time.RFC3339)
			}
			values := []any{
				doc.Number,
				doc.Date.Format("2006-01-02"),
				string(doc.VirtualStatusAt(now)),
				doc.SubTotalAmount().StringFixed(2),
				doc.TaxesAmount().StringFixed(2),
				doc.TotalAmount().StringFixed(2),
				doc.AmountDue().StringFixed(2),
				lockedAt,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
			row++
		}
		if token == nil {
			break
		}
		nextToken = token
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
