package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SearchSummary is the serialized summary payload stored alongside a search
// projection.
type SearchSummary struct {
	Number             string          `json:"number"`
	RecipientContactID string          `json:"recipientContactID"`
	ItemCount          int             `json:"itemCount"`
	SubTotalAmount     decimal.Decimal `json:"subTotalAmount"`
	TaxesAmount        decimal.Decimal `json:"taxesAmount"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
}

// SearchDocument is the curated projection of a financial document pushed to
// the secondary search index.
type SearchDocument struct {
	DocumentID    string         `json:"documentID"`
	Kind          DocumentKind   `json:"kind"`
	LocationID    string         `json:"locationID"`
	Status        DocumentStatus `json:"status"`
	VirtualStatus VirtualStatus  `json:"virtualStatus"`
	Date          time.Time      `json:"date"`
	Summary       SearchSummary  `json:"summary"`
}

// SearchProjection builds the index projection for the document. The virtual
// status here must agree with VirtualStatusAt so the index never disagrees
// with the API.
func (d *FinancialDocument) SearchProjection(now time.Time) SearchDocument {
	return SearchDocument{
		DocumentID:    d.DocumentID,
		Kind:          d.Kind,
		LocationID:    d.LocationID,
		Status:        d.LatestStatus(),
		VirtualStatus: d.VirtualStatusAt(now),
		Date:          d.Date,
		Summary: SearchSummary{
			Number:             d.Number,
			RecipientContactID: d.RecipientContactID,
			ItemCount:          len(d.Items),
			SubTotalAmount:     d.SubTotalAmount(),
			TaxesAmount:        d.TaxesAmount(),
			TotalAmount:        d.TotalAmount(),
		},
	}
}
