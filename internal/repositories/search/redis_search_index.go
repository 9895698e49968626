// Package search holds the secondary search projection adapter.
package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/core/ports/platform"
	"github.com/redis/go-redis/v9"
)

// RedisSearchIndex keeps document projections in Redis: the serialized
// projection under a per-document key plus a per-kind set for enumeration.
type RedisSearchIndex struct {
	client *redis.Client
}

// NewRedisSearchIndex creates the search projection adapter.
func NewRedisSearchIndex(client *redis.Client) *RedisSearchIndex {
	return &RedisSearchIndex{client: client}
}

var _ platform.SearchIndexer = (*RedisSearchIndex)(nil)

func documentKey(documentID string) string {
	return "search:document:" + documentID
}

func kindSetKey(kind domain.DocumentKind) string {
	return "search:kind:" + string(kind)
}

// IndexDocument upserts the search projection of a document.
func (s *RedisSearchIndex) IndexDocument(ctx context.Context, doc domain.SearchDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal search projection of %s: %w", doc.DocumentID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, documentKey(doc.DocumentID), payload, 0)
	pipe.SAdd(ctx, kindSetKey(doc.Kind), doc.DocumentID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index document %s: %w", doc.DocumentID, err)
	}
	return nil
}

// RemoveDocument deletes a document from the projection. The document ID is
// removed from every kind set since the kind is not known at delete time.
func (s *RedisSearchIndex) RemoveDocument(ctx context.Context, documentID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, documentKey(documentID))
	for _, kind := range []domain.DocumentKind{domain.KindInvoice, domain.KindPurchaseOrder, domain.KindCreditNote} {
		pipe.SRem(ctx, kindSetKey(kind), documentID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove document %s from index: %w", documentID, err)
	}
	return nil
}
