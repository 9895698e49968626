package services

import (
	"context"
	"errors"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/core/ports/platform"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
)

const sweepLockKey = "lock-sweep"
const sweepLockTTL = 5 * time.Minute

// lockSweepSvc runs the end-of-period sweep that makes dated documents
// immutable. The sweep is idempotent: MarkLocked only touches unlocked rows,
// so overlapping runs lock each document exactly once.
type lockSweepSvc struct {
	documentRepo     portsrepo.DocumentRepositoryWithTx
	organizationRepo portsrepo.OrganizationRepositoryFacade
	locker           platform.DistributedLocker
	dispatcher       platform.EventDispatcher
}

// NewLockSweepService creates the sweep service.
func NewLockSweepService(repos portsrepo.RepositoryProvider, locker platform.DistributedLocker, dispatcher platform.EventDispatcher) portssvc.LockSweepSvc {
	return &lockSweepSvc{
		documentRepo:     repos.DocumentRepo,
		organizationRepo: repos.OrganizationRepo,
		locker:           locker,
		dispatcher:       dispatcher,
	}
}

var _ portssvc.LockSweepSvc = (*lockSweepSvc)(nil)

// RunLockSweep locks every eligible document for organizations whose lock day
// matches now. Returns the number of documents locked. When another instance
// holds the sweep lock, the run is skipped and reports zero.
func (s *lockSweepSvc) RunLockSweep(ctx context.Context, now time.Time) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	release, err := s.locker.Obtain(ctx, sweepLockKey, sweepLockTTL)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Info("Lock sweep already running elsewhere, skipping")
			return 0, nil
		}
		return 0, err
	}
	defer func() {
		if err := release(ctx); err != nil {
			logger.Warn("Failed to release sweep lock", "error", err)
		}
	}()

	// Cheap early-out when no organization locks today.
	orgs, err := s.organizationRepo.ListOrganizationsWithLockDay(ctx, now.Day())
	if err != nil {
		return 0, err
	}
	if len(orgs) == 0 {
		return 0, nil
	}

	candidates, err := s.documentRepo.ListLockCandidates(ctx, now)
	if err != nil {
		return 0, err
	}

	locked := 0
	for i := range candidates {
		doc := &candidates[i]
		changed, err := s.documentRepo.MarkLocked(ctx, doc.DocumentID, now)
		if err != nil {
			logger.Error("Failed to lock document", "document_id", doc.DocumentID, "error", err)
			continue
		}
		if !changed {
			// Another run got there first.
			continue
		}
		locked++
		s.dispatcher.Dispatch(ctx, domain.Event{
			Kind:         domain.EventDocumentLocked,
			DocumentKind: doc.Kind,
			DocumentID:   doc.DocumentID,
			JobID:        doc.JobID,
			OccurredAt:   now,
		})
	}

	logger.Info("Lock sweep finished", "candidates", len(candidates), "locked", locked)
	return locked, nil
}
