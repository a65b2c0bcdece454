package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/domain/event"
	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/port"
	"github.com/umojafin/lms/internal/domain/service"
)

// CreateSnapshotUseCase builds the daily portfolio snapshot for an
// organization. Idempotent per day: when a snapshot already exists for the
// date, it is returned unchanged and nothing is written.
type CreateSnapshotUseCase struct {
	loanRepo           port.LoanRepository
	classificationRepo port.ClassificationRepository
	snapshotRepo       port.SnapshotRepository
	aggregator         *service.PortfolioAggregator
	publisher          port.EventPublisher
	clock              port.Clock
	logger             *slog.Logger
}

// NewCreateSnapshotUseCase wires dependencies.
func NewCreateSnapshotUseCase(
	loanRepo port.LoanRepository,
	classificationRepo port.ClassificationRepository,
	snapshotRepo port.SnapshotRepository,
	aggregator *service.PortfolioAggregator,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *slog.Logger,
) *CreateSnapshotUseCase {
	return &CreateSnapshotUseCase{
		loanRepo:           loanRepo,
		classificationRepo: classificationRepo,
		snapshotRepo:       snapshotRepo,
		aggregator:         aggregator,
		publisher:          publisher,
		clock:              clock,
		logger:             logger,
	}
}

// Execute builds and persists the snapshot for req.Date (defaulting to
// today).
func (uc *CreateSnapshotUseCase) Execute(ctx context.Context, req dto.CreateSnapshotRequest) (dto.SnapshotResponse, error) {
	now := uc.clock.Now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	existing, found, err := uc.snapshotRepo.FindByOrganizationAndDate(ctx, req.OrganizationID, date)
	if err != nil {
		return dto.SnapshotResponse{}, fmt.Errorf("find snapshot: %w", err)
	}
	if found {
		return toSnapshotResponse(existing, true), nil
	}

	var loans []model.Loan
	classifications := make(map[string]model.Classification)
	for offset := 0; ; offset += batchPageSize {
		page, err := uc.loanRepo.ListActiveByOrganization(ctx, req.OrganizationID, offset, batchPageSize)
		if err != nil {
			return dto.SnapshotResponse{}, fmt.Errorf("list active loans: %w", err)
		}
		loans = append(loans, page...)
		for _, loan := range page {
			latest, err := uc.classificationRepo.FindLatestByLoan(ctx, loan.ID())
			if err != nil {
				if errors.Is(err, model.ErrClassificationNotFound) {
					continue
				}
				return dto.SnapshotResponse{}, fmt.Errorf("find latest classification: %w", err)
			}
			classifications[loan.ID()] = latest
		}
		if len(page) < batchPageSize {
			break
		}
	}

	snapshot := uc.aggregator.BuildSnapshot(req.OrganizationID, date, now, loans, classifications)
	if err := uc.snapshotRepo.Save(ctx, snapshot); err != nil {
		return dto.SnapshotResponse{}, fmt.Errorf("save snapshot: %w", err)
	}

	evt := event.NewSnapshotCreated(
		snapshot.ID, req.OrganizationID, date,
		snapshot.TotalLoans, snapshot.TotalOutstanding, snapshot.TotalProvisions,
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.Error("publish snapshot event", "snapshot_id", snapshot.ID, "error", err)
	}

	return toSnapshotResponse(snapshot, false), nil
}
