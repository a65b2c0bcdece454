package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/port"
	"github.com/umojafin/lms/internal/domain/service"
)

// batchPageSize is how many loans the batch jobs pull per repository page.
const batchPageSize = 100

// BatchClassifyUseCase classifies every active loan of an organization. One
// loan failing does not stop the run; failures are collected and reported.
type BatchClassifyUseCase struct {
	loanRepo           port.LoanRepository
	classificationRepo port.ClassificationRepository
	classifier         *service.LoanClassifier
	collateral         port.CollateralValuer
	publisher          port.EventPublisher
	clock              port.Clock
	logger             *slog.Logger
}

// NewBatchClassifyUseCase wires dependencies.
func NewBatchClassifyUseCase(
	loanRepo port.LoanRepository,
	classificationRepo port.ClassificationRepository,
	classifier *service.LoanClassifier,
	collateral port.CollateralValuer,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *slog.Logger,
) *BatchClassifyUseCase {
	return &BatchClassifyUseCase{
		loanRepo:           loanRepo,
		classificationRepo: classificationRepo,
		classifier:         classifier,
		collateral:         collateral,
		publisher:          publisher,
		clock:              clock,
		logger:             logger,
	}
}

// Execute classifies the active portfolio. Every loan's stored status and
// days-in-arrears refresh from the schedule each run; a new provisioning
// record is written only when the stored status moved, so the classification
// history stays a log of transitions rather than a daily copy.
func (uc *BatchClassifyUseCase) Execute(ctx context.Context, req dto.BatchClassifyRequest) (dto.BatchClassifyResponse, error) {
	now := uc.clock.Now().UTC()
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = now
	}

	resp := dto.BatchClassifyResponse{}
	for offset := 0; ; offset += batchPageSize {
		loans, err := uc.loanRepo.ListActiveByOrganization(ctx, req.OrganizationID, offset, batchPageSize)
		if err != nil {
			return resp, fmt.Errorf("list active loans: %w", err)
		}
		for _, loan := range loans {
			resp.LoansProcessed++
			changed, err := uc.classifyOne(ctx, loan, asOf, now)
			if err != nil {
				uc.logger.Error("classify loan", "loan_id", loan.ID(), "error", err)
				resp.Errors = append(resp.Errors, fmt.Sprintf("loan %s: %v", loan.ID(), err))
				continue
			}
			if changed {
				resp.Reclassified++
			}
		}
		if len(loans) < batchPageSize {
			break
		}
	}
	return resp, nil
}

func (uc *BatchClassifyUseCase) classifyOne(ctx context.Context, loan model.Loan, asOf, now time.Time) (bool, error) {
	collateral, err := uc.collateral.EffectiveValue(ctx, loan.OrganizationID(), loan.ID())
	if err != nil {
		return false, fmt.Errorf("value collateral: %w", err)
	}

	// The stored aggregate refreshes on every run, even when the status
	// holds, so status and days in arrears never lag the schedule.
	updated, statusChanged := loan.Reclassify(asOf, now)
	if err := uc.loanRepo.Save(ctx, updated); err != nil {
		return false, fmt.Errorf("save loan: %w", err)
	}
	if evts := updated.DomainEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.Error("publish reclassification events", "loan_id", loan.ID(), "error", err)
		}
	}

	previousHeld := decimal.Zero
	hasPrior := false
	latest, err := uc.classificationRepo.FindLatestByLoan(ctx, loan.ID())
	switch {
	case err == nil:
		previousHeld = latest.ProvisionRequired
		hasPrior = true
	case !errors.Is(err, model.ErrClassificationNotFound):
		return false, fmt.Errorf("find latest classification: %w", err)
	}

	if hasPrior && !statusChanged {
		return false, nil
	}

	record := uc.classifier.Classify(updated, collateral, previousHeld, asOf, now)
	if err := uc.classificationRepo.Save(ctx, record); err != nil {
		return false, fmt.Errorf("save classification: %w", err)
	}
	return true, nil
}
