package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/port"
	"github.com/umojafin/lms/internal/domain/service"
)

// ClassifyLoanUseCase classifies a single loan and writes its provisioning
// record.
type ClassifyLoanUseCase struct {
	loanRepo           port.LoanRepository
	classificationRepo port.ClassificationRepository
	classifier         *service.LoanClassifier
	collateral         port.CollateralValuer
	clock              port.Clock
}

// NewClassifyLoanUseCase wires dependencies.
func NewClassifyLoanUseCase(
	loanRepo port.LoanRepository,
	classificationRepo port.ClassificationRepository,
	classifier *service.LoanClassifier,
	collateral port.CollateralValuer,
	clock port.Clock,
) *ClassifyLoanUseCase {
	return &ClassifyLoanUseCase{
		loanRepo:           loanRepo,
		classificationRepo: classificationRepo,
		classifier:         classifier,
		collateral:         collateral,
		clock:              clock,
	}
}

// Execute classifies the loan as of req.AsOf (defaulting to now) and persists
// the record.
func (uc *ClassifyLoanUseCase) Execute(ctx context.Context, req dto.ClassifyLoanRequest) (dto.ClassificationResponse, error) {
	now := uc.clock.Now().UTC()
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = now
	}

	loan, err := uc.loanRepo.FindByID(ctx, req.OrganizationID, req.LoanID)
	if err != nil {
		return dto.ClassificationResponse{}, fmt.Errorf("find loan: %w", err)
	}

	collateral, err := uc.collateral.EffectiveValue(ctx, req.OrganizationID, loan.ID())
	if err != nil {
		return dto.ClassificationResponse{}, fmt.Errorf("value collateral: %w", err)
	}

	previousHeld := decimal.Zero
	latest, err := uc.classificationRepo.FindLatestByLoan(ctx, loan.ID())
	switch {
	case err == nil:
		previousHeld = latest.ProvisionRequired
	case !errors.Is(err, model.ErrClassificationNotFound):
		return dto.ClassificationResponse{}, fmt.Errorf("find latest classification: %w", err)
	}

	record := uc.classifier.Classify(loan, collateral, previousHeld, asOf, now)
	if err := uc.classificationRepo.Save(ctx, record); err != nil {
		return dto.ClassificationResponse{}, fmt.Errorf("save classification: %w", err)
	}
	return toClassificationResponse(record), nil
}
