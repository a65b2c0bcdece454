package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/port"
	"github.com/umojafin/lms/internal/domain/service"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

// DisburseLoanUseCase disburses a loan: it fixes the commercial terms,
// generates the repayment schedule for the requested modality, and persists
// the aggregate. Disbursing an existing loan again regenerates the schedule
// wholesale.
type DisburseLoanUseCase struct {
	loanRepo  port.LoanRepository
	generator *service.ScheduleGenerator
	publisher port.EventPublisher
	clock     port.Clock
	logger    *slog.Logger
}

// NewDisburseLoanUseCase wires dependencies.
func NewDisburseLoanUseCase(
	loanRepo port.LoanRepository,
	generator *service.ScheduleGenerator,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *slog.Logger,
) *DisburseLoanUseCase {
	return &DisburseLoanUseCase{
		loanRepo:  loanRepo,
		generator: generator,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Execute disburses the loan described by req and returns it with its full
// schedule.
func (uc *DisburseLoanUseCase) Execute(ctx context.Context, req dto.DisburseLoanRequest) (dto.LoanResponse, error) {
	now := uc.clock.Now().UTC()

	terms, err := uc.buildTerms(req)
	if err != nil {
		return dto.LoanResponse{}, err
	}

	params := service.ScheduleParams{
		DisbursedAt:         now,
		SinglePaymentMonths: req.SinglePaymentMonths,
	}
	for _, line := range req.CustomInstallments {
		params.CustomLines = append(params.CustomLines, service.CustomInstallment{
			Number:    line.Number,
			DueDate:   line.DueDate,
			Amount:    line.Amount,
			Principal: line.Principal,
			Interest:  line.Interest,
		})
	}

	schedule, err := uc.generator.Generate(terms, params)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("generate schedule: %w", err)
	}

	var loan model.Loan
	if req.LoanID != "" {
		existing, err := uc.loanRepo.FindByID(ctx, req.OrganizationID, req.LoanID)
		if err != nil {
			return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
		}
		loan, err = existing.ReplaceSchedule(schedule, now)
		if err != nil {
			return dto.LoanResponse{}, fmt.Errorf("replace schedule: %w", err)
		}
	} else {
		loan, err = model.NewDisbursedLoan(req.OrganizationID, req.BorrowerID, terms, schedule, now)
		if err != nil {
			return dto.LoanResponse{}, err
		}
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		uc.logger.Error("publish disbursement events", "loan_id", loan.ID(), "error", err)
	}

	return toLoanResponse(loan, true), nil
}

// buildTerms normalizes the free-form frequency and interest-method strings
// and validates the modality. Unknown frequency or method values fall back to
// defaults with a warning rather than failing the disbursement; legacy
// product configurations carry arbitrary strings in these fields.
func (uc *DisburseLoanUseCase) buildTerms(req dto.DisburseLoanRequest) (model.LoanTerms, error) {
	frequency, fellBack := valueobject.NormalizeRepaymentFrequency(req.Frequency)
	if fellBack {
		uc.logger.Warn("unknown repayment frequency, defaulting to monthly",
			"organization_id", req.OrganizationID, "frequency", req.Frequency)
	}
	method, fellBack := valueobject.NormalizeInterestMethod(req.InterestMethod)
	if fellBack {
		uc.logger.Warn("unknown interest method, defaulting to flat",
			"organization_id", req.OrganizationID, "interest_method", req.InterestMethod)
	}
	modality, err := valueobject.NewRepaymentModality(req.Modality)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}

	return model.LoanTerms{
		Principal:       req.Principal,
		Currency:        req.Currency,
		AnnualRate:      req.AnnualRate,
		TermMonths:      req.TermMonths,
		Frequency:       frequency,
		InterestMethod:  method,
		Modality:        modality,
		DisbursementFee: req.DisbursementFee,
	}, nil
}
