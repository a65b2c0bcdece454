package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/domain/port"
)

// UpdateDelayedDaysUseCase is the daily arrears batch: every unpaid,
// past-due installment of every active loan gains one delayed day, and loans
// crossing a class boundary are reclassified through their status.
type UpdateDelayedDaysUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	clock     port.Clock
	logger    *slog.Logger
}

// NewUpdateDelayedDaysUseCase wires dependencies.
func NewUpdateDelayedDaysUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *slog.Logger,
) *UpdateDelayedDaysUseCase {
	return &UpdateDelayedDaysUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Execute runs the batch for one organization, or for every organization
// when req.OrganizationID is empty. A loan failing to save is reported and
// skipped; the run continues.
func (uc *UpdateDelayedDaysUseCase) Execute(ctx context.Context, req dto.UpdateDelayedDaysRequest) (dto.UpdateDelayedDaysResponse, error) {
	today := req.Today
	if today.IsZero() {
		today = uc.clock.Now().UTC()
	}

	resp := dto.UpdateDelayedDaysResponse{}
	for offset := 0; ; offset += batchPageSize {
		loans, err := uc.loanRepo.ListActiveByOrganization(ctx, req.OrganizationID, offset, batchPageSize)
		if err != nil {
			return resp, fmt.Errorf("list active loans: %w", err)
		}
		for _, loan := range loans {
			resp.LoansProcessed++

			updated, accrued := loan.AccrueDailyArrears(today)
			if accrued == 0 {
				continue
			}
			if err := uc.loanRepo.Save(ctx, updated); err != nil {
				uc.logger.Error("save accrued loan", "loan_id", loan.ID(), "error", err)
				resp.Errors = append(resp.Errors, fmt.Sprintf("loan %s: %v", loan.ID(), err))
				continue
			}
			resp.UpdatedSchedules++

			if evts := updated.DomainEvents(); len(evts) > 0 {
				if err := uc.publisher.Publish(ctx, evts...); err != nil {
					uc.logger.Error("publish arrears events", "loan_id", loan.ID(), "error", err)
				}
			}
		}
		if len(loans) < batchPageSize {
			break
		}
	}
	return resp, nil
}
