package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/domain/event"
	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/port"
)

// ReverseTransactionUseCase undoes a processed payment: it posts an
// offsetting ledger entry, deactivates the original, and backs the allocation
// out of the loan's schedule in one unit of work.
type ReverseTransactionUseCase struct {
	loanRepo  port.LoanRepository
	txRepo    port.TransactionRepository
	uow       port.UnitOfWork
	publisher port.EventPublisher
	clock     port.Clock
	logger    *slog.Logger
}

// NewReverseTransactionUseCase wires dependencies.
func NewReverseTransactionUseCase(
	loanRepo port.LoanRepository,
	txRepo port.TransactionRepository,
	uow port.UnitOfWork,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *slog.Logger,
) *ReverseTransactionUseCase {
	return &ReverseTransactionUseCase{
		loanRepo:  loanRepo,
		txRepo:    txRepo,
		uow:       uow,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Execute reverses the transaction named by req.
func (uc *ReverseTransactionUseCase) Execute(ctx context.Context, req dto.ReverseTransactionRequest) (dto.ReversalResponse, error) {
	if req.Reason == "" {
		return dto.ReversalResponse{}, fmt.Errorf("%w: reversal reason is required", model.ErrValidation)
	}
	now := uc.clock.Now().UTC()

	var (
		loan     model.Loan
		reversal model.Transaction
	)
	err := uc.uow.Execute(ctx, func(ctx context.Context) error {
		original, err := uc.txRepo.FindByID(ctx, req.OrganizationID, req.TransactionID)
		if err != nil {
			return fmt.Errorf("find transaction: %w", err)
		}

		found, err := uc.loanRepo.FindByIDForUpdate(ctx, req.OrganizationID, original.LoanID)
		if err != nil {
			return fmt.Errorf("find loan: %w", err)
		}

		reverted, err := found.ApplyReversal(original, now)
		if err != nil {
			return err
		}
		entry, err := original.Reverse(req.Reason, now)
		if err != nil {
			return err
		}

		if err := uc.txRepo.Save(ctx, entry); err != nil {
			return fmt.Errorf("save reversal: %w", err)
		}
		if err := uc.txRepo.Deactivate(ctx, original.ID, req.Reason); err != nil {
			return fmt.Errorf("deactivate original: %w", err)
		}
		if err := uc.loanRepo.Save(ctx, reverted); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}

		loan, reversal = reverted, entry
		return nil
	})
	if err != nil {
		return dto.ReversalResponse{}, err
	}

	evts := append([]event.DomainEvent{}, loan.DomainEvents()...)
	evts = append(evts, event.NewPaymentReversed(
		loan.ID(), loan.OrganizationID(), reversal.ReversalOf, reversal.ID,
		reversal.Amount.Abs(), req.Reason,
	))
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		uc.logger.Error("publish reversal events", "loan_id", loan.ID(), "reversal_id", reversal.ID, "error", err)
	}

	return dto.ReversalResponse{
		ReversalID:           reversal.ID,
		OriginalID:           reversal.ReversalOf,
		LoanID:               loan.ID(),
		Amount:               reversal.Amount.Abs(),
		OutstandingPrincipal: loan.OutstandingPrincipal(),
		LoanStatus:           loan.Status().String(),
	}, nil
}
