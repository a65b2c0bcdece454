package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/domain/event"
	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/port"
	"github.com/umojafin/lms/internal/domain/service"
)

// DefaultDuplicateWindow is how far around a payment's date the duplicate
// guard looks for similar active payments.
const DefaultDuplicateWindow = 24 * time.Hour

// DefaultDuplicateTolerance is the amount band of the duplicate guard, as a
// fraction of the earlier payment.
var DefaultDuplicateTolerance = decimal.NewFromFloat(0.05)

// ProcessPaymentUseCase allocates one repayment against a loan's schedule,
// records the ledger entry, and reclassifies the loan when its status moves.
// The loan row is locked for the duration of the unit of work, so concurrent
// payments against the same loan serialize.
type ProcessPaymentUseCase struct {
	loanRepo           port.LoanRepository
	txRepo             port.TransactionRepository
	classificationRepo port.ClassificationRepository
	allocator          *service.PaymentAllocator
	classifier         *service.LoanClassifier
	collateral         port.CollateralValuer
	files              port.FileStore
	uow                port.UnitOfWork
	publisher          port.EventPublisher
	clock              port.Clock
	logger             *slog.Logger
	duplicateWindow    time.Duration
	duplicateTolerance decimal.Decimal
}

// NewProcessPaymentUseCase wires dependencies. Non-positive duplicate-guard
// settings fall back to the defaults.
func NewProcessPaymentUseCase(
	loanRepo port.LoanRepository,
	txRepo port.TransactionRepository,
	classificationRepo port.ClassificationRepository,
	allocator *service.PaymentAllocator,
	classifier *service.LoanClassifier,
	collateral port.CollateralValuer,
	files port.FileStore,
	uow port.UnitOfWork,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *slog.Logger,
	duplicateWindow time.Duration,
	duplicateTolerance decimal.Decimal,
) *ProcessPaymentUseCase {
	if duplicateWindow <= 0 {
		duplicateWindow = DefaultDuplicateWindow
	}
	if duplicateTolerance.LessThanOrEqual(decimal.Zero) {
		duplicateTolerance = DefaultDuplicateTolerance
	}
	return &ProcessPaymentUseCase{
		loanRepo:           loanRepo,
		txRepo:             txRepo,
		classificationRepo: classificationRepo,
		allocator:          allocator,
		classifier:         classifier,
		collateral:         collateral,
		files:              files,
		uow:                uow,
		publisher:          publisher,
		clock:              clock,
		logger:             logger,
		duplicateWindow:    duplicateWindow,
		duplicateTolerance: duplicateTolerance,
	}
}

// Execute processes one payment end to end. The duplicate guard rejects a
// payment whose amount lies within the tolerance band of an active payment on
// the same loan inside the window, unless the request is forced.
func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, req dto.ProcessPaymentRequest) (dto.PaymentResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return dto.PaymentResponse{}, fmt.Errorf("%w: payment amount must be positive", model.ErrValidation)
	}
	now := uc.clock.Now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	if !req.Force {
		if err := uc.guardDuplicate(ctx, req.LoanID, req.Amount, date); err != nil {
			return dto.PaymentResponse{}, err
		}
	}

	proofURL := req.ProofURL
	if len(req.ProofData) > 0 {
		name := req.ProofName
		if name == "" {
			name = fmt.Sprintf("proof-%s-%d", req.LoanID, date.Unix())
		}
		url, err := uc.files.Store(ctx, name, req.ProofData)
		if err != nil {
			return dto.PaymentResponse{}, fmt.Errorf("store payment proof: %w", err)
		}
		proofURL = url
	}

	var (
		loan   model.Loan
		tx     model.Transaction
		result service.AllocationResult
	)
	err := uc.uow.Execute(ctx, func(ctx context.Context) error {
		found, err := uc.loanRepo.FindByIDForUpdate(ctx, req.OrganizationID, req.LoanID)
		if err != nil {
			return fmt.Errorf("find loan: %w", err)
		}

		updated, allocation, statusChanged, err := uc.allocator.Allocate(found, req.Amount, date)
		if err != nil {
			return err
		}

		entry := model.NewTransaction(
			req.OrganizationID, req.LoanID,
			req.Amount, date, req.Method,
			allocation.PrincipalPaid, allocation.InterestPaid, allocation.PenaltyPaid,
			allocation.Lines,
			proofURL, req.Notes,
			now,
		)
		if err := uc.txRepo.Save(ctx, entry); err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}
		if err := uc.loanRepo.Save(ctx, updated); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}

		if statusChanged {
			if err := uc.reclassify(ctx, updated, date, now); err != nil {
				return err
			}
		}

		loan, tx, result = updated, entry, allocation
		return nil
	})
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	uc.publish(ctx, loan, tx)

	resp := dto.PaymentResponse{
		TransactionID:        tx.ID,
		LoanID:               loan.ID(),
		Amount:               req.Amount,
		PrincipalPaid:        result.PrincipalPaid,
		InterestPaid:         result.InterestPaid,
		PenaltyPaid:          result.PenaltyPaid,
		ExcessAmount:         result.RemainingAmount,
		OutstandingPrincipal: loan.OutstandingPrincipal(),
		LoanStatus:           loan.Status().String(),
		DaysInArrears:        loan.DaysInArrears(),
	}
	for _, line := range result.Lines {
		resp.Lines = append(resp.Lines, dto.AllocationLineResponse{
			InstallmentNumber: line.InstallmentNumber,
			Principal:         line.Principal,
			Interest:          line.Interest,
			Penalty:           line.Penalty,
		})
	}
	return resp, nil
}

func (uc *ProcessPaymentUseCase) guardDuplicate(ctx context.Context, loanID string, amount decimal.Decimal, date time.Time) error {
	recent, err := uc.txRepo.FindActiveByLoanAround(ctx, loanID, date, uc.duplicateWindow)
	if err != nil {
		return fmt.Errorf("check duplicates: %w", err)
	}
	for _, prior := range recent {
		if prior.MatchesDuplicate(amount, date, uc.duplicateTolerance, uc.duplicateWindow) {
			return fmt.Errorf("%w: similar payment %s recorded at %s",
				model.ErrDuplicatePayment, prior.ID, prior.Date.Format(time.RFC3339))
		}
	}
	return nil
}

// reclassify writes a fresh provisioning record inside the payment's
// transaction so the status change and its provision impact commit together.
func (uc *ProcessPaymentUseCase) reclassify(ctx context.Context, loan model.Loan, asOf, now time.Time) error {
	collateral, err := uc.collateral.EffectiveValue(ctx, loan.OrganizationID(), loan.ID())
	if err != nil {
		return fmt.Errorf("value collateral: %w", err)
	}
	previousHeld := decimal.Zero
	if latest, err := uc.classificationRepo.FindLatestByLoan(ctx, loan.ID()); err == nil {
		previousHeld = latest.ProvisionRequired
	} else if !errors.Is(err, model.ErrClassificationNotFound) {
		return fmt.Errorf("find latest classification: %w", err)
	}

	record := uc.classifier.Classify(loan, collateral, previousHeld, asOf, now)
	if err := uc.classificationRepo.Save(ctx, record); err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	return nil
}

func (uc *ProcessPaymentUseCase) publish(ctx context.Context, loan model.Loan, tx model.Transaction) {
	evts := append([]event.DomainEvent{}, loan.DomainEvents()...)
	evts = append(evts, event.NewPaymentProcessed(
		loan.ID(), loan.OrganizationID(), tx.ID,
		tx.Amount, tx.PrincipalPaid, tx.InterestPaid, tx.PenaltyPaid,
		loan.OutstandingPrincipal(), loan.Status().String(),
	))
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		uc.logger.Error("publish payment events", "loan_id", loan.ID(), "transaction_id", tx.ID, "error", err)
	}
}
