package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/umojafin/lms/internal/application/usecase"
	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

// LoanHandler implements LoanServiceServer on top of the application use
// cases, translating domain errors into gRPC status codes.
type LoanHandler struct {
	UnimplementedLoanServiceServer

	disburse      *usecase.DisburseLoanUseCase
	getLoan       *usecase.GetLoanUseCase
	payment       *usecase.ProcessPaymentUseCase
	reversal      *usecase.ReverseTransactionUseCase
	classify      *usecase.ClassifyLoanUseCase
	batchClassify *usecase.BatchClassifyUseCase
	delayedDays   *usecase.UpdateDelayedDaysUseCase
	snapshot      *usecase.CreateSnapshotUseCase
}

// NewLoanHandler creates a new handler with all use-case dependencies.
func NewLoanHandler(
	disburse *usecase.DisburseLoanUseCase,
	getLoan *usecase.GetLoanUseCase,
	payment *usecase.ProcessPaymentUseCase,
	reversal *usecase.ReverseTransactionUseCase,
	classify *usecase.ClassifyLoanUseCase,
	batchClassify *usecase.BatchClassifyUseCase,
	delayedDays *usecase.UpdateDelayedDaysUseCase,
	snapshot *usecase.CreateSnapshotUseCase,
) *LoanHandler {
	return &LoanHandler{
		disburse:      disburse,
		getLoan:       getLoan,
		payment:       payment,
		reversal:      reversal,
		classify:      classify,
		batchClassify: batchClassify,
		delayedDays:   delayedDays,
		snapshot:      snapshot,
	}
}

// DisburseLoan disburses a loan and generates its repayment schedule.
func (h *LoanHandler) DisburseLoan(ctx context.Context, req *DisburseLoanRequest) (*DisburseLoanResponse, error) {
	resp, err := h.disburse.Execute(ctx, *req)
	if err != nil {
		return nil, mapError(err)
	}
	return &resp, nil
}

// GetLoan retrieves a loan by ID.
func (h *LoanHandler) GetLoan(ctx context.Context, req *GetLoanRequest) (*GetLoanResponse, error) {
	resp, err := h.getLoan.Execute(ctx, *req)
	if err != nil {
		return nil, mapError(err)
	}
	return &resp, nil
}

// ProcessPayment allocates a repayment against a loan.
func (h *LoanHandler) ProcessPayment(ctx context.Context, req *ProcessPaymentRequest) (*ProcessPaymentResponse, error) {
	resp, err := h.payment.Execute(ctx, *req)
	paymentsProcessed.WithLabelValues(paymentOutcome(err)).Inc()
	if err != nil {
		return nil, mapError(err)
	}
	return &resp, nil
}

// ReverseTransaction undoes a processed payment with an offsetting entry.
func (h *LoanHandler) ReverseTransaction(ctx context.Context, req *ReverseTransactionRequest) (*ReverseTransactionResponse, error) {
	resp, err := h.reversal.Execute(ctx, *req)
	if err != nil {
		return nil, mapError(err)
	}
	transactionsReversed.Inc()
	return &resp, nil
}

// ClassifyLoan classifies one loan and records its provisioning.
func (h *LoanHandler) ClassifyLoan(ctx context.Context, req *ClassifyLoanRequest) (*ClassifyLoanResponse, error) {
	resp, err := h.classify.Execute(ctx, *req)
	if err != nil {
		return nil, mapError(err)
	}
	loansClassified.Inc()
	return &resp, nil
}

// BatchClassify classifies an organization's active portfolio.
func (h *LoanHandler) BatchClassify(ctx context.Context, req *BatchClassifyRequest) (*BatchClassifyResponse, error) {
	resp, err := h.batchClassify.Execute(ctx, *req)
	if err != nil {
		return nil, mapError(err)
	}
	loansClassified.Add(float64(resp.LoansProcessed))
	return &resp, nil
}

// UpdateDelayedDays runs the daily arrears batch.
func (h *LoanHandler) UpdateDelayedDays(ctx context.Context, req *UpdateDelayedDaysRequest) (*UpdateDelayedDaysResponse, error) {
	resp, err := h.delayedDays.Execute(ctx, *req)
	if err != nil {
		return nil, mapError(err)
	}
	return &resp, nil
}

// CreateSnapshot builds the daily portfolio snapshot.
func (h *LoanHandler) CreateSnapshot(ctx context.Context, req *CreateSnapshotRequest) (*CreateSnapshotResponse, error) {
	resp, err := h.snapshot.Execute(ctx, *req)
	if err != nil {
		return nil, mapError(err)
	}
	return &resp, nil
}

// mapError translates domain sentinel errors into gRPC status codes.
func mapError(err error) error {
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrNoSchedule):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrLoanNotFound),
		errors.Is(err, model.ErrTransactionNotFound),
		errors.Is(err, model.ErrClassificationNotFound),
		errors.Is(err, model.ErrSnapshotNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrDuplicatePayment):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, model.ErrAlreadyReversed),
		errors.Is(err, valueobject.ErrInvalidStatusTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
