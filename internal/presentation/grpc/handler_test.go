package grpc_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/umojafin/lms/internal/application/usecase"
	"github.com/umojafin/lms/internal/domain/event"
	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/service"
	grpcPresentation "github.com/umojafin/lms/internal/presentation/grpc"
	"github.com/umojafin/lms/pkg/testutil"
)

type fakeLoanRepository struct {
	saveFunc     func(ctx context.Context, loan model.Loan) error
	findByIDFunc func(ctx context.Context, organizationID, id string) (model.Loan, error)
}

func (r *fakeLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	if r.saveFunc != nil {
		return r.saveFunc(ctx, loan)
	}
	return nil
}

func (r *fakeLoanRepository) FindByID(ctx context.Context, organizationID, id string) (model.Loan, error) {
	if r.findByIDFunc != nil {
		return r.findByIDFunc(ctx, organizationID, id)
	}
	return model.Loan{}, model.ErrLoanNotFound
}

func (r *fakeLoanRepository) FindByIDForUpdate(ctx context.Context, organizationID, id string) (model.Loan, error) {
	return r.FindByID(ctx, organizationID, id)
}

func (r *fakeLoanRepository) ListActiveByOrganization(context.Context, string, int, int) ([]model.Loan, error) {
	return nil, nil
}

type fakePublisher struct{}

func (fakePublisher) Publish(context.Context, ...event.DomainEvent) error { return nil }

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

func newTestHandler(repo *fakeLoanRepository) *grpcPresentation.LoanHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	generator := service.NewScheduleGenerator(logger, decimal.Zero)

	disburse := usecase.NewDisburseLoanUseCase(repo, generator, fakePublisher{}, clock, logger)
	getLoan := usecase.NewGetLoanUseCase(repo)

	return grpcPresentation.NewLoanHandler(disburse, getLoan, nil, nil, nil, nil, nil, nil)
}

func TestLoanHandler_DisburseLoan(t *testing.T) {
	t.Run("disburses and returns the schedule", func(t *testing.T) {
		var saved model.Loan
		repo := &fakeLoanRepository{
			saveFunc: func(_ context.Context, loan model.Loan) error {
				saved = loan
				return nil
			},
		}
		handler := newTestHandler(repo)

		resp, err := handler.DisburseLoan(context.Background(), &grpcPresentation.DisburseLoanRequest{
			OrganizationID: testutil.TestOrganizationID.String(),
			BorrowerID:     testutil.TestBorrowerID.String(),
			Principal:      decimal.NewFromInt(100_000),
			Currency:       "KES",
			AnnualRate:     decimal.NewFromInt(12),
			TermMonths:     12,
			Frequency:      "MONTHLY",
			InterestMethod: "FLAT",
			Modality:       "STANDARD",
		})
		require.NoError(t, err)

		assert.Equal(t, saved.ID(), resp.ID)
		assert.Equal(t, "DISBURSED", resp.Status)
		require.Len(t, resp.Schedule, 12)
	})

	t.Run("maps validation failures to InvalidArgument", func(t *testing.T) {
		handler := newTestHandler(&fakeLoanRepository{})

		_, err := handler.DisburseLoan(context.Background(), &grpcPresentation.DisburseLoanRequest{
			OrganizationID: testutil.TestOrganizationID.String(),
			BorrowerID:     testutil.TestBorrowerID.String(),
			Principal:      decimal.NewFromInt(100_000),
			Currency:       "KES",
			AnnualRate:     decimal.NewFromInt(12),
			TermMonths:     12,
			Modality:       "BALLOON",
		})
		require.Error(t, err)

		st, ok := status.FromError(err)
		require.True(t, ok)
		assert.Equal(t, codes.InvalidArgument, st.Code())
	})
}

func TestLoanHandler_GetLoan(t *testing.T) {
	t.Run("maps a missing loan to NotFound", func(t *testing.T) {
		handler := newTestHandler(&fakeLoanRepository{})

		_, err := handler.GetLoan(context.Background(), &grpcPresentation.GetLoanRequest{
			OrganizationID: testutil.TestOrganizationID.String(),
			LoanID:         testutil.TestLoanID.String(),
		})
		require.Error(t, err)

		st, ok := status.FromError(err)
		require.True(t, ok)
		assert.Equal(t, codes.NotFound, st.Code())
		testutil.AssertErrorContains(t, err, "loan not found")
	})
}
