package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/application/usecase"
	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/service"
)

func newDisburseUseCase(loanRepo *mockLoanRepository, publisher *mockEventPublisher) *usecase.DisburseLoanUseCase {
	generator := service.NewScheduleGenerator(testLogger(), decimal.Zero)
	return usecase.NewDisburseLoanUseCase(loanRepo, generator, publisher, fixedClock{now: fixedNow}, testLogger())
}

func TestDisburseLoan_Execute(t *testing.T) {
	t.Run("disburses a standard loan with a full schedule", func(t *testing.T) {
		loanRepo := &mockLoanRepository{}
		publisher := &mockEventPublisher{}
		uc := newDisburseUseCase(loanRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.DisburseLoanRequest{
			OrganizationID: "org-1",
			BorrowerID:     "borrower-1",
			Principal:      decimal.NewFromInt(100000),
			Currency:       "KES",
			AnnualRate:     decimal.NewFromInt(12),
			TermMonths:     12,
			Frequency:      "MONTHLY",
			InterestMethod: "FLAT",
			Modality:       "STANDARD",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "DISBURSED", resp.Status)
		assert.Equal(t, 12, resp.TotalInstallments)
		assert.True(t, decimal.NewFromInt(12000).Equal(resp.TotalInterest))
		assert.True(t, decimal.NewFromInt(112000).Equal(resp.TotalRepayable))
		require.Len(t, resp.Schedule, 12)

		require.Len(t, loanRepo.savedLoans, 1)
		require.NotEmpty(t, publisher.publishedEvents)
		assert.Equal(t, "lms.loan.disbursed", publisher.publishedEvents[0].EventType())
	})

	t.Run("tolerates unknown frequency and method with defaults", func(t *testing.T) {
		loanRepo := &mockLoanRepository{}
		publisher := &mockEventPublisher{}
		uc := newDisburseUseCase(loanRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.DisburseLoanRequest{
			OrganizationID: "org-1",
			BorrowerID:     "borrower-1",
			Principal:      decimal.NewFromInt(100000),
			Currency:       "KES",
			AnnualRate:     decimal.NewFromInt(12),
			TermMonths:     12,
			Frequency:      "fortnightly-ish",
			InterestMethod: "simple",
			Modality:       "STANDARD",
		})
		require.NoError(t, err)
		assert.Equal(t, "MONTHLY", resp.Frequency)
		assert.Equal(t, "FLAT", resp.InterestMethod)
	})

	t.Run("rejects unknown modality", func(t *testing.T) {
		uc := newDisburseUseCase(&mockLoanRepository{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.DisburseLoanRequest{
			OrganizationID: "org-1",
			BorrowerID:     "borrower-1",
			Principal:      decimal.NewFromInt(100000),
			Currency:       "KES",
			AnnualRate:     decimal.NewFromInt(12),
			TermMonths:     12,
			Frequency:      "MONTHLY",
			InterestMethod: "FLAT",
			Modality:       "BALLOON",
		})
		require.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("re-disbursement replaces the schedule", func(t *testing.T) {
		existing := fixtureLoan(t, fixedNow.AddDate(0, -6, 0))
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, orgID, id string) (model.Loan, error) {
				assert.Equal(t, "org-1", orgID)
				assert.Equal(t, existing.ID(), id)
				return existing, nil
			},
		}
		publisher := &mockEventPublisher{}
		uc := newDisburseUseCase(loanRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.DisburseLoanRequest{
			OrganizationID: "org-1",
			LoanID:         existing.ID(),
			BorrowerID:     "borrower-1",
			Principal:      decimal.NewFromInt(1000),
			Currency:       "KES",
			AnnualRate:     decimal.NewFromInt(12),
			TermMonths:     4,
			Frequency:      "MONTHLY",
			InterestMethod: "FLAT",
			Modality:       "STANDARD",
		})
		require.NoError(t, err)

		assert.Equal(t, existing.ID(), resp.ID)
		assert.Equal(t, 4, resp.TotalInstallments)
		require.Len(t, loanRepo.savedLoans, 1)

		var types []string
		for _, evt := range publisher.publishedEvents {
			types = append(types, evt.EventType())
		}
		assert.Contains(t, types, "lms.loan.schedule_regenerated")
	})

	t.Run("single payment modality produces one bullet line", func(t *testing.T) {
		loanRepo := &mockLoanRepository{}
		uc := newDisburseUseCase(loanRepo, &mockEventPublisher{})

		resp, err := uc.Execute(context.Background(), dto.DisburseLoanRequest{
			OrganizationID:      "org-1",
			BorrowerID:          "borrower-1",
			Principal:           decimal.NewFromInt(50000),
			Currency:            "KES",
			AnnualRate:          decimal.NewFromInt(10),
			TermMonths:          12,
			Frequency:           "MONTHLY",
			InterestMethod:      "FLAT",
			Modality:            "SINGLE_PAYMENT",
			SinglePaymentMonths: 3,
		})
		require.NoError(t, err)
		require.Len(t, resp.Schedule, 1)
		// 50,000 * 10% * 3/12 = 1,250.
		assert.True(t, decimal.NewFromInt(1250).Equal(resp.Schedule[0].DueInterest))
	})
}
