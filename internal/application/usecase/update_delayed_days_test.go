package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umojafin/lms/internal/application/dto"
	"github.com/umojafin/lms/internal/application/usecase"
	"github.com/umojafin/lms/internal/domain/model"
)

func TestUpdateDelayedDays_Execute(t *testing.T) {
	currentLoan := fixtureLoan(t, fixedNow)                    // nothing due yet
	overdueLoan := fixtureLoan(t, fixedNow.AddDate(0, -1, -5)) // first line 5 days past due

	t.Run("accrues one day on past-due schedules only", func(t *testing.T) {
		loanRepo := &mockLoanRepository{
			listActiveFunc: func(_ context.Context, _ string, offset, _ int) ([]model.Loan, error) {
				if offset > 0 {
					return nil, nil
				}
				return []model.Loan{currentLoan, overdueLoan}, nil
			},
		}
		publisher := &mockEventPublisher{}
		uc := usecase.NewUpdateDelayedDaysUseCase(loanRepo, publisher, fixedClock{now: fixedNow}, testLogger())

		resp, err := uc.Execute(context.Background(), dto.UpdateDelayedDaysRequest{OrganizationID: "org-1"})
		require.NoError(t, err)

		assert.Equal(t, 2, resp.LoansProcessed)
		assert.Equal(t, 1, resp.UpdatedSchedules)
		assert.Empty(t, resp.Errors)

		require.Len(t, loanRepo.savedLoans, 1)
		saved := loanRepo.savedLoans[0]
		assert.Equal(t, overdueLoan.ID(), saved.ID())
		assert.Equal(t, 1, saved.Installments()[0].DelayedDays)
		assert.Equal(t, 1, saved.DaysInArrears())
	})

	t.Run("empty organization runs platform-wide", func(t *testing.T) {
		var listedOrgs []string
		loanRepo := &mockLoanRepository{
			listActiveFunc: func(_ context.Context, orgID string, offset, _ int) ([]model.Loan, error) {
				listedOrgs = append(listedOrgs, orgID)
				if offset > 0 {
					return nil, nil
				}
				return []model.Loan{overdueLoan}, nil
			},
		}
		uc := usecase.NewUpdateDelayedDaysUseCase(loanRepo, &mockEventPublisher{}, fixedClock{now: fixedNow}, testLogger())

		resp, err := uc.Execute(context.Background(), dto.UpdateDelayedDaysRequest{})
		require.NoError(t, err)

		// The repository receives the empty ID, which lists every
		// organization's active loans.
		require.NotEmpty(t, listedOrgs)
		assert.Equal(t, "", listedOrgs[0])
		assert.Equal(t, 1, resp.LoansProcessed)
		assert.Equal(t, 1, resp.UpdatedSchedules)
	})

	t.Run("collects save failures and continues", func(t *testing.T) {
		failing := fixtureLoan(t, fixedNow.AddDate(0, -1, -5))
		accruing := fixtureLoan(t, fixedNow.AddDate(0, -1, -10))

		loanRepo := &mockLoanRepository{
			listActiveFunc: func(_ context.Context, _ string, offset, _ int) ([]model.Loan, error) {
				if offset > 0 {
					return nil, nil
				}
				return []model.Loan{failing, accruing}, nil
			},
			saveFunc: func(_ context.Context, loan model.Loan) error {
				if loan.ID() == failing.ID() {
					return fmt.Errorf("connection reset")
				}
				return nil
			},
		}
		uc := usecase.NewUpdateDelayedDaysUseCase(loanRepo, &mockEventPublisher{}, fixedClock{now: fixedNow}, testLogger())

		resp, err := uc.Execute(context.Background(), dto.UpdateDelayedDaysRequest{OrganizationID: "org-1"})
		require.NoError(t, err)

		assert.Equal(t, 2, resp.LoansProcessed)
		assert.Equal(t, 1, resp.UpdatedSchedules)
		require.Len(t, resp.Errors, 1)
		assert.Contains(t, resp.Errors[0], failing.ID())
	})
}
