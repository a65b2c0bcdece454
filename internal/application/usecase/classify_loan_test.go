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

func TestClassifyLoan_Execute(t *testing.T) {
	// First installment fell due 100 days before the as-of date.
	disbursed := fixedNow.AddDate(0, 0, -100).AddDate(0, -1, 0)
	loan := fixtureLoan(t, disbursed)

	t.Run("classifies and persists the record", func(t *testing.T) {
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _, _ string) (model.Loan, error) {
				return loan, nil
			},
		}
		classificationRepo := &mockClassificationRepository{}
		collateral := &mockCollateralValuer{
			valueFunc: func(_ context.Context, _, _ string) (decimal.Decimal, error) {
				return decimal.NewFromInt(400), nil
			},
		}
		uc := usecase.NewClassifyLoanUseCase(
			loanRepo, classificationRepo, service.NewLoanClassifier(), collateral, fixedClock{now: fixedNow},
		)

		resp, err := uc.Execute(context.Background(), dto.ClassifyLoanRequest{
			OrganizationID: "org-1",
			LoanID:         loan.ID(),
		})
		require.NoError(t, err)

		assert.Equal(t, "SUBSTANDARD", resp.Class)
		assert.Equal(t, 100, resp.DaysInArrears)
		// Net exposure 1,000 - 400 = 600; 25% of that is 150.
		assert.True(t, decimal.NewFromInt(600).Equal(resp.NetExposure))
		assert.True(t, decimal.NewFromInt(150).Equal(resp.ProvisionRequired))
		assert.Len(t, classificationRepo.savedRecords, 1)
	})

	t.Run("uses the latest record as previous provisions", func(t *testing.T) {
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _, _ string) (model.Loan, error) {
				return loan, nil
			},
		}
		classificationRepo := &mockClassificationRepository{
			findLatestFunc: func(_ context.Context, _ string) (model.Classification, error) {
				return model.Classification{ProvisionRequired: decimal.NewFromInt(50)}, nil
			},
		}
		uc := usecase.NewClassifyLoanUseCase(
			loanRepo, classificationRepo, service.NewLoanClassifier(), &mockCollateralValuer{}, fixedClock{now: fixedNow},
		)

		resp, err := uc.Execute(context.Background(), dto.ClassifyLoanRequest{
			OrganizationID: "org-1",
			LoanID:         loan.ID(),
		})
		require.NoError(t, err)

		// No collateral: required = 1,000 * 25% = 250; held 50.
		assert.True(t, decimal.NewFromInt(50).Equal(resp.PreviousProvisionsHeld))
		assert.True(t, decimal.NewFromInt(200).Equal(resp.AdditionalProvisions))
	})

	t.Run("propagates loan lookup failure", func(t *testing.T) {
		uc := usecase.NewClassifyLoanUseCase(
			&mockLoanRepository{}, &mockClassificationRepository{},
			service.NewLoanClassifier(), &mockCollateralValuer{}, fixedClock{now: fixedNow},
		)
		_, err := uc.Execute(context.Background(), dto.ClassifyLoanRequest{
			OrganizationID: "org-1",
			LoanID:         "missing",
		})
		require.ErrorIs(t, err, model.ErrLoanNotFound)
	})
}
