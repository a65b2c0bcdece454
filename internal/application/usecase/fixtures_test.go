package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixtureTerms(principal decimal.Decimal, termMonths int) model.LoanTerms {
	return model.LoanTerms{
		Principal:      principal,
		Currency:       "KES",
		AnnualRate:     decimal.NewFromInt(12),
		TermMonths:     termMonths,
		Frequency:      valueobject.FrequencyMonthly,
		InterestMethod: valueobject.InterestMethodFlat,
		Modality:       valueobject.ModalityStandard,
	}
}

// fixtureLoan builds a two-installment loan disbursed at the given time.
func fixtureLoan(t *testing.T, disbursed time.Time) model.Loan {
	t.Helper()
	schedule := []model.Installment{
		model.NewInstallment(1, disbursed.AddDate(0, 1, 0), decimal.NewFromInt(500), decimal.NewFromInt(60), decimal.NewFromInt(500)),
		model.NewInstallment(2, disbursed.AddDate(0, 2, 0), decimal.NewFromInt(500), decimal.NewFromInt(60), decimal.Zero),
	}
	loan, err := model.NewDisbursedLoan("org-1", "borrower-1", fixtureTerms(decimal.NewFromInt(1000), 2), schedule, disbursed)
	require.NoError(t, err)
	return loan.ClearEvents()
}
