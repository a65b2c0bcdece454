package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

func testTerms() model.LoanTerms {
	return model.LoanTerms{
		Principal:      decimal.NewFromInt(1000),
		Currency:       "KES",
		AnnualRate:     decimal.NewFromInt(12),
		TermMonths:     2,
		Frequency:      valueobject.FrequencyMonthly,
		InterestMethod: valueobject.InterestMethodFlat,
		Modality:       valueobject.ModalityStandard,
	}
}

func testSchedule(disbursed time.Time) []model.Installment {
	return []model.Installment{
		model.NewInstallment(1, disbursed.AddDate(0, 1, 0), decimal.NewFromInt(500), decimal.NewFromInt(60), decimal.NewFromInt(500)),
		model.NewInstallment(2, disbursed.AddDate(0, 2, 0), decimal.NewFromInt(500), decimal.NewFromInt(60), decimal.Zero),
	}
}

func disbursedLoan(t *testing.T) (model.Loan, time.Time) {
	t.Helper()
	disbursed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	loan, err := model.NewDisbursedLoan("org-1", "borrower-1", testTerms(), testSchedule(disbursed), disbursed)
	require.NoError(t, err)
	return loan, disbursed
}

func TestNewDisbursedLoan(t *testing.T) {
	loan, disbursed := disbursedLoan(t)

	assert.NotEmpty(t, loan.ID())
	assert.Equal(t, "org-1", loan.OrganizationID())
	assert.True(t, loan.Status().Equal(valueobject.LoanStatusDisbursed))
	assert.True(t, decimal.NewFromInt(1000).Equal(loan.OutstandingPrincipal()))
	assert.True(t, decimal.NewFromInt(120).Equal(loan.TotalInterest()))
	assert.True(t, decimal.NewFromInt(1120).Equal(loan.TotalRepayable()))
	assert.Equal(t, 2, loan.TotalInstallments())
	assert.Equal(t, disbursed, loan.DisbursedAt())
	assert.Equal(t, 1, loan.Version())

	events := loan.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "lms.loan.disbursed", events[0].EventType())
	assert.Equal(t, loan.ID(), events[0].AggregateID())
	assert.Equal(t, "org-1", events[0].TenantID())
}

func TestNewDisbursedLoan_Validation(t *testing.T) {
	disbursed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(*model.LoanTerms) (orgID, borrowerID string, schedule []model.Installment)
	}{
		{"missing organization", func(terms *model.LoanTerms) (string, string, []model.Installment) {
			return "", "b", testSchedule(disbursed)
		}},
		{"missing borrower", func(terms *model.LoanTerms) (string, string, []model.Installment) {
			return "o", "", testSchedule(disbursed)
		}},
		{"non-positive principal", func(terms *model.LoanTerms) (string, string, []model.Installment) {
			terms.Principal = decimal.Zero
			return "o", "b", testSchedule(disbursed)
		}},
		{"missing currency", func(terms *model.LoanTerms) (string, string, []model.Installment) {
			terms.Currency = ""
			return "o", "b", testSchedule(disbursed)
		}},
		{"empty schedule", func(terms *model.LoanTerms) (string, string, []model.Installment) {
			return "o", "b", nil
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			terms := testTerms()
			org, borrower, schedule := tc.mutate(&terms)
			_, err := model.NewDisbursedLoan(org, borrower, terms, schedule, disbursed)
			require.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestLoan_ReplaceSchedule(t *testing.T) {
	loan, disbursed := disbursedLoan(t)
	redisbursed := disbursed.AddDate(0, 6, 0)

	replacement := []model.Installment{
		model.NewInstallment(1, redisbursed.AddDate(0, 1, 0), decimal.NewFromInt(1000), decimal.NewFromInt(100), decimal.Zero),
	}
	next, err := loan.ReplaceSchedule(replacement, redisbursed)
	require.NoError(t, err)

	assert.Equal(t, 1, next.TotalInstallments())
	assert.True(t, decimal.NewFromInt(100).Equal(next.TotalInterest()))
	assert.True(t, decimal.NewFromInt(1000).Equal(next.OutstandingPrincipal()))
	assert.Equal(t, 0, next.DaysInArrears())
	assert.Equal(t, redisbursed, next.DisbursedAt())
	assert.True(t, next.Status().Equal(valueobject.LoanStatusDisbursed))

	events := next.DomainEvents()
	assert.Equal(t, "lms.loan.schedule_regenerated", events[len(events)-1].EventType())

	// The original aggregate is untouched.
	assert.Equal(t, 2, loan.TotalInstallments())
}

func TestLoan_ReplaceSchedule_RejectsTerminal(t *testing.T) {
	loan, disbursed := disbursedLoan(t)
	written, err := loan.WriteOff(disbursed)
	require.NoError(t, err)

	_, err = written.ReplaceSchedule(testSchedule(disbursed), disbursed)
	require.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
}

func TestLoan_ApplyAllocation(t *testing.T) {
	loan, disbursed := disbursedLoan(t)
	payDate := disbursed.AddDate(0, 1, 0)

	lines := loan.Installments()
	updatedLine, delta := lines[0].ApplyPayment(decimal.NewFromInt(560), payDate, 0)
	lines[0] = updatedLine

	next, statusChanged := loan.ApplyAllocation(lines, delta.PrincipalPaid, delta.InterestPaid, decimal.Zero, payDate)

	assert.True(t, decimal.NewFromInt(500).Equal(next.OutstandingPrincipal()))
	assert.True(t, decimal.NewFromInt(60).Equal(next.InterestCollected()))
	assert.Equal(t, 0, next.DaysInArrears())
	assert.True(t, statusChanged)
	assert.True(t, next.Status().Equal(valueobject.LoanStatusPerforming))

	events := next.DomainEvents()
	assert.Equal(t, "lms.loan.reclassified", events[len(events)-1].EventType())
}

func TestLoan_ApplyAllocation_ClosesWhenSettled(t *testing.T) {
	loan, disbursed := disbursedLoan(t)
	payDate := disbursed.AddDate(0, 2, 0)

	lines := loan.Installments()
	principal := decimal.Zero
	interest := decimal.Zero
	for idx := range lines {
		updated, delta := lines[idx].ApplyPayment(decimal.NewFromInt(560), payDate, 0)
		lines[idx] = updated
		principal = principal.Add(delta.PrincipalPaid)
		interest = interest.Add(delta.InterestPaid)
	}

	next, statusChanged := loan.ApplyAllocation(lines, principal, interest, decimal.Zero, payDate)

	assert.True(t, statusChanged)
	assert.True(t, next.Status().Equal(valueobject.LoanStatusClosed))
	assert.True(t, next.OutstandingPrincipal().IsZero())
}

func TestLoan_AccrueDailyArrears(t *testing.T) {
	loan, disbursed := disbursedLoan(t)

	t.Run("no-op before anything is due", func(t *testing.T) {
		next, accrued := loan.AccrueDailyArrears(disbursed.AddDate(0, 0, 10))
		assert.Equal(t, 0, accrued)
		assert.Equal(t, loan.DaysInArrears(), next.DaysInArrears())
	})

	t.Run("accrues past-due lines and reclassifies", func(t *testing.T) {
		next := loan
		today := disbursed.AddDate(0, 1, 1)
		accruedTotal := 0
		// 31 daily ticks push the first line over the NORMAL boundary.
		for i := 0; i < 31; i++ {
			var accrued int
			next, accrued = next.AccrueDailyArrears(today.AddDate(0, 0, i))
			accruedTotal += accrued
		}
		// Line 1 accrues on all 31 ticks; line 2 falls due during the window
		// and accrues on the last 3.
		assert.Equal(t, 34, accruedTotal)
		assert.Equal(t, 31, next.DaysInArrears())
		assert.True(t, next.Status().Equal(valueobject.LoanStatusWatch))

		lines := next.Installments()
		assert.Equal(t, 31, lines[0].DelayedDays)
		assert.True(t, lines[0].Status.Equal(valueobject.InstallmentStatusOverdue))
		assert.Equal(t, 3, lines[1].DelayedDays)
	})
}

func TestLoan_ApplyReversal(t *testing.T) {
	loan, disbursed := disbursedLoan(t)
	payDate := disbursed.AddDate(0, 1, 0)

	lines := loan.Installments()
	updatedLine, delta := lines[0].ApplyPayment(decimal.NewFromInt(560), payDate, 0)
	lines[0] = updatedLine
	paid, _ := loan.ApplyAllocation(lines, delta.PrincipalPaid, delta.InterestPaid, decimal.Zero, payDate)

	tx := model.NewTransaction(
		"org-1", loan.ID(), decimal.NewFromInt(560), payDate, "MOBILE_MONEY",
		delta.PrincipalPaid, delta.InterestPaid, decimal.Zero,
		[]model.AllocationLine{{
			InstallmentNumber: 1,
			Principal:         delta.PrincipalPaid,
			Interest:          delta.InterestPaid,
			Penalty:           decimal.Zero,
			DelayedDaysBefore: delta.DelayedDaysBefore,
		}},
		"", "", payDate,
	)

	reverted, err := paid.ApplyReversal(tx, payDate.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1000).Equal(reverted.OutstandingPrincipal()))
	assert.True(t, reverted.InterestCollected().IsZero())

	restored := reverted.Installments()
	assert.True(t, restored[0].PaidTotal.IsZero())
	assert.True(t, restored[0].Status.Equal(valueobject.InstallmentStatusPending))
}

func TestLoan_ApplyReversal_RejectsInactive(t *testing.T) {
	loan, disbursed := disbursedLoan(t)

	tx := model.NewTransaction(
		"org-1", loan.ID(), decimal.NewFromInt(100), disbursed, "CASH",
		decimal.NewFromInt(100), decimal.Zero, decimal.Zero, nil, "", "", disbursed,
	)
	inactive := tx.Deactivated("duplicate entry")

	_, err := loan.ApplyReversal(inactive, disbursed)
	require.ErrorIs(t, err, model.ErrAlreadyReversed)
}

func TestLoan_WriteOff(t *testing.T) {
	loan, disbursed := disbursedLoan(t)

	written, err := loan.WriteOff(disbursed.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.True(t, written.Status().Equal(valueobject.LoanStatusWrittenOff))
	assert.True(t, written.Status().IsTerminal())

	_, err = written.WriteOff(disbursed.AddDate(1, 0, 1))
	require.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
}

func TestLoan_DaysInArrearsAsOf(t *testing.T) {
	loan, disbursed := disbursedLoan(t)

	assert.Equal(t, 0, loan.DaysInArrearsAsOf(disbursed))
	assert.Equal(t, 15, loan.DaysInArrearsAsOf(disbursed.AddDate(0, 1, 15)))
}

func TestLoan_ClearEvents(t *testing.T) {
	loan, _ := disbursedLoan(t)
	require.NotEmpty(t, loan.DomainEvents())

	cleared := loan.ClearEvents()
	assert.Empty(t, cleared.DomainEvents())
	assert.NotEmpty(t, loan.DomainEvents())
}
