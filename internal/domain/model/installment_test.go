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

var dueDate = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func testInstallment() model.Installment {
	return model.NewInstallment(1, dueDate, decimal.NewFromInt(500), decimal.NewFromInt(60), decimal.Zero)
}

func TestInstallment_ApplyPayment_FullSettlement(t *testing.T) {
	line := testInstallment()

	updated, delta := line.ApplyPayment(decimal.NewFromInt(560), dueDate, 0)

	assert.False(t, delta.WasBlocked)
	assert.True(t, delta.Settled)
	assert.True(t, decimal.NewFromInt(500).Equal(delta.PrincipalPaid))
	assert.True(t, decimal.NewFromInt(60).Equal(delta.InterestPaid))
	assert.True(t, delta.ExcessAmount.IsZero())
	assert.Equal(t, 0, delta.DelayedDays)

	assert.True(t, updated.IsPaid())
	assert.True(t, updated.Status.Equal(valueobject.InstallmentStatusPaid))
	require.NotNil(t, updated.ActualPaymentDate)
	assert.Equal(t, dueDate, *updated.ActualPaymentDate)
	assert.Equal(t, 1, updated.PaymentAttempts)
}

func TestInstallment_ApplyPayment_PrincipalBeforeInterest(t *testing.T) {
	line := testInstallment()

	updated, delta := line.ApplyPayment(decimal.NewFromInt(520), dueDate, 0)

	assert.True(t, decimal.NewFromInt(500).Equal(delta.PrincipalPaid))
	assert.True(t, decimal.NewFromInt(20).Equal(delta.InterestPaid))
	assert.True(t, updated.Status.Equal(valueobject.InstallmentStatusPartial))
	assert.True(t, decimal.NewFromInt(40).Equal(updated.RemainingDue()))
}

func TestInstallment_ApplyPayment_ExcessReturned(t *testing.T) {
	line := testInstallment()

	updated, delta := line.ApplyPayment(decimal.NewFromInt(600), dueDate, 0)

	assert.True(t, delta.Settled)
	assert.True(t, decimal.NewFromInt(40).Equal(delta.ExcessAmount))
	assert.True(t, updated.IsPaid())
}

func TestInstallment_ApplyPayment_EarlyPayment(t *testing.T) {
	line := testInstallment()
	early := dueDate.AddDate(0, 0, -10)

	updated, delta := line.ApplyPayment(decimal.NewFromInt(560), early, 0)

	assert.True(t, delta.WasEarlyPayment)
	assert.Equal(t, 0, delta.DelayedDays)
	assert.True(t, updated.WasEarlyPayment)
	assert.Equal(t, 0, updated.DelayedDays)
}

func TestInstallment_ApplyPayment_LateSetsDelayedDays(t *testing.T) {
	line := testInstallment()
	late := dueDate.AddDate(0, 0, 20)

	updated, delta := line.ApplyPayment(decimal.NewFromInt(100), late, 0)

	assert.Equal(t, 20, delta.DelayedDays)
	assert.Equal(t, 20, updated.DelayedDays)
}

func TestInstallment_ApplyPayment_NeverShrinksBatchDays(t *testing.T) {
	line := testInstallment()
	// The daily batch has accrued more days than the calendar gap implies.
	line.DelayedDays = 30

	updated, delta := line.ApplyPayment(decimal.NewFromInt(100), dueDate.AddDate(0, 0, 5), 0)

	assert.Equal(t, 5, delta.DelayedDays)
	assert.Equal(t, 30, updated.DelayedDays)
}

func TestInstallment_ApplyPayment_BlockedWhenPaid(t *testing.T) {
	line := testInstallment()
	paid, _ := line.ApplyPayment(decimal.NewFromInt(560), dueDate, 0)

	amount := decimal.NewFromInt(100)
	unchanged, delta := paid.ApplyPayment(amount, dueDate.AddDate(0, 0, 1), 0)

	assert.True(t, delta.WasBlocked)
	assert.True(t, amount.Equal(delta.ExcessAmount))
	assert.Equal(t, paid, unchanged)
}

func TestInstallment_ApplyPayment_BlockedWithinAttemptWindow(t *testing.T) {
	line := testInstallment()
	first, _ := line.ApplyPayment(decimal.NewFromInt(100), dueDate, time.Minute)

	_, delta := first.ApplyPayment(decimal.NewFromInt(100), dueDate.Add(30*time.Second), time.Minute)
	assert.True(t, delta.WasBlocked)

	// Outside the window the attempt goes through.
	_, delta = first.ApplyPayment(decimal.NewFromInt(100), dueDate.Add(2*time.Minute), time.Minute)
	assert.False(t, delta.WasBlocked)
}

func TestInstallment_AccrueDelayedDay(t *testing.T) {
	line := testInstallment()

	t.Run("accrues on unpaid past-due line", func(t *testing.T) {
		updated, changed := line.AccrueDelayedDay(dueDate.AddDate(0, 0, 1))
		assert.True(t, changed)
		assert.Equal(t, 1, updated.DelayedDays)
		assert.True(t, updated.Status.Equal(valueobject.InstallmentStatusOverdue))
	})

	t.Run("skips line not yet due", func(t *testing.T) {
		_, changed := line.AccrueDelayedDay(dueDate)
		assert.False(t, changed)
	})

	t.Run("skips paid line", func(t *testing.T) {
		paid, _ := line.ApplyPayment(decimal.NewFromInt(560), dueDate, 0)
		_, changed := paid.AccrueDelayedDay(dueDate.AddDate(0, 0, 1))
		assert.False(t, changed)
	})
}

func TestInstallment_ReversePayment(t *testing.T) {
	line := testInstallment()
	line.DelayedDays = 3
	paid, delta := line.ApplyPayment(decimal.NewFromInt(560), dueDate.AddDate(0, 0, 10), 0)
	require.True(t, paid.IsPaid())
	assert.Equal(t, 10, paid.DelayedDays)

	reversed := paid.ReversePayment(delta.PrincipalPaid, delta.InterestPaid, decimal.Zero, delta.DelayedDaysBefore)

	assert.True(t, reversed.PaidTotal.IsZero())
	assert.True(t, reversed.Status.Equal(valueobject.InstallmentStatusPending))
	assert.Equal(t, 3, reversed.DelayedDays)
	assert.Nil(t, reversed.ActualPaymentDate)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 3, 1, 0, 0, 0, time.UTC)

	// Day granularity, clock times ignored.
	assert.Equal(t, 2, model.DaysBetween(a, b))
	assert.Equal(t, -2, model.DaysBetween(b, a))
	assert.Equal(t, 0, model.DaysBetween(a, a))
}
