package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/model"
)

// DefaultPenaltyAnnualRate is the late-payment penalty rate: 5% per annum on
// the overdue amount, prorated per delayed day.
var DefaultPenaltyAnnualRate = decimal.NewFromFloat(0.05)

// DefaultAttemptWindow is the anti-double-submit window for a single
// installment.
const DefaultAttemptWindow = 30 * time.Second

// maxPaymentMultiple caps a payment at this multiple of the next due
// installment.
var maxPaymentMultiple = decimal.NewFromInt(2)

// DelayedDaysEntry reports the arrears state of one overdue line touched by
// an allocation.
type DelayedDaysEntry struct {
	InstallmentNumber int
	DueDate           time.Time
	DelayedDays       int
	Penalty           decimal.Decimal
}

// BlockedPayment reports a line that refused payment during allocation.
type BlockedPayment struct {
	InstallmentNumber int
	Reason            string
}

// AllocationResult is the detailed outcome of walking a payment across a
// loan's schedule. PrincipalPaid + InterestPaid + PenaltyPaid +
// RemainingAmount always reconciles to the amount paid.
type AllocationResult struct {
	PrincipalPaid   decimal.Decimal
	InterestPaid    decimal.Decimal
	PenaltyPaid     decimal.Decimal
	TotalAllocated  decimal.Decimal
	RemainingAmount decimal.Decimal
	Lines           []model.AllocationLine
	DelayedDaysInfo []DelayedDaysEntry
	BlockedPayments []BlockedPayment
}

// PaymentAllocator walks a payment over a loan's installments in three
// passes: overdue lines first (with penalty accrual), then lines due on the
// payment date, then future lines as prepayment.
type PaymentAllocator struct {
	penaltyAnnualRate decimal.Decimal
	attemptWindow     time.Duration
}

// NewPaymentAllocator creates an allocator. Non-positive arguments fall back
// to the defaults.
func NewPaymentAllocator(penaltyAnnualRate decimal.Decimal, attemptWindow time.Duration) *PaymentAllocator {
	if penaltyAnnualRate.LessThanOrEqual(decimal.Zero) {
		penaltyAnnualRate = DefaultPenaltyAnnualRate
	}
	if attemptWindow <= 0 {
		attemptWindow = DefaultAttemptWindow
	}
	return &PaymentAllocator{
		penaltyAnnualRate: penaltyAnnualRate,
		attemptWindow:     attemptWindow,
	}
}

// Allocate applies amount against the loan's schedule on the given date and
// returns the updated aggregate, the allocation detail, and whether the
// loan's status changed as a result (the trigger for reclassification).
func (a *PaymentAllocator) Allocate(
	loan model.Loan,
	amount decimal.Decimal,
	date time.Time,
) (model.Loan, AllocationResult, bool, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return loan, AllocationResult{}, false, fmt.Errorf("%w: amount must be positive", model.ErrValidation)
	}
	if !loan.Status().IsServiceable() {
		return loan, AllocationResult{}, false, fmt.Errorf("%w: loan status %s does not accept payments", model.ErrValidation, loan.Status())
	}

	installments := loan.Installments()
	if len(installments) == 0 {
		return loan, AllocationResult{}, false, model.ErrNoSchedule
	}

	next, ok := loan.NextUnpaidInstallment()
	if !ok {
		return loan, AllocationResult{}, false, fmt.Errorf("%w: loan has no unpaid installments", model.ErrValidation)
	}
	if amount.GreaterThan(next.DueTotal.Mul(maxPaymentMultiple)) {
		return loan, AllocationResult{}, false, fmt.Errorf(
			"%w: amount %s exceeds twice the next due installment (%s)",
			model.ErrInvalidAmount, amount.String(), next.DueTotal.String(),
		)
	}

	result := AllocationResult{
		PrincipalPaid:   decimal.Zero,
		InterestPaid:    decimal.Zero,
		PenaltyPaid:     decimal.Zero,
		TotalAllocated:  decimal.Zero,
		RemainingAmount: decimal.Zero,
	}
	remaining := amount

	// Pass 1: overdue lines, oldest first, with penalty deducted from the
	// payment before principal/interest.
	for idx := range installments {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		line := installments[idx]
		if !line.OverdueAsOf(date) {
			continue
		}

		penalty := a.penaltyFor(line, date)
		if penalty.GreaterThan(remaining) {
			penalty = remaining
		}

		updated, delta := line.ApplyPayment(remaining.Sub(penalty), date, a.attemptWindow)
		if delta.WasBlocked {
			result.BlockedPayments = append(result.BlockedPayments, BlockedPayment{
				InstallmentNumber: line.Number,
				Reason:            delta.BlockReason,
			})
			continue
		}
		updated.Penalty = updated.Penalty.Add(penalty)
		installments[idx] = updated

		result.PenaltyPaid = result.PenaltyPaid.Add(penalty)
		a.record(&result, delta, penalty)
		result.DelayedDaysInfo = append(result.DelayedDaysInfo, DelayedDaysEntry{
			InstallmentNumber: line.Number,
			DueDate:           line.DueDate,
			DelayedDays:       delta.DelayedDays,
			Penalty:           penalty,
		})
		remaining = delta.ExcessAmount
	}

	// Pass 2: lines due on the payment date, no penalty.
	for idx := range installments {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		line := installments[idx]
		if !line.DueAsOf(date) {
			continue
		}
		updated, delta := line.ApplyPayment(remaining, date, a.attemptWindow)
		if delta.WasBlocked {
			result.BlockedPayments = append(result.BlockedPayments, BlockedPayment{
				InstallmentNumber: line.Number,
				Reason:            delta.BlockReason,
			})
			continue
		}
		installments[idx] = updated
		a.record(&result, delta, decimal.Zero)
		remaining = delta.ExcessAmount
	}

	// Pass 3: prepayment into future lines in due-date order.
	for idx := range installments {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		line := installments[idx]
		if line.IsPaid() || model.DaysBetween(line.DueDate, date) >= 0 {
			continue
		}
		updated, delta := line.ApplyPayment(remaining, date, a.attemptWindow)
		if delta.WasBlocked {
			result.BlockedPayments = append(result.BlockedPayments, BlockedPayment{
				InstallmentNumber: line.Number,
				Reason:            delta.BlockReason,
			})
			continue
		}
		installments[idx] = updated
		a.record(&result, delta, decimal.Zero)
		remaining = delta.ExcessAmount
	}

	result.TotalAllocated = result.PrincipalPaid.Add(result.InterestPaid).Add(result.PenaltyPaid)
	result.RemainingAmount = amount.Sub(result.TotalAllocated)

	updatedLoan, statusChanged := loan.ApplyAllocation(
		installments, result.PrincipalPaid, result.InterestPaid, result.PenaltyPaid, date,
	)
	return updatedLoan, result, statusChanged, nil
}

// penaltyFor computes the late penalty on one overdue line: the penalty rate
// prorated per day of delay on the unpaid portion.
func (a *PaymentAllocator) penaltyFor(line model.Installment, date time.Time) decimal.Decimal {
	delayed := model.DaysBetween(line.DueDate, date)
	if batch := line.DelayedDays; batch > delayed {
		delayed = batch
	}
	if delayed <= 0 {
		return decimal.Zero
	}
	return line.RemainingDue().
		Mul(a.penaltyAnnualRate).
		Mul(decimal.NewFromInt(int64(delayed))).
		Div(yearDays).
		Round(moneyPlaces)
}

func (a *PaymentAllocator) record(result *AllocationResult, delta model.PaymentDelta, penalty decimal.Decimal) {
	result.PrincipalPaid = result.PrincipalPaid.Add(delta.PrincipalPaid)
	result.InterestPaid = result.InterestPaid.Add(delta.InterestPaid)
	if delta.PrincipalPaid.IsZero() && delta.InterestPaid.IsZero() && penalty.IsZero() {
		return
	}
	result.Lines = append(result.Lines, model.AllocationLine{
		InstallmentNumber: delta.InstallmentNumber,
		Principal:         delta.PrincipalPaid,
		Interest:          delta.InterestPaid,
		Penalty:           penalty,
		DelayedDaysBefore: delta.DelayedDaysBefore,
	})
}
