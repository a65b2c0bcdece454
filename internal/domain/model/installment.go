package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/valueobject"
)

// Installment is one line of a loan's repayment schedule. It behaves as a
// small state machine (pending -> partial -> paid, with an orthogonal overdue
// marker), but all transitions are pure: ApplyPayment and the daily arrears
// accrual return a new Installment plus a delta describing what changed, and
// the caller persists the result.
type Installment struct {
	Number       int
	DueDate      time.Time
	DuePrincipal decimal.Decimal
	DueInterest  decimal.Decimal
	DueTotal     decimal.Decimal

	PaidPrincipal decimal.Decimal
	PaidInterest  decimal.Decimal
	PaidTotal     decimal.Decimal

	// OutstandingPrincipal is the loan's remaining principal after this
	// line's due principal is applied, fixed at schedule generation.
	OutstandingPrincipal decimal.Decimal

	Penalty     decimal.Decimal
	DelayedDays int

	Status             valueobject.InstallmentStatus
	WasEarlyPayment    bool
	ActualPaymentDate  *time.Time
	LastPaymentAttempt *time.Time
	PaymentAttempts    int
}

// PaymentDelta describes the effect of one ApplyPayment call on a single
// installment.
type PaymentDelta struct {
	InstallmentNumber int
	PrincipalPaid     decimal.Decimal
	InterestPaid      decimal.Decimal
	ExcessAmount      decimal.Decimal
	DelayedDays       int
	DelayedDaysBefore int
	Settled           bool
	WasEarlyPayment   bool
	WasBlocked        bool
	BlockReason       string
}

// NewInstallment creates a pending schedule line with all payment trackers
// zeroed.
func NewInstallment(number int, dueDate time.Time, principal, interest, outstanding decimal.Decimal) Installment {
	return Installment{
		Number:               number,
		DueDate:              dueDate,
		DuePrincipal:         principal,
		DueInterest:          interest,
		DueTotal:             principal.Add(interest),
		PaidPrincipal:        decimal.Zero,
		PaidInterest:         decimal.Zero,
		PaidTotal:            decimal.Zero,
		OutstandingPrincipal: outstanding,
		Penalty:              decimal.Zero,
		Status:               valueobject.InstallmentStatusPending,
	}
}

// IsPaid reports whether the line is fully settled.
func (i Installment) IsPaid() bool {
	return i.PaidTotal.GreaterThanOrEqual(i.DueTotal)
}

// RemainingDue is the unpaid portion of the line's due total.
func (i Installment) RemainingDue() decimal.Decimal {
	rem := i.DueTotal.Sub(i.PaidTotal)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// RemainingPrincipal is the unpaid portion of the line's due principal.
func (i Installment) RemainingPrincipal() decimal.Decimal {
	rem := i.DuePrincipal.Sub(i.PaidPrincipal)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// RemainingInterest is the unpaid portion of the line's due interest.
func (i Installment) RemainingInterest() decimal.Decimal {
	rem := i.DueInterest.Sub(i.PaidInterest)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// OverdueAsOf reports whether the line is unpaid and past due on the given
// date. Due-date comparison is at day granularity.
func (i Installment) OverdueAsOf(date time.Time) bool {
	return !i.IsPaid() && DaysBetween(i.DueDate, date) > 0
}

// DueAsOf reports whether the line's due date has been reached (same day or
// earlier) without being past due yet.
func (i Installment) DueAsOf(date time.Time) bool {
	return !i.IsPaid() && !i.OverdueAsOf(date) && DaysBetween(i.DueDate, date) == 0
}

// ApplyPayment applies up to amount against this line and returns the new
// line state plus a delta. The amount is consumed principal first, then
// interest; any surplus comes back in the delta's ExcessAmount for the caller
// to redirect to the next line.
//
// The call is blocked, leaving the line untouched, when the line is already
// fully paid or when another payment attempt was registered within
// attemptWindow (anti-double-submit).
func (i Installment) ApplyPayment(amount decimal.Decimal, date time.Time, attemptWindow time.Duration) (Installment, PaymentDelta) {
	delta := PaymentDelta{
		InstallmentNumber: i.Number,
		PrincipalPaid:     decimal.Zero,
		InterestPaid:      decimal.Zero,
		ExcessAmount:      decimal.Zero,
		DelayedDaysBefore: i.DelayedDays,
	}

	if i.IsPaid() {
		delta.WasBlocked = true
		delta.BlockReason = "installment already fully paid"
		delta.ExcessAmount = amount
		return i, delta
	}
	if attemptWindow > 0 && i.LastPaymentAttempt != nil && date.Sub(*i.LastPaymentAttempt) < attemptWindow {
		delta.WasBlocked = true
		delta.BlockReason = "payment attempt registered too recently"
		delta.ExcessAmount = amount
		return i, delta
	}

	next := i
	delayed := DaysBetween(i.DueDate, date)
	if delayed < 0 {
		delayed = 0
		next.WasEarlyPayment = true
		delta.WasEarlyPayment = true
	}
	delta.DelayedDays = delayed
	// Never shrink days accumulated by the daily batch.
	if delayed > next.DelayedDays {
		next.DelayedDays = delayed
	}

	remaining := amount

	principalShare := decimal.Min(remaining, i.RemainingPrincipal())
	next.PaidPrincipal = i.PaidPrincipal.Add(principalShare)
	remaining = remaining.Sub(principalShare)

	interestShare := decimal.Min(remaining, i.RemainingInterest())
	next.PaidInterest = i.PaidInterest.Add(interestShare)
	remaining = remaining.Sub(interestShare)

	next.PaidTotal = next.PaidPrincipal.Add(next.PaidInterest)

	delta.PrincipalPaid = principalShare
	delta.InterestPaid = interestShare
	delta.ExcessAmount = remaining

	attempt := date
	next.LastPaymentAttempt = &attempt
	next.PaymentAttempts = i.PaymentAttempts + 1

	switch {
	case next.IsPaid():
		next.Status = valueobject.InstallmentStatusPaid
		paidAt := date
		next.ActualPaymentDate = &paidAt
		delta.Settled = true
	case next.PaidTotal.IsPositive():
		next.Status = valueobject.InstallmentStatusPartial
	}

	return next, delta
}

// AccrueDelayedDay is the daily batch transition: an unpaid line past its due
// date gains one delayed day and is flagged overdue. Lines paid or not yet
// due are returned unchanged.
//
// Delayed days are kept by two cooperating paths: this daily increment and
// the point-in-time gap computed inside ApplyPayment. Classification reads
// DelayedDays as ground truth, so both paths must maintain it.
func (i Installment) AccrueDelayedDay(today time.Time) (Installment, bool) {
	if !i.OverdueAsOf(today) {
		return i, false
	}
	next := i
	next.DelayedDays = i.DelayedDays + 1
	if next.Status.Equal(valueobject.InstallmentStatusPending) {
		next.Status = valueobject.InstallmentStatusOverdue
	}
	return next, true
}

// ReversePayment backs out a previously applied delta, restoring paid
// amounts, penalty, and the delayed-day count recorded before the payment.
// This is the only path that may decrease DelayedDays.
func (i Installment) ReversePayment(principal, interest, penalty decimal.Decimal, delayedDaysBefore int) Installment {
	next := i
	next.PaidPrincipal = i.PaidPrincipal.Sub(principal)
	if next.PaidPrincipal.IsNegative() {
		next.PaidPrincipal = decimal.Zero
	}
	next.PaidInterest = i.PaidInterest.Sub(interest)
	if next.PaidInterest.IsNegative() {
		next.PaidInterest = decimal.Zero
	}
	next.PaidTotal = next.PaidPrincipal.Add(next.PaidInterest)
	next.Penalty = i.Penalty.Sub(penalty)
	if next.Penalty.IsNegative() {
		next.Penalty = decimal.Zero
	}
	next.DelayedDays = delayedDaysBefore
	next.ActualPaymentDate = nil
	next.WasEarlyPayment = false

	switch {
	case next.PaidTotal.IsZero():
		next.Status = valueobject.InstallmentStatusPending
	case next.IsPaid():
		next.Status = valueobject.InstallmentStatusPaid
	default:
		next.Status = valueobject.InstallmentStatusPartial
	}
	return next
}

// DaysBetween returns the whole number of days from a to b at day
// granularity, negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	at := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bt := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bt.Sub(at).Hours() / 24)
}
