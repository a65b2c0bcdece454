package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/event"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// LoanTerms are the commercial terms fixed at disbursement.
type LoanTerms struct {
	Principal       decimal.Decimal
	Currency        string
	AnnualRate      decimal.Decimal // percent, e.g. 12 = 12% p.a.
	TermMonths      int
	Frequency       valueobject.RepaymentFrequency
	InterestMethod  valueobject.InterestMethod
	Modality        valueobject.RepaymentModality
	DisbursementFee decimal.Decimal
}

// Loan is an immutable aggregate. Mutations return a new copy. The cached
// fields (outstanding principal, days in arrears, status) are a materialized
// view over the schedule and must be updated in the same transaction as the
// installments they are derived from.
type Loan struct {
	id                   string
	organizationID       string
	borrowerID           string
	terms                LoanTerms
	totalInstallments    int
	totalInterest        decimal.Decimal
	totalRepayable       decimal.Decimal
	outstandingPrincipal decimal.Decimal
	interestCollected    decimal.Decimal
	penaltyCollected     decimal.Decimal
	daysInArrears        int
	status               valueobject.LoanStatus
	installments         []Installment
	disbursedAt          time.Time
	version              int
	createdAt            time.Time
	updatedAt            time.Time
	domainEvents         []event.DomainEvent
}

// NewDisbursedLoan creates a loan at disbursement time from its terms and a
// freshly generated schedule. The loan starts in DISBURSED status with the
// full principal outstanding.
func NewDisbursedLoan(
	organizationID, borrowerID string,
	terms LoanTerms,
	schedule []Installment,
	now time.Time,
) (Loan, error) {
	if organizationID == "" {
		return Loan{}, fmt.Errorf("%w: organization ID is required", ErrValidation)
	}
	if borrowerID == "" {
		return Loan{}, fmt.Errorf("%w: borrower ID is required", ErrValidation)
	}
	if terms.Principal.LessThanOrEqual(decimal.Zero) {
		return Loan{}, fmt.Errorf("%w: principal must be positive", ErrValidation)
	}
	if terms.Currency == "" {
		return Loan{}, fmt.Errorf("%w: currency is required", ErrValidation)
	}
	if terms.TermMonths <= 0 {
		return Loan{}, fmt.Errorf("%w: term months must be positive", ErrValidation)
	}
	if len(schedule) == 0 {
		return Loan{}, fmt.Errorf("%w: schedule must not be empty", ErrValidation)
	}

	totalInterest, totalRepayable := scheduleTotals(schedule)

	loan := Loan{
		id:                   uuid.New().String(),
		organizationID:       organizationID,
		borrowerID:           borrowerID,
		terms:                terms,
		totalInstallments:    len(schedule),
		totalInterest:        totalInterest,
		totalRepayable:       totalRepayable,
		outstandingPrincipal: terms.Principal,
		interestCollected:    decimal.Zero,
		penaltyCollected:     decimal.Zero,
		status:               valueobject.LoanStatusDisbursed,
		installments:         copyInstallments(schedule),
		disbursedAt:          now,
		version:              1,
		createdAt:            now,
		updatedAt:            now,
	}

	loan.domainEvents = append(loan.domainEvents, event.NewLoanDisbursed(
		loan.id, organizationID, borrowerID,
		terms.Principal, terms.Currency, terms.AnnualRate, terms.TermMonths,
		terms.Modality.String(), len(schedule),
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, organizationID, borrowerID string,
	terms LoanTerms,
	totalInstallments int,
	totalInterest, totalRepayable decimal.Decimal,
	outstandingPrincipal, interestCollected, penaltyCollected decimal.Decimal,
	daysInArrears int,
	status valueobject.LoanStatus,
	installments []Installment,
	disbursedAt time.Time,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                   id,
		organizationID:       organizationID,
		borrowerID:           borrowerID,
		terms:                terms,
		totalInstallments:    totalInstallments,
		totalInterest:        totalInterest,
		totalRepayable:       totalRepayable,
		outstandingPrincipal: outstandingPrincipal,
		interestCollected:    interestCollected,
		penaltyCollected:     penaltyCollected,
		daysInArrears:        daysInArrears,
		status:               status,
		installments:         installments,
		disbursedAt:          disbursedAt,
		version:              version,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// ReplaceSchedule discards the existing schedule wholesale and installs a new
// one, restoring the full principal as outstanding. Used on re-disbursement;
// there is no incremental diffing of schedule lines.
func (l Loan) ReplaceSchedule(schedule []Installment, now time.Time) (Loan, error) {
	if len(schedule) == 0 {
		return l, fmt.Errorf("%w: schedule must not be empty", ErrValidation)
	}
	if l.status.IsTerminal() {
		return l, valueobject.ErrInvalidStatusTransition
	}

	totalInterest, totalRepayable := scheduleTotals(schedule)

	next := l
	next.installments = copyInstallments(schedule)
	next.totalInstallments = len(schedule)
	next.totalInterest = totalInterest
	next.totalRepayable = totalRepayable
	next.outstandingPrincipal = l.terms.Principal
	next.interestCollected = decimal.Zero
	next.penaltyCollected = decimal.Zero
	next.daysInArrears = 0
	next.status = valueobject.LoanStatusDisbursed
	next.disbursedAt = now
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewScheduleRegenerated(
		l.id, l.organizationID, len(schedule),
	))
	return next, nil
}

// ApplyAllocation installs the mutated schedule lines produced by the payment
// allocator and refreshes the cached aggregate fields: outstanding principal
// drops by the principal actually allocated (floored at zero), days in
// arrears become the maximum delayed days across unpaid lines, and the status
// is re-derived from that figure. The returned bool reports whether the
// status changed, which is the trigger for a new classification record.
func (l Loan) ApplyAllocation(
	updated []Installment,
	principalPaid, interestPaid, penaltyPaid decimal.Decimal,
	now time.Time,
) (Loan, bool) {
	next := l
	next.installments = copyInstallments(updated)

	next.outstandingPrincipal = l.outstandingPrincipal.Sub(principalPaid)
	if next.outstandingPrincipal.IsNegative() {
		next.outstandingPrincipal = decimal.Zero
	}
	next.interestCollected = l.interestCollected.Add(interestPaid)
	next.penaltyCollected = l.penaltyCollected.Add(penaltyPaid)
	next.daysInArrears = maxUnpaidDelayedDays(next.installments)
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)

	next.status = next.deriveStatus()
	statusChanged := !next.status.Equal(l.status)
	if statusChanged {
		next.domainEvents = append(next.domainEvents, event.NewLoanReclassified(
			l.id, l.organizationID, l.status.String(), next.status.String(), next.daysInArrears,
		))
	}
	return next, statusChanged
}

// AccrueDailyArrears runs the daily batch transition over every schedule
// line, adding one delayed day to each unpaid, past-due installment, then
// refreshes days-in-arrears and status. The int return is the number of
// lines that accrued.
func (l Loan) AccrueDailyArrears(today time.Time) (Loan, int) {
	next := l
	next.installments = make([]Installment, len(l.installments))
	accrued := 0
	for idx, line := range l.installments {
		updated, changed := line.AccrueDelayedDay(today)
		next.installments[idx] = updated
		if changed {
			accrued++
		}
	}
	if accrued == 0 {
		return l, 0
	}
	next.daysInArrears = maxUnpaidDelayedDays(next.installments)
	next.updatedAt = today
	next.domainEvents = copyEvents(l.domainEvents)

	next.status = next.deriveStatus()
	if !next.status.Equal(l.status) {
		next.domainEvents = append(next.domainEvents, event.NewLoanReclassified(
			l.id, l.organizationID, l.status.String(), next.status.String(), next.daysInArrears,
		))
	}
	return next, accrued
}

// ApplyReversal backs the given transaction's allocation out of the schedule
// and restores the outstanding principal. The loan leaves CLOSED status if
// the reversal re-opens a balance.
func (l Loan) ApplyReversal(tx Transaction, now time.Time) (Loan, error) {
	if !tx.Active {
		return l, ErrAlreadyReversed
	}

	next := l
	next.installments = copyInstallments(l.installments)
	for _, line := range tx.Lines {
		idx := indexOfInstallment(next.installments, line.InstallmentNumber)
		if idx < 0 {
			return l, fmt.Errorf("%w: installment %d not found for reversal", ErrValidation, line.InstallmentNumber)
		}
		next.installments[idx] = next.installments[idx].ReversePayment(
			line.Principal, line.Interest, line.Penalty, line.DelayedDaysBefore,
		)
	}

	next.outstandingPrincipal = l.outstandingPrincipal.Add(tx.PrincipalPaid)
	if next.outstandingPrincipal.GreaterThan(l.terms.Principal) {
		next.outstandingPrincipal = l.terms.Principal
	}
	next.interestCollected = l.interestCollected.Sub(tx.InterestPaid)
	if next.interestCollected.IsNegative() {
		next.interestCollected = decimal.Zero
	}
	next.penaltyCollected = l.penaltyCollected.Sub(tx.PenaltyPaid)
	if next.penaltyCollected.IsNegative() {
		next.penaltyCollected = decimal.Zero
	}
	next.daysInArrears = maxUnpaidDelayedDays(next.installments)
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)

	next.status = next.deriveStatus()
	if !next.status.Equal(l.status) {
		next.domainEvents = append(next.domainEvents, event.NewLoanReclassified(
			l.id, l.organizationID, l.status.String(), next.status.String(), next.daysInArrears,
		))
	}
	return next, nil
}

// Reclassify refreshes the cached arrears view from the schedule as of a
// date: days in arrears become the point-in-time maximum over unpaid lines
// and the status is re-derived from it. The bool reports whether the status
// moved.
func (l Loan) Reclassify(asOf, now time.Time) (Loan, bool) {
	next := l
	next.daysInArrears = l.DaysInArrearsAsOf(asOf)
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)

	next.status = next.deriveStatus()
	statusChanged := !next.status.Equal(l.status)
	if statusChanged {
		next.domainEvents = append(next.domainEvents, event.NewLoanReclassified(
			l.id, l.organizationID, l.status.String(), next.status.String(), next.daysInArrears,
		))
	}
	return next, statusChanged
}

// WriteOff marks the loan written off. Terminal.
func (l Loan) WriteOff(now time.Time) (Loan, error) {
	if l.status.IsTerminal() {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusWrittenOff
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanReclassified(
		l.id, l.organizationID, l.status.String(), valueobject.LoanStatusWrittenOff.String(), l.daysInArrears,
	))
	return next, nil
}

// deriveStatus recomputes the lifecycle stage from the materialized view:
// closed once nothing is outstanding and every line is settled, otherwise the
// arrears bucket of the current days-in-arrears. Terminal states stick.
func (l Loan) deriveStatus() valueobject.LoanStatus {
	if l.status.Equal(valueobject.LoanStatusWrittenOff) {
		return l.status
	}
	if l.outstandingPrincipal.LessThanOrEqual(decimal.Zero) && allPaid(l.installments) {
		return valueobject.LoanStatusClosed
	}
	return valueobject.ClassifyArrears(l.daysInArrears).LoanStatus()
}

// ---------------------------------------------------------------------------
// Read helpers
// ---------------------------------------------------------------------------

// DaysInArrearsAsOf computes the point-in-time arrears figure: the maximum
// gap between today and the due date of any unpaid line, zero when nothing is
// overdue.
func (l Loan) DaysInArrearsAsOf(today time.Time) int {
	maxDays := 0
	for _, line := range l.installments {
		if line.IsPaid() {
			continue
		}
		if d := DaysBetween(line.DueDate, today); d > maxDays {
			maxDays = d
		}
	}
	return maxDays
}

// NextUnpaidInstallment returns the earliest unpaid line in due-date order.
func (l Loan) NextUnpaidInstallment() (Installment, bool) {
	for _, line := range l.installments {
		if !line.IsPaid() {
			return line, true
		}
	}
	return Installment{}, false
}

func maxUnpaidDelayedDays(installments []Installment) int {
	maxDays := 0
	for _, line := range installments {
		if line.IsPaid() {
			continue
		}
		if line.DelayedDays > maxDays {
			maxDays = line.DelayedDays
		}
	}
	return maxDays
}

func allPaid(installments []Installment) bool {
	for _, line := range installments {
		if !line.IsPaid() {
			return false
		}
	}
	return true
}

func indexOfInstallment(installments []Installment, number int) int {
	for idx, line := range installments {
		if line.Number == number {
			return idx
		}
	}
	return -1
}

func scheduleTotals(schedule []Installment) (totalInterest, totalRepayable decimal.Decimal) {
	totalInterest = decimal.Zero
	totalRepayable = decimal.Zero
	for _, line := range schedule {
		totalInterest = totalInterest.Add(line.DueInterest)
		totalRepayable = totalRepayable.Add(line.DueTotal)
	}
	return totalInterest, totalRepayable
}

func copyInstallments(in []Installment) []Installment {
	out := make([]Installment, len(in))
	copy(out, in)
	return out
}

func copyEvents(in []event.DomainEvent) []event.DomainEvent {
	if in == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(in))
	copy(out, in)
	return out
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                            { return l.id }
func (l Loan) OrganizationID() string                { return l.organizationID }
func (l Loan) BorrowerID() string                    { return l.borrowerID }
func (l Loan) Terms() LoanTerms                      { return l.terms }
func (l Loan) Principal() decimal.Decimal            { return l.terms.Principal }
func (l Loan) Currency() string                      { return l.terms.Currency }
func (l Loan) TotalInstallments() int                { return l.totalInstallments }
func (l Loan) TotalInterest() decimal.Decimal        { return l.totalInterest }
func (l Loan) TotalRepayable() decimal.Decimal       { return l.totalRepayable }
func (l Loan) OutstandingPrincipal() decimal.Decimal { return l.outstandingPrincipal }
func (l Loan) InterestCollected() decimal.Decimal    { return l.interestCollected }
func (l Loan) PenaltyCollected() decimal.Decimal     { return l.penaltyCollected }
func (l Loan) DaysInArrears() int                    { return l.daysInArrears }
func (l Loan) Status() valueobject.LoanStatus        { return l.status }
func (l Loan) DisbursedAt() time.Time                { return l.disbursedAt }
func (l Loan) Version() int                          { return l.version }
func (l Loan) CreatedAt() time.Time                  { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                  { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent     { return l.domainEvents }

// Installments returns a copy of the schedule, ordered by line number.
// Callers must not rely on mutating the returned slice.
func (l Loan) Installments() []Installment {
	if l.installments == nil {
		return nil
	}
	return copyInstallments(l.installments)
}

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}
