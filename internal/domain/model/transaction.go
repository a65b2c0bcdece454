package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationLine records how much of a payment landed on one installment.
// DelayedDaysBefore snapshots the line's delayed-day counter prior to the
// payment so a reversal can restore it exactly.
type AllocationLine struct {
	InstallmentNumber int             `json:"installment_number"`
	Principal         decimal.Decimal `json:"principal"`
	Interest          decimal.Decimal `json:"interest"`
	Penalty           decimal.Decimal `json:"penalty"`
	DelayedDaysBefore int             `json:"delayed_days_before"`
}

// Transaction is an immutable ledger entry for one processed payment. It is
// never updated or deleted; undoing a payment means posting an offsetting
// reversal entry and flipping Active to false on the original, so the audit
// trail survives any correction.
type Transaction struct {
	ID             string
	OrganizationID string
	LoanID         string
	Amount         decimal.Decimal
	Date           time.Time
	Method         string
	PrincipalPaid  decimal.Decimal
	InterestPaid   decimal.Decimal
	PenaltyPaid    decimal.Decimal
	// InstallmentNumber is the line the payment was primarily applied
	// against (the first line that received funds).
	InstallmentNumber int
	Lines             []AllocationLine
	Active            bool
	ReversalOf        string
	ReversalReason    string
	ProofURL          string
	Notes             string
	CreatedAt         time.Time
}

// NewTransaction creates an active ledger entry for a processed payment.
func NewTransaction(
	organizationID, loanID string,
	amount decimal.Decimal,
	date time.Time,
	method string,
	principalPaid, interestPaid, penaltyPaid decimal.Decimal,
	lines []AllocationLine,
	proofURL, notes string,
	now time.Time,
) Transaction {
	primary := 0
	if len(lines) > 0 {
		primary = lines[0].InstallmentNumber
	}
	return Transaction{
		ID:                uuid.New().String(),
		OrganizationID:    organizationID,
		LoanID:            loanID,
		Amount:            amount,
		Date:              date,
		Method:            method,
		PrincipalPaid:     principalPaid,
		InterestPaid:      interestPaid,
		PenaltyPaid:       penaltyPaid,
		InstallmentNumber: primary,
		Lines:             lines,
		Active:            true,
		ProofURL:          proofURL,
		Notes:             notes,
		CreatedAt:         now,
	}
}

// Reverse produces the paired negative entry for this transaction. The
// original must still be active; the caller persists both the deactivated
// original and the returned reversal.
func (t Transaction) Reverse(reason string, now time.Time) (Transaction, error) {
	if !t.Active {
		return Transaction{}, ErrAlreadyReversed
	}
	if reason == "" {
		return Transaction{}, fmt.Errorf("%w: reversal reason is required", ErrValidation)
	}
	return Transaction{
		ID:                uuid.New().String(),
		OrganizationID:    t.OrganizationID,
		LoanID:            t.LoanID,
		Amount:            t.Amount.Neg(),
		Date:              now,
		Method:            t.Method,
		PrincipalPaid:     t.PrincipalPaid.Neg(),
		InterestPaid:      t.InterestPaid.Neg(),
		PenaltyPaid:       t.PenaltyPaid.Neg(),
		InstallmentNumber: t.InstallmentNumber,
		Active:            false,
		ReversalOf:        t.ID,
		ReversalReason:    reason,
		CreatedAt:         now,
	}, nil
}

// Deactivated returns a copy of the original with Active cleared, for
// persisting alongside its reversal entry.
func (t Transaction) Deactivated(reason string) Transaction {
	next := t
	next.Active = false
	next.ReversalReason = reason
	return next
}

// MatchesDuplicate reports whether another payment of the given amount on the
// given date falls inside this transaction's duplicate window: amount within
// tolerance (a fraction, e.g. 0.05 for ±5%) and date within window.
func (t Transaction) MatchesDuplicate(amount decimal.Decimal, date time.Time, tolerance decimal.Decimal, window time.Duration) bool {
	if !t.Active {
		return false
	}
	gap := date.Sub(t.Date)
	if gap < 0 {
		gap = -gap
	}
	if gap > window {
		return false
	}
	band := t.Amount.Mul(tolerance).Abs()
	return amount.Sub(t.Amount).Abs().LessThanOrEqual(band)
}
