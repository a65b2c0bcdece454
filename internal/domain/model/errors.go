package model

import "errors"

// Sentinel errors shared across the loan servicing core. Use cases wrap these
// with context via fmt.Errorf and callers match with errors.Is.
var (
	// ErrValidation marks bad input shape or range (non-positive amounts,
	// missing dates).
	ErrValidation = errors.New("validation failed")

	// ErrLoanNotFound is returned when a loan does not exist for the
	// organization, including cross-tenant lookups.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrTransactionNotFound is returned when a payment record does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNoSchedule is returned when a loan has no repayment schedule yet;
	// the loan must be disbursed before payments can be processed.
	ErrNoSchedule = errors.New("no repayment schedule found")

	// ErrDuplicatePayment is returned when the duplicate-payment guard
	// rejects a payment that matches a recent active transaction.
	ErrDuplicatePayment = errors.New("duplicate payment")

	// ErrInvalidAmount is returned when a payment amount fails validation,
	// e.g. exceeds twice the next due installment.
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrAlreadyReversed is returned when reversing a transaction that is no
	// longer active.
	ErrAlreadyReversed = errors.New("transaction already reversed")

	// ErrClassificationNotFound is returned when a loan has no provisioning
	// record yet.
	ErrClassificationNotFound = errors.New("classification not found")

	// ErrSnapshotNotFound is returned when no portfolio snapshot exists for
	// the organization and date.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
