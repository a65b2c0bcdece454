package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Loan lifecycle events
// ---------------------------------------------------------------------------

// LoanDisbursed is raised when funds are disbursed and a schedule generated.
type LoanDisbursed struct {
	events.BaseEvent
	BorrowerID        string          `json:"borrower_id"`
	Principal         decimal.Decimal `json:"principal"`
	Currency          string          `json:"currency"`
	AnnualRate        decimal.Decimal `json:"annual_rate"`
	TermMonths        int             `json:"term_months"`
	Modality          string          `json:"modality"`
	TotalInstallments int             `json:"total_installments"`
}

func NewLoanDisbursed(
	loanID, organizationID, borrowerID string,
	principal decimal.Decimal, currency string,
	annualRate decimal.Decimal, termMonths int,
	modality string, totalInstallments int,
) LoanDisbursed {
	return LoanDisbursed{
		BaseEvent:         events.NewBaseEvent("lms.loan.disbursed", loanID, "Loan", organizationID),
		BorrowerID:        borrowerID,
		Principal:         principal,
		Currency:          currency,
		AnnualRate:        annualRate,
		TermMonths:        termMonths,
		Modality:          modality,
		TotalInstallments: totalInstallments,
	}
}

// ScheduleRegenerated is raised when a re-disbursement replaces the schedule
// wholesale.
type ScheduleRegenerated struct {
	events.BaseEvent
	TotalInstallments int `json:"total_installments"`
}

func NewScheduleRegenerated(loanID, organizationID string, totalInstallments int) ScheduleRegenerated {
	return ScheduleRegenerated{
		BaseEvent:         events.NewBaseEvent("lms.loan.schedule_regenerated", loanID, "Loan", organizationID),
		TotalInstallments: totalInstallments,
	}
}

// PaymentProcessed is raised when a payment is allocated against a loan.
type PaymentProcessed struct {
	events.BaseEvent
	TransactionID        string          `json:"transaction_id"`
	Amount               decimal.Decimal `json:"amount"`
	PrincipalPaid        decimal.Decimal `json:"principal_paid"`
	InterestPaid         decimal.Decimal `json:"interest_paid"`
	PenaltyPaid          decimal.Decimal `json:"penalty_paid"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	LoanStatus           string          `json:"loan_status"`
}

func NewPaymentProcessed(
	loanID, organizationID, transactionID string,
	amount, principalPaid, interestPaid, penaltyPaid, outstanding decimal.Decimal,
	loanStatus string,
) PaymentProcessed {
	return PaymentProcessed{
		BaseEvent:            events.NewBaseEvent("lms.loan.payment_processed", loanID, "Loan", organizationID),
		TransactionID:        transactionID,
		Amount:               amount,
		PrincipalPaid:        principalPaid,
		InterestPaid:         interestPaid,
		PenaltyPaid:          penaltyPaid,
		OutstandingPrincipal: outstanding,
		LoanStatus:           loanStatus,
	}
}

// PaymentReversed is raised when a transaction is undone with an offsetting
// entry.
type PaymentReversed struct {
	events.BaseEvent
	TransactionID string          `json:"transaction_id"`
	ReversalID    string          `json:"reversal_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
}

func NewPaymentReversed(loanID, organizationID, transactionID, reversalID string, amount decimal.Decimal, reason string) PaymentReversed {
	return PaymentReversed{
		BaseEvent:     events.NewBaseEvent("lms.loan.payment_reversed", loanID, "Loan", organizationID),
		TransactionID: transactionID,
		ReversalID:    reversalID,
		Amount:        amount,
		Reason:        reason,
	}
}

// LoanReclassified is raised whenever the loan's lifecycle status changes.
type LoanReclassified struct {
	events.BaseEvent
	FromStatus    string `json:"from_status"`
	ToStatus      string `json:"to_status"`
	DaysInArrears int    `json:"days_in_arrears"`
}

func NewLoanReclassified(loanID, organizationID, fromStatus, toStatus string, daysInArrears int) LoanReclassified {
	return LoanReclassified{
		BaseEvent:     events.NewBaseEvent("lms.loan.reclassified", loanID, "Loan", organizationID),
		FromStatus:    fromStatus,
		ToStatus:      toStatus,
		DaysInArrears: daysInArrears,
	}
}

// SnapshotCreated is raised when a daily portfolio snapshot is persisted.
type SnapshotCreated struct {
	events.BaseEvent
	Date             time.Time       `json:"date"`
	TotalLoans       int             `json:"total_loans"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalProvisions  decimal.Decimal `json:"total_provisions"`
}

func NewSnapshotCreated(snapshotID, organizationID string, date time.Time, totalLoans int, outstanding, provisions decimal.Decimal) SnapshotCreated {
	return SnapshotCreated{
		BaseEvent:        events.NewBaseEvent("lms.portfolio.snapshot_created", snapshotID, "PortfolioSnapshot", organizationID),
		Date:             date,
		TotalLoans:       totalLoans,
		TotalOutstanding: outstanding,
		TotalProvisions:  provisions,
	}
}
