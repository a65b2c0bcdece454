package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan. After disbursement the
// non-terminal stages mirror the arrears classification of the loan.
type LoanStatus struct {
	value string
}

const (
	loanStatusPending     = "PENDING"
	loanStatusApproved    = "APPROVED"
	loanStatusDisbursed   = "DISBURSED"
	loanStatusPerforming  = "PERFORMING"
	loanStatusWatch       = "WATCH"
	loanStatusSubstandard = "SUBSTANDARD"
	loanStatusDoubtful    = "DOUBTFUL"
	loanStatusLoss        = "LOSS"
	loanStatusClosed      = "CLOSED"
	loanStatusWrittenOff  = "WRITTEN_OFF"
)

var (
	LoanStatusPending     = LoanStatus{value: loanStatusPending}
	LoanStatusApproved    = LoanStatus{value: loanStatusApproved}
	LoanStatusDisbursed   = LoanStatus{value: loanStatusDisbursed}
	LoanStatusPerforming  = LoanStatus{value: loanStatusPerforming}
	LoanStatusWatch       = LoanStatus{value: loanStatusWatch}
	LoanStatusSubstandard = LoanStatus{value: loanStatusSubstandard}
	LoanStatusDoubtful    = LoanStatus{value: loanStatusDoubtful}
	LoanStatusLoss        = LoanStatus{value: loanStatusLoss}
	LoanStatusClosed      = LoanStatus{value: loanStatusClosed}
	LoanStatusWrittenOff  = LoanStatus{value: loanStatusWrittenOff}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusPending:     LoanStatusPending,
	loanStatusApproved:    LoanStatusApproved,
	loanStatusDisbursed:   LoanStatusDisbursed,
	loanStatusPerforming:  LoanStatusPerforming,
	loanStatusWatch:       LoanStatusWatch,
	loanStatusSubstandard: LoanStatusSubstandard,
	loanStatusDoubtful:    LoanStatusDoubtful,
	loanStatusLoss:        LoanStatusLoss,
	loanStatusClosed:      LoanStatusClosed,
	loanStatusWrittenOff:  LoanStatusWrittenOff,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// IsTerminal reports whether the status admits no further transitions.
func (s LoanStatus) IsTerminal() bool {
	return s.value == loanStatusClosed || s.value == loanStatusWrittenOff
}

// IsServiceable reports whether the loan can accept payments.
func (s LoanStatus) IsServiceable() bool {
	switch s.value {
	case loanStatusDisbursed, loanStatusPerforming, loanStatusWatch,
		loanStatusSubstandard, loanStatusDoubtful, loanStatusLoss:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// InstallmentStatus – immutable value object
// ---------------------------------------------------------------------------

// InstallmentStatus represents the payment state of a single schedule line.
type InstallmentStatus struct {
	value string
}

const (
	installmentStatusPending = "PENDING"
	installmentStatusPartial = "PARTIAL"
	installmentStatusPaid    = "PAID"
	installmentStatusOverdue = "OVERDUE"
)

var (
	InstallmentStatusPending = InstallmentStatus{value: installmentStatusPending}
	InstallmentStatusPartial = InstallmentStatus{value: installmentStatusPartial}
	InstallmentStatusPaid    = InstallmentStatus{value: installmentStatusPaid}
	InstallmentStatusOverdue = InstallmentStatus{value: installmentStatusOverdue}
)

var validInstallmentStatuses = map[string]InstallmentStatus{
	installmentStatusPending: InstallmentStatusPending,
	installmentStatusPartial: InstallmentStatusPartial,
	installmentStatusPaid:    InstallmentStatusPaid,
	installmentStatusOverdue: InstallmentStatusOverdue,
}

// NewInstallmentStatus creates an InstallmentStatus from a raw string.
func NewInstallmentStatus(s string) (InstallmentStatus, error) {
	v, ok := validInstallmentStatuses[s]
	if !ok {
		return InstallmentStatus{}, fmt.Errorf("invalid installment status: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (s InstallmentStatus) String() string { return s.value }

// IsZero returns true when not initialised.
func (s InstallmentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses match.
func (s InstallmentStatus) Equal(other InstallmentStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// ArrearsClass – immutable value object
// ---------------------------------------------------------------------------

// ArrearsClass is the regulatory arrears bucket of a loan, derived from its
// days in arrears.
type ArrearsClass struct {
	value string
}

const (
	arrearsClassNormal      = "NORMAL"
	arrearsClassWatch       = "WATCH"
	arrearsClassSubstandard = "SUBSTANDARD"
	arrearsClassDoubtful    = "DOUBTFUL"
	arrearsClassLoss        = "LOSS"
)

var (
	ArrearsClassNormal      = ArrearsClass{value: arrearsClassNormal}
	ArrearsClassWatch       = ArrearsClass{value: arrearsClassWatch}
	ArrearsClassSubstandard = ArrearsClass{value: arrearsClassSubstandard}
	ArrearsClassDoubtful    = ArrearsClass{value: arrearsClassDoubtful}
	ArrearsClassLoss        = ArrearsClass{value: arrearsClassLoss}
)

var validArrearsClasses = map[string]ArrearsClass{
	arrearsClassNormal:      ArrearsClassNormal,
	arrearsClassWatch:       ArrearsClassWatch,
	arrearsClassSubstandard: ArrearsClassSubstandard,
	arrearsClassDoubtful:    ArrearsClassDoubtful,
	arrearsClassLoss:        ArrearsClassLoss,
}

// Regulatory arrears thresholds, in days.
const (
	NormalMaxDays      = 30
	WatchMaxDays       = 90
	SubstandardMaxDays = 180
	DoubtfulMaxDays    = 365
)

// NewArrearsClass creates an ArrearsClass from a raw string.
func NewArrearsClass(s string) (ArrearsClass, error) {
	v, ok := validArrearsClasses[s]
	if !ok {
		return ArrearsClass{}, fmt.Errorf("invalid arrears class: %q", s)
	}
	return v, nil
}

// ClassifyArrears buckets days-in-arrears into an ArrearsClass.
func ClassifyArrears(daysInArrears int) ArrearsClass {
	switch {
	case daysInArrears <= NormalMaxDays:
		return ArrearsClassNormal
	case daysInArrears <= WatchMaxDays:
		return ArrearsClassWatch
	case daysInArrears <= SubstandardMaxDays:
		return ArrearsClassSubstandard
	case daysInArrears <= DoubtfulMaxDays:
		return ArrearsClassDoubtful
	default:
		return ArrearsClassLoss
	}
}

// String returns the string representation.
func (c ArrearsClass) String() string { return c.value }

// IsZero returns true when not initialised.
func (c ArrearsClass) IsZero() bool { return c.value == "" }

// Equal returns true when both classes match.
func (c ArrearsClass) Equal(other ArrearsClass) bool { return c.value == other.value }

// ProvisioningRate returns the fraction of net exposure that must be held as
// a loss provision for this class.
func (c ArrearsClass) ProvisioningRate() decimal.Decimal {
	switch c.value {
	case arrearsClassWatch:
		return decimal.NewFromFloat(0.05)
	case arrearsClassSubstandard:
		return decimal.NewFromFloat(0.25)
	case arrearsClassDoubtful:
		return decimal.NewFromFloat(0.50)
	case arrearsClassLoss:
		return decimal.NewFromInt(1)
	default:
		return decimal.NewFromFloat(0.01)
	}
}

// LoanStatus maps the class onto the matching loan lifecycle stage.
func (c ArrearsClass) LoanStatus() LoanStatus {
	switch c.value {
	case arrearsClassWatch:
		return LoanStatusWatch
	case arrearsClassSubstandard:
		return LoanStatusSubstandard
	case arrearsClassDoubtful:
		return LoanStatusDoubtful
	case arrearsClassLoss:
		return LoanStatusLoss
	default:
		return LoanStatusPerforming
	}
}

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
