package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CustomInstallmentInput is one caller-supplied line for a customized
// schedule. Principal and Interest are optional; when omitted the generator
// derives the split.
type CustomInstallmentInput struct {
	Number    int              `json:"number"`
	DueDate   time.Time        `json:"due_date"`
	Amount    decimal.Decimal  `json:"amount"`
	Principal *decimal.Decimal `json:"principal,omitempty"`
	Interest  *decimal.Decimal `json:"interest,omitempty"`
}

// DisburseLoanRequest carries the data needed to disburse a loan and generate
// its repayment schedule. Frequency and InterestMethod tolerate legacy
// free-form values; unknown ones fall back to defaults with a logged warning.
type DisburseLoanRequest struct {
	OrganizationID      string                   `json:"organization_id"`
	LoanID              string                   `json:"loan_id,omitempty"`
	BorrowerID          string                   `json:"borrower_id"`
	Principal           decimal.Decimal          `json:"principal"`
	Currency            string                   `json:"currency"`
	AnnualRate          decimal.Decimal          `json:"annual_rate"`
	TermMonths          int                      `json:"term_months"`
	Frequency           string                   `json:"frequency"`
	InterestMethod      string                   `json:"interest_method"`
	Modality            string                   `json:"modality"`
	DisbursementFee     decimal.Decimal          `json:"disbursement_fee"`
	SinglePaymentMonths int                      `json:"single_payment_months,omitempty"`
	CustomInstallments  []CustomInstallmentInput `json:"custom_installments,omitempty"`
}

// ProcessPaymentRequest carries one repayment to allocate against a loan.
type ProcessPaymentRequest struct {
	OrganizationID string          `json:"organization_id"`
	LoanID         string          `json:"loan_id"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Method         string          `json:"method"`
	ProofURL       string          `json:"proof_url,omitempty"`
	// ProofName and ProofData carry an uploaded payment proof; the stored
	// artifact's URL supersedes ProofURL.
	ProofName string `json:"proof_name,omitempty"`
	ProofData []byte `json:"proof_data,omitempty"`
	Notes     string `json:"notes,omitempty"`
	// Force skips the duplicate-payment guard for intentional repeat
	// payments.
	Force bool `json:"force,omitempty"`
}

// ReverseTransactionRequest identifies a payment to undo.
type ReverseTransactionRequest struct {
	OrganizationID string `json:"organization_id"`
	TransactionID  string `json:"transaction_id"`
	Reason         string `json:"reason"`
}

// ClassifyLoanRequest triggers classification and provisioning of one loan.
type ClassifyLoanRequest struct {
	OrganizationID string    `json:"organization_id"`
	LoanID         string    `json:"loan_id"`
	AsOf           time.Time `json:"as_of"`
}

// BatchClassifyRequest runs classification over an organization's active
// portfolio.
type BatchClassifyRequest struct {
	OrganizationID string    `json:"organization_id"`
	AsOf           time.Time `json:"as_of"`
}

// UpdateDelayedDaysRequest runs the daily arrears batch for an organization.
type UpdateDelayedDaysRequest struct {
	OrganizationID string    `json:"organization_id"`
	Today          time.Time `json:"today"`
}

// CreateSnapshotRequest builds the daily portfolio snapshot.
type CreateSnapshotRequest struct {
	OrganizationID string    `json:"organization_id"`
	Date           time.Time `json:"date"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	OrganizationID  string `json:"organization_id"`
	LoanID          string `json:"loan_id"`
	IncludeSchedule bool   `json:"include_schedule"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// InstallmentResponse is the external representation of one schedule line.
type InstallmentResponse struct {
	Number               int             `json:"number"`
	DueDate              time.Time       `json:"due_date"`
	DuePrincipal         decimal.Decimal `json:"due_principal"`
	DueInterest          decimal.Decimal `json:"due_interest"`
	DueTotal             decimal.Decimal `json:"due_total"`
	PaidPrincipal        decimal.Decimal `json:"paid_principal"`
	PaidInterest         decimal.Decimal `json:"paid_interest"`
	PaidTotal            decimal.Decimal `json:"paid_total"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	Penalty              decimal.Decimal `json:"penalty"`
	DelayedDays          int             `json:"delayed_days"`
	Status               string          `json:"status"`
	WasEarlyPayment      bool            `json:"was_early_payment"`
	ActualPaymentDate    *time.Time      `json:"actual_payment_date,omitempty"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID                   string                `json:"id"`
	OrganizationID       string                `json:"organization_id"`
	BorrowerID           string                `json:"borrower_id"`
	Principal            decimal.Decimal       `json:"principal"`
	Currency             string                `json:"currency"`
	AnnualRate           decimal.Decimal       `json:"annual_rate"`
	TermMonths           int                   `json:"term_months"`
	Frequency            string                `json:"frequency"`
	InterestMethod       string                `json:"interest_method"`
	Modality             string                `json:"modality"`
	Status               string                `json:"status"`
	TotalInstallments    int                   `json:"total_installments"`
	TotalInterest        decimal.Decimal       `json:"total_interest"`
	TotalRepayable       decimal.Decimal       `json:"total_repayable"`
	OutstandingPrincipal decimal.Decimal       `json:"outstanding_principal"`
	InterestCollected    decimal.Decimal       `json:"interest_collected"`
	PenaltyCollected     decimal.Decimal       `json:"penalty_collected"`
	DaysInArrears        int                   `json:"days_in_arrears"`
	DisbursedAt          time.Time             `json:"disbursed_at"`
	Schedule             []InstallmentResponse `json:"schedule,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// AllocationLineResponse reports how much of a payment landed on one line.
type AllocationLineResponse struct {
	InstallmentNumber int             `json:"installment_number"`
	Principal         decimal.Decimal `json:"principal"`
	Interest          decimal.Decimal `json:"interest"`
	Penalty           decimal.Decimal `json:"penalty"`
}

// PaymentResponse is the external representation of a processed payment.
type PaymentResponse struct {
	TransactionID        string                   `json:"transaction_id"`
	LoanID               string                   `json:"loan_id"`
	Amount               decimal.Decimal          `json:"amount"`
	PrincipalPaid        decimal.Decimal          `json:"principal_paid"`
	InterestPaid         decimal.Decimal          `json:"interest_paid"`
	PenaltyPaid          decimal.Decimal          `json:"penalty_paid"`
	ExcessAmount         decimal.Decimal          `json:"excess_amount"`
	Lines                []AllocationLineResponse `json:"lines"`
	OutstandingPrincipal decimal.Decimal          `json:"outstanding_principal"`
	LoanStatus           string                   `json:"loan_status"`
	DaysInArrears        int                      `json:"days_in_arrears"`
}

// ReversalResponse is the external representation of a reversal.
type ReversalResponse struct {
	ReversalID           string          `json:"reversal_id"`
	OriginalID           string          `json:"original_id"`
	LoanID               string          `json:"loan_id"`
	Amount               decimal.Decimal `json:"amount"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	LoanStatus           string          `json:"loan_status"`
}

// ClassificationResponse is the external representation of a provisioning
// record.
type ClassificationResponse struct {
	ID                     string          `json:"id"`
	LoanID                 string          `json:"loan_id"`
	AsOf                   time.Time       `json:"as_of"`
	DaysInArrears          int             `json:"days_in_arrears"`
	Class                  string          `json:"class"`
	OutstandingBalance     decimal.Decimal `json:"outstanding_balance"`
	CollateralValue        decimal.Decimal `json:"collateral_value"`
	NetExposure            decimal.Decimal `json:"net_exposure"`
	ProvisioningRate       decimal.Decimal `json:"provisioning_rate"`
	ProvisionRequired      decimal.Decimal `json:"provision_required"`
	PreviousProvisionsHeld decimal.Decimal `json:"previous_provisions_held"`
	AdditionalProvisions   decimal.Decimal `json:"additional_provisions"`
}

// BatchClassifyResponse summarizes a portfolio classification run.
type BatchClassifyResponse struct {
	LoansProcessed int      `json:"loans_processed"`
	Reclassified   int      `json:"reclassified"`
	Errors         []string `json:"errors,omitempty"`
}

// UpdateDelayedDaysResponse summarizes the daily arrears batch.
type UpdateDelayedDaysResponse struct {
	LoansProcessed   int      `json:"loans_processed"`
	UpdatedSchedules int      `json:"updated_schedules"`
	Errors           []string `json:"errors,omitempty"`
}

// ClassBucketResponse is one arrears-class aggregate inside a snapshot.
type ClassBucketResponse struct {
	Count       int             `json:"count"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Provisions  decimal.Decimal `json:"provisions"`
}

// SnapshotResponse is the external representation of a portfolio snapshot.
type SnapshotResponse struct {
	ID                 string                         `json:"id"`
	OrganizationID     string                         `json:"organization_id"`
	Date               time.Time                      `json:"date"`
	TotalLoans         int                            `json:"total_loans"`
	TotalOutstanding   decimal.Decimal                `json:"total_outstanding"`
	TotalProvisions    decimal.Decimal                `json:"total_provisions"`
	TotalCollateral    decimal.Decimal                `json:"total_collateral"`
	Buckets            map[string]ClassBucketResponse `json:"buckets"`
	PAR30              decimal.Decimal                `json:"par_30"`
	PAR90              decimal.Decimal                `json:"par_90"`
	PAR90Plus          decimal.Decimal                `json:"par_90_plus"`
	ProvisionAdequacy  decimal.Decimal                `json:"provision_adequacy"`
	CollateralCoverage decimal.Decimal                `json:"collateral_coverage"`
	AlreadyExisted     bool                           `json:"already_existed"`
}
