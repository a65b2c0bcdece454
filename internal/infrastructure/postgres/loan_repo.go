package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

// LoanRepository is the PostgreSQL implementation of port.LoanRepository.
// Loans use optimistic locking on the version column; the schedule lives in
// loan_installments and is rewritten wholesale on every save, since payments
// mutate lines in place and re-disbursement regenerates the schedule.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, organization_id, borrower_id,
	principal, currency, annual_rate, term_months,
	frequency, interest_method, modality, disbursement_fee,
	total_installments, total_interest, total_repayable,
	outstanding_principal, interest_collected, penalty_collected,
	days_in_arrears, status, disbursed_at, version, created_at, updated_at`

// Save persists the loan and its schedule. An existing row is only updated
// when its stored version matches the aggregate's version, and the version is
// bumped in the same statement.
func (r *LoanRepository) Save(ctx context.Context, loan model.Loan) error {
	q := querier(ctx, r.pool)

	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (id) DO UPDATE SET
			total_installments = EXCLUDED.total_installments,
			total_interest = EXCLUDED.total_interest,
			total_repayable = EXCLUDED.total_repayable,
			outstanding_principal = EXCLUDED.outstanding_principal,
			interest_collected = EXCLUDED.interest_collected,
			penalty_collected = EXCLUDED.penalty_collected,
			days_in_arrears = EXCLUDED.days_in_arrears,
			status = EXCLUDED.status,
			disbursed_at = EXCLUDED.disbursed_at,
			version = loans.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE loans.version = $21`

	terms := loan.Terms()
	tag, err := q.Exec(ctx, query,
		loan.ID(), loan.OrganizationID(), loan.BorrowerID(),
		terms.Principal, terms.Currency, terms.AnnualRate, terms.TermMonths,
		terms.Frequency.String(), terms.InterestMethod.String(), terms.Modality.String(), terms.DisbursementFee,
		loan.TotalInstallments(), loan.TotalInterest(), loan.TotalRepayable(),
		loan.OutstandingPrincipal(), loan.InterestCollected(), loan.PenaltyCollected(),
		loan.DaysInArrears(), loan.Status().String(), loan.DisbursedAt(),
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save loan %s: optimistic locking conflict at version %d", loan.ID(), loan.Version())
	}

	return r.saveSchedule(ctx, loan)
}

func (r *LoanRepository) saveSchedule(ctx context.Context, loan model.Loan) error {
	q := querier(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM loan_installments WHERE loan_id = $1`, loan.ID()); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}

	query := `
		INSERT INTO loan_installments (
			loan_id, number, due_date,
			due_principal, due_interest, due_total,
			paid_principal, paid_interest, paid_total,
			outstanding_principal, penalty, delayed_days,
			status, was_early_payment,
			actual_payment_date, last_payment_attempt, payment_attempts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	for _, line := range loan.Installments() {
		if _, err := q.Exec(ctx, query,
			loan.ID(), line.Number, line.DueDate,
			line.DuePrincipal, line.DueInterest, line.DueTotal,
			line.PaidPrincipal, line.PaidInterest, line.PaidTotal,
			line.OutstandingPrincipal, line.Penalty, line.DelayedDays,
			line.Status.String(), line.WasEarlyPayment,
			line.ActualPaymentDate, line.LastPaymentAttempt, line.PaymentAttempts,
		); err != nil {
			return fmt.Errorf("save installment %d: %w", line.Number, err)
		}
	}
	return nil
}

// FindByID loads a loan and its schedule.
func (r *LoanRepository) FindByID(ctx context.Context, organizationID, id string) (model.Loan, error) {
	return r.findByID(ctx, organizationID, id, false)
}

// FindByIDForUpdate loads a loan with a row lock, serializing concurrent
// payments against the same loan for the duration of the enclosing unit of
// work.
func (r *LoanRepository) FindByIDForUpdate(ctx context.Context, organizationID, id string) (model.Loan, error) {
	return r.findByID(ctx, organizationID, id, true)
}

func (r *LoanRepository) findByID(ctx context.Context, organizationID, id string, forUpdate bool) (model.Loan, error) {
	q := querier(ctx, r.pool)

	query := `SELECT ` + loanColumns + ` FROM loans WHERE organization_id = $1 AND id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	loan, err := r.scanLoanRow(ctx, q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, model.ErrLoanNotFound
		}
		return model.Loan{}, fmt.Errorf("find loan: %w", err)
	}
	return loan, nil
}

// ListActiveByOrganization pages through non-terminal loans in creation
// order. An empty organizationID lists across all organizations, for
// platform-wide batch runs.
func (r *LoanRepository) ListActiveByOrganization(ctx context.Context, organizationID string, offset, limit int) ([]model.Loan, error) {
	q := querier(ctx, r.pool)

	query := `SELECT ` + loanColumns + ` FROM loans
		WHERE ($1 = '' OR organization_id = $1) AND status NOT IN ('CLOSED', 'WRITTEN_OFF')
		ORDER BY created_at, id
		OFFSET $2 LIMIT $3`

	rows, err := q.Query(ctx, query, organizationID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list active loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := r.scanLoanRow(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("list active loans: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active loans: %w", err)
	}
	return loans, nil
}

func (r *LoanRepository) scanLoanRow(ctx context.Context, row scannable) (model.Loan, error) {
	var (
		id, organizationID, borrowerID       string
		principal, annualRate                decimal.Decimal
		currency                             string
		termMonths                           int
		frequencyRaw, methodRaw, modalityRaw string
		disbursementFee                      decimal.Decimal
		totalInstallments                    int
		totalInterest, totalRepayable        decimal.Decimal
		outstanding, interestColl, penColl   decimal.Decimal
		daysInArrears                        int
		statusRaw                            string
		disbursedAt                          time.Time
		version                              int
		createdAt, updatedAt                 time.Time
	)

	if err := row.Scan(
		&id, &organizationID, &borrowerID,
		&principal, &currency, &annualRate, &termMonths,
		&frequencyRaw, &methodRaw, &modalityRaw, &disbursementFee,
		&totalInstallments, &totalInterest, &totalRepayable,
		&outstanding, &interestColl, &penColl,
		&daysInArrears, &statusRaw, &disbursedAt, &version, &createdAt, &updatedAt,
	); err != nil {
		return model.Loan{}, err
	}

	frequency, err := valueobject.NewRepaymentFrequency(frequencyRaw)
	if err != nil {
		return model.Loan{}, fmt.Errorf("loan %s: %w", id, err)
	}
	method, err := valueobject.NewInterestMethod(methodRaw)
	if err != nil {
		return model.Loan{}, fmt.Errorf("loan %s: %w", id, err)
	}
	modality, err := valueobject.NewRepaymentModality(modalityRaw)
	if err != nil {
		return model.Loan{}, fmt.Errorf("loan %s: %w", id, err)
	}
	status, err := valueobject.NewLoanStatus(statusRaw)
	if err != nil {
		return model.Loan{}, fmt.Errorf("loan %s: %w", id, err)
	}

	installments, err := r.loadSchedule(ctx, id)
	if err != nil {
		return model.Loan{}, err
	}

	terms := model.LoanTerms{
		Principal:       principal,
		Currency:        currency,
		AnnualRate:      annualRate,
		TermMonths:      termMonths,
		Frequency:       frequency,
		InterestMethod:  method,
		Modality:        modality,
		DisbursementFee: disbursementFee,
	}

	return model.ReconstructLoan(
		id, organizationID, borrowerID,
		terms,
		totalInstallments,
		totalInterest, totalRepayable,
		outstanding, interestColl, penColl,
		daysInArrears,
		status,
		installments,
		disbursedAt,
		version,
		createdAt, updatedAt,
	), nil
}

func (r *LoanRepository) loadSchedule(ctx context.Context, loanID string) ([]model.Installment, error) {
	q := querier(ctx, r.pool)

	query := `SELECT number, due_date,
			due_principal, due_interest, due_total,
			paid_principal, paid_interest, paid_total,
			outstanding_principal, penalty, delayed_days,
			status, was_early_payment,
			actual_payment_date, last_payment_attempt, payment_attempts
		FROM loan_installments WHERE loan_id = $1 ORDER BY number`

	rows, err := q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	defer rows.Close()

	var installments []model.Installment
	for rows.Next() {
		var (
			line      model.Installment
			statusRaw string
		)
		if err := rows.Scan(
			&line.Number, &line.DueDate,
			&line.DuePrincipal, &line.DueInterest, &line.DueTotal,
			&line.PaidPrincipal, &line.PaidInterest, &line.PaidTotal,
			&line.OutstandingPrincipal, &line.Penalty, &line.DelayedDays,
			&statusRaw, &line.WasEarlyPayment,
			&line.ActualPaymentDate, &line.LastPaymentAttempt, &line.PaymentAttempts,
		); err != nil {
			return nil, fmt.Errorf("load schedule: %w", err)
		}
		status, err := valueobject.NewInstallmentStatus(statusRaw)
		if err != nil {
			return nil, fmt.Errorf("loan %s installment %d: %w", loanID, line.Number, err)
		}
		line.Status = status
		installments = append(installments, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	return installments, nil
}
