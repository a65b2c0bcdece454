package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umojafin/lms/internal/domain/model"
)

// TransactionRepository is the PostgreSQL implementation of
// port.TransactionRepository. The ledger is append-only: rows are inserted
// once and the only permitted update is clearing the active flag on
// reversal. Allocation lines are stored as JSONB alongside the entry.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, organization_id, loan_id, amount, date, method,
	principal_paid, interest_paid, penalty_paid, installment_number,
	lines, active, reversal_of, reversal_reason, proof_url, notes, created_at`

// Save inserts a new ledger entry.
func (r *TransactionRepository) Save(ctx context.Context, tx model.Transaction) error {
	q := querier(ctx, r.pool)

	lines, err := json.Marshal(tx.Lines)
	if err != nil {
		return fmt.Errorf("marshal allocation lines: %w", err)
	}

	query := `
		INSERT INTO loan_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	if _, err := q.Exec(ctx, query,
		tx.ID, tx.OrganizationID, tx.LoanID, tx.Amount, tx.Date, tx.Method,
		tx.PrincipalPaid, tx.InterestPaid, tx.PenaltyPaid, tx.InstallmentNumber,
		lines, tx.Active, tx.ReversalOf, tx.ReversalReason, tx.ProofURL, tx.Notes, tx.CreatedAt,
	); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

// FindByID loads one ledger entry.
func (r *TransactionRepository) FindByID(ctx context.Context, organizationID, id string) (model.Transaction, error) {
	q := querier(ctx, r.pool)

	query := `SELECT ` + transactionColumns + ` FROM loan_transactions
		WHERE organization_id = $1 AND id = $2`

	tx, err := scanTransactionRow(q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Transaction{}, model.ErrTransactionNotFound
		}
		return model.Transaction{}, fmt.Errorf("find transaction: %w", err)
	}
	return tx, nil
}

// FindActiveByLoanAround returns active entries for the loan whose date lies
// within the window around the given date.
func (r *TransactionRepository) FindActiveByLoanAround(ctx context.Context, loanID string, date time.Time, window time.Duration) ([]model.Transaction, error) {
	q := querier(ctx, r.pool)

	query := `SELECT ` + transactionColumns + ` FROM loan_transactions
		WHERE loan_id = $1 AND active AND date BETWEEN $2 AND $3
		ORDER BY date`

	rows, err := q.Query(ctx, query, loanID, date.Add(-window), date.Add(window))
	if err != nil {
		return nil, fmt.Errorf("find transactions around date: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListByLoan pages through the loan's full ledger, newest first.
func (r *TransactionRepository) ListByLoan(ctx context.Context, loanID string, offset, limit int) ([]model.Transaction, error) {
	q := querier(ctx, r.pool)

	query := `SELECT ` + transactionColumns + ` FROM loan_transactions
		WHERE loan_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3`

	rows, err := q.Query(ctx, query, loanID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Deactivate clears the active flag of a reversed entry.
func (r *TransactionRepository) Deactivate(ctx context.Context, id, reason string) error {
	q := querier(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE loan_transactions SET active = FALSE, reversal_reason = $2 WHERE id = $1 AND active`,
		id, reason,
	)
	if err != nil {
		return fmt.Errorf("deactivate transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAlreadyReversed
	}
	return nil
}

func collectTransactions(rows pgx.Rows) ([]model.Transaction, error) {
	var txs []model.Transaction
	for rows.Next() {
		tx, err := scanTransactionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return txs, nil
}

func scanTransactionRow(row scannable) (model.Transaction, error) {
	var (
		tx    model.Transaction
		lines []byte
	)
	if err := row.Scan(
		&tx.ID, &tx.OrganizationID, &tx.LoanID, &tx.Amount, &tx.Date, &tx.Method,
		&tx.PrincipalPaid, &tx.InterestPaid, &tx.PenaltyPaid, &tx.InstallmentNumber,
		&lines, &tx.Active, &tx.ReversalOf, &tx.ReversalReason, &tx.ProofURL, &tx.Notes, &tx.CreatedAt,
	); err != nil {
		return model.Transaction{}, err
	}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &tx.Lines); err != nil {
			return model.Transaction{}, fmt.Errorf("unmarshal allocation lines: %w", err)
		}
	}
	return tx, nil
}
