package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

// ClassificationRepository is the PostgreSQL implementation of
// port.ClassificationRepository. Records are immutable; the history of a loan
// is the ordered list of its records.
type ClassificationRepository struct {
	pool *pgxpool.Pool
}

// NewClassificationRepository creates a new ClassificationRepository.
func NewClassificationRepository(pool *pgxpool.Pool) *ClassificationRepository {
	return &ClassificationRepository{pool: pool}
}

const classificationColumns = `id, organization_id, loan_id, as_of, days_in_arrears, class,
	outstanding_balance, collateral_value, net_exposure,
	provisioning_rate, provision_required,
	previous_provisions_held, additional_provisions, created_at`

// Save inserts a new provisioning record.
func (r *ClassificationRepository) Save(ctx context.Context, c model.Classification) error {
	q := querier(ctx, r.pool)

	query := `
		INSERT INTO loan_classifications (` + classificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	if _, err := q.Exec(ctx, query,
		c.ID, c.OrganizationID, c.LoanID, c.AsOf, c.DaysInArrears, c.Class.String(),
		c.OutstandingBalance, c.CollateralValue, c.NetExposure,
		c.ProvisioningRate, c.ProvisionRequired,
		c.PreviousProvisionsHeld, c.AdditionalProvisions, c.CreatedAt,
	); err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	return nil
}

// FindLatestByLoan returns the most recent record for the loan.
func (r *ClassificationRepository) FindLatestByLoan(ctx context.Context, loanID string) (model.Classification, error) {
	q := querier(ctx, r.pool)

	query := `SELECT ` + classificationColumns + ` FROM loan_classifications
		WHERE loan_id = $1
		ORDER BY created_at DESC, id
		LIMIT 1`

	c, err := scanClassificationRow(q.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Classification{}, model.ErrClassificationNotFound
		}
		return model.Classification{}, fmt.Errorf("find latest classification: %w", err)
	}
	return c, nil
}

// ListByLoan pages through the loan's classification history, newest first.
func (r *ClassificationRepository) ListByLoan(ctx context.Context, loanID string, offset, limit int) ([]model.Classification, error) {
	q := querier(ctx, r.pool)

	query := `SELECT ` + classificationColumns + ` FROM loan_classifications
		WHERE loan_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3`

	rows, err := q.Query(ctx, query, loanID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	defer rows.Close()

	var records []model.Classification
	for rows.Next() {
		c, err := scanClassificationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	return records, nil
}

func scanClassificationRow(row scannable) (model.Classification, error) {
	var (
		c        model.Classification
		classRaw string
	)
	if err := row.Scan(
		&c.ID, &c.OrganizationID, &c.LoanID, &c.AsOf, &c.DaysInArrears, &classRaw,
		&c.OutstandingBalance, &c.CollateralValue, &c.NetExposure,
		&c.ProvisioningRate, &c.ProvisionRequired,
		&c.PreviousProvisionsHeld, &c.AdditionalProvisions, &c.CreatedAt,
	); err != nil {
		return model.Classification{}, err
	}
	class, err := valueobject.NewArrearsClass(classRaw)
	if err != nil {
		return model.Classification{}, fmt.Errorf("classification %s: %w", c.ID, err)
	}
	c.Class = class
	return c, nil
}
