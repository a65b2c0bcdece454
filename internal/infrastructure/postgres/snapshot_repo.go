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

// SnapshotRepository is the PostgreSQL implementation of
// port.SnapshotRepository. A unique constraint on (organization_id, date)
// enforces one snapshot per organization per day; a second insert for the
// same day is silently skipped.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

const snapshotColumns = `id, organization_id, date,
	total_loans, total_outstanding, total_provisions, total_collateral,
	buckets, par30, par90, par90p,
	provision_adequacy, collateral_coverage, created_at`

// Save inserts the snapshot, skipping silently when one already exists for
// the organization and day.
func (r *SnapshotRepository) Save(ctx context.Context, s model.PortfolioSnapshot) error {
	q := querier(ctx, r.pool)

	buckets, err := json.Marshal(s.Buckets)
	if err != nil {
		return fmt.Errorf("marshal snapshot buckets: %w", err)
	}

	query := `
		INSERT INTO portfolio_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (organization_id, date) DO NOTHING`

	if _, err := q.Exec(ctx, query,
		s.ID, s.OrganizationID, s.Date,
		s.TotalLoans, s.TotalOutstanding, s.TotalProvisions, s.TotalCollateral,
		buckets, s.PAR30, s.PAR90, s.PAR90P,
		s.ProvisionAdequacy, s.CollateralCoverage, s.CreatedAt,
	); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// FindByOrganizationAndDate returns the snapshot for the given day when one
// exists.
func (r *SnapshotRepository) FindByOrganizationAndDate(ctx context.Context, organizationID string, date time.Time) (model.PortfolioSnapshot, bool, error) {
	q := querier(ctx, r.pool)

	query := `SELECT ` + snapshotColumns + ` FROM portfolio_snapshots
		WHERE organization_id = $1 AND date = $2`

	var (
		s       model.PortfolioSnapshot
		buckets []byte
	)
	err := q.QueryRow(ctx, query, organizationID, date).Scan(
		&s.ID, &s.OrganizationID, &s.Date,
		&s.TotalLoans, &s.TotalOutstanding, &s.TotalProvisions, &s.TotalCollateral,
		&buckets, &s.PAR30, &s.PAR90, &s.PAR90P,
		&s.ProvisionAdequacy, &s.CollateralCoverage, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PortfolioSnapshot{}, false, nil
		}
		return model.PortfolioSnapshot{}, false, fmt.Errorf("find snapshot: %w", err)
	}
	if len(buckets) > 0 {
		if err := json.Unmarshal(buckets, &s.Buckets); err != nil {
			return model.PortfolioSnapshot{}, false, fmt.Errorf("unmarshal snapshot buckets: %w", err)
		}
	}
	return s, true, nil
}
