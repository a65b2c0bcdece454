package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClassBucket aggregates loan count, outstanding balance, and provisions for
// one arrears class within a snapshot.
type ClassBucket struct {
	Count       int             `json:"count"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Provisions  decimal.Decimal `json:"provisions"`
}

// PortfolioSnapshot is the daily point-in-time aggregate for one
// organization. Exactly one snapshot exists per organization per day; the
// batch skips creation when one is already present.
type PortfolioSnapshot struct {
	ID             string
	OrganizationID string
	Date           time.Time

	TotalLoans       int
	TotalOutstanding decimal.Decimal
	TotalProvisions  decimal.Decimal
	TotalCollateral  decimal.Decimal

	// Buckets are keyed by arrears class name.
	Buckets map[string]ClassBucket

	// PAR buckets: outstanding balance of loans overdue within each band as
	// a fraction of total portfolio outstanding.
	PAR30  decimal.Decimal // 1-30 days
	PAR90  decimal.Decimal // 31-90 days
	PAR90P decimal.Decimal // over 90 days

	ProvisionAdequacy  decimal.Decimal // provisions held / provisions required
	CollateralCoverage decimal.Decimal // effective collateral / outstanding

	CreatedAt time.Time
}

// NewPortfolioSnapshot creates a snapshot shell for the given organization
// and day; the portfolio aggregator fills the figures.
func NewPortfolioSnapshot(organizationID string, date, now time.Time) PortfolioSnapshot {
	return PortfolioSnapshot{
		ID:                 uuid.New().String(),
		OrganizationID:     organizationID,
		Date:               date,
		TotalOutstanding:   decimal.Zero,
		TotalProvisions:    decimal.Zero,
		TotalCollateral:    decimal.Zero,
		Buckets:            make(map[string]ClassBucket),
		PAR30:              decimal.Zero,
		PAR90:              decimal.Zero,
		PAR90P:             decimal.Zero,
		ProvisionAdequacy:  decimal.Zero,
		CollateralCoverage: decimal.Zero,
		CreatedAt:          now,
	}
}
