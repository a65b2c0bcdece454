package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

// ratioPlaces is the precision for portfolio ratios (PAR, adequacy,
// coverage).
const ratioPlaces = int32(6)

// PortfolioAggregator rolls a set of loans and their latest provisioning
// records up into a daily portfolio snapshot.
type PortfolioAggregator struct{}

// NewPortfolioAggregator creates an aggregator.
func NewPortfolioAggregator() *PortfolioAggregator {
	return &PortfolioAggregator{}
}

// BuildSnapshot aggregates the portfolio as of date. classifications maps
// loan ID to the loan's most recent provisioning record; loans without one
// contribute outstanding balance but no provisions or collateral. Ratios are
// zero for an empty portfolio rather than dividing by zero.
func (p *PortfolioAggregator) BuildSnapshot(
	organizationID string,
	date, now time.Time,
	loans []model.Loan,
	classifications map[string]model.Classification,
) model.PortfolioSnapshot {
	snap := model.NewPortfolioSnapshot(organizationID, date, now)

	par30 := decimal.Zero
	par90 := decimal.Zero
	par90p := decimal.Zero
	provisionsHeld := decimal.Zero
	provisionsRequired := decimal.Zero

	for _, loan := range loans {
		outstanding := loan.OutstandingPrincipal()
		snap.TotalLoans++
		snap.TotalOutstanding = snap.TotalOutstanding.Add(outstanding)

		days := loan.DaysInArrearsAsOf(date)
		switch {
		case days > 90:
			par90p = par90p.Add(outstanding)
		case days > 30:
			par90 = par90.Add(outstanding)
		case days > 0:
			par30 = par30.Add(outstanding)
		}

		var required, held, collateral decimal.Decimal
		c, ok := classifications[loan.ID()]
		if ok {
			required = c.ProvisionRequired
			held = c.PreviousProvisionsHeld
			collateral = c.CollateralValue
		}
		provisionsRequired = provisionsRequired.Add(required)
		provisionsHeld = provisionsHeld.Add(held)
		snap.TotalProvisions = snap.TotalProvisions.Add(required)
		snap.TotalCollateral = snap.TotalCollateral.Add(collateral)

		class := c.Class
		if !ok || class.IsZero() {
			class = valueobject.ClassifyArrears(days)
		}
		key := class.String()
		bucket := snap.Buckets[key]
		bucket.Count++
		bucket.Outstanding = bucket.Outstanding.Add(outstanding)
		bucket.Provisions = bucket.Provisions.Add(required)
		snap.Buckets[key] = bucket
	}

	if snap.TotalOutstanding.GreaterThan(decimal.Zero) {
		snap.PAR30 = par30.Div(snap.TotalOutstanding).Round(ratioPlaces)
		snap.PAR90 = par90.Div(snap.TotalOutstanding).Round(ratioPlaces)
		snap.PAR90P = par90p.Div(snap.TotalOutstanding).Round(ratioPlaces)
		snap.CollateralCoverage = snap.TotalCollateral.Div(snap.TotalOutstanding).Round(ratioPlaces)
	}
	if provisionsRequired.GreaterThan(decimal.Zero) {
		snap.ProvisionAdequacy = provisionsHeld.Div(provisionsRequired).Round(ratioPlaces)
	}
	return snap
}
