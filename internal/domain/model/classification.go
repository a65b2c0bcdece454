package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/valueobject"
)

// Classification is a point-in-time provisioning record for one loan. A new
// record is written per reclassification event or batch period; records are
// immutable once created.
type Classification struct {
	ID             string
	OrganizationID string
	LoanID         string
	AsOf           time.Time
	DaysInArrears  int
	Class          valueobject.ArrearsClass

	OutstandingBalance decimal.Decimal
	// CollateralValue is the haircut-adjusted (effective) collateral total.
	CollateralValue    decimal.Decimal
	NetExposure        decimal.Decimal
	ProvisioningRate   decimal.Decimal
	ProvisionRequired  decimal.Decimal

	// PreviousProvisionsHeld is the provision required by the most recent
	// prior record, zero when this is the first record for the loan.
	PreviousProvisionsHeld decimal.Decimal
	// AdditionalProvisions is signed: positive means provisions must be
	// added this period, negative means provisions may be released.
	AdditionalProvisions decimal.Decimal

	CreatedAt time.Time
}

// NewClassification assembles a provisioning record from computed figures.
func NewClassification(
	organizationID, loanID string,
	asOf time.Time,
	daysInArrears int,
	class valueobject.ArrearsClass,
	outstanding, collateral, netExposure, rate, required, previousHeld decimal.Decimal,
	now time.Time,
) Classification {
	return Classification{
		ID:                     uuid.New().String(),
		OrganizationID:         organizationID,
		LoanID:                 loanID,
		AsOf:                   asOf,
		DaysInArrears:          daysInArrears,
		Class:                  class,
		OutstandingBalance:     outstanding,
		CollateralValue:        collateral,
		NetExposure:            netExposure,
		ProvisioningRate:       rate,
		ProvisionRequired:      required,
		PreviousProvisionsHeld: previousHeld,
		AdditionalProvisions:   required.Sub(previousHeld),
		CreatedAt:              now,
	}
}
