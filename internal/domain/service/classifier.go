package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

// LoanClassifier produces provisioning records from a loan's arrears state
// and its effective collateral.
type LoanClassifier struct{}

// NewLoanClassifier creates a classifier.
func NewLoanClassifier() *LoanClassifier {
	return &LoanClassifier{}
}

// Classify builds the provisioning record for a loan as of a date. Days in
// arrears are computed point-in-time from the schedule, not from the batch
// counter, so a classification run between batch ticks still sees current
// arrears. Provisions are charged on the net exposure after collateral.
func (c *LoanClassifier) Classify(
	loan model.Loan,
	effectiveCollateral, previousHeld decimal.Decimal,
	asOf, now time.Time,
) model.Classification {
	days := loan.DaysInArrearsAsOf(asOf)
	class := valueobject.ClassifyArrears(days)
	rate := class.ProvisioningRate()

	// Written-off loans provision in full regardless of arrears; closed
	// loans carry no provision.
	switch {
	case loan.Status().Equal(valueobject.LoanStatusWrittenOff):
		class = valueobject.ArrearsClassLoss
		rate = decimal.NewFromInt(1)
	case loan.Status().Equal(valueobject.LoanStatusClosed):
		rate = decimal.Zero
	}

	outstanding := loan.OutstandingPrincipal()
	netExposure := outstanding.Sub(effectiveCollateral)
	if netExposure.IsNegative() {
		netExposure = decimal.Zero
	}
	required := netExposure.Mul(rate).Round(moneyPlaces)

	return model.NewClassification(
		loan.OrganizationID(), loan.ID(),
		asOf, days, class,
		outstanding, effectiveCollateral, netExposure, rate, required, previousHeld,
		now,
	)
}
