package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/shopspring/decimal"
)

// StubCollateralValuer is a development/test adapter that returns a
// deterministic effective collateral value derived from the loan ID.
// It implements port.CollateralValuer.
type StubCollateralValuer struct{}

// NewStubCollateralValuer creates a new stub adapter.
func NewStubCollateralValuer() *StubCollateralValuer {
	return &StubCollateralValuer{}
}

// EffectiveValue returns a deterministic haircut-adjusted collateral value
// based on a hash of the loan ID. Roughly a third of loans value to zero,
// which allows repeatable uncollateralized test scenarios.
func (v *StubCollateralValuer) EffectiveValue(_ context.Context, organizationID, loanID string) (decimal.Decimal, error) {
	if loanID == "" {
		return decimal.Zero, fmt.Errorf("loan ID is required")
	}

	h := sha256.Sum256([]byte(organizationID + ":" + loanID))
	num := binary.BigEndian.Uint32(h[:4])
	if num%3 == 0 {
		return decimal.Zero, nil
	}

	value := decimal.NewFromInt(int64(num % 50_000))
	return value, nil
}
