package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

// AmortizationResult carries the headline figures for a loan's repayment
// plan before any schedule lines are generated.
type AmortizationResult struct {
	TotalInstallments int
	PeriodicRate      decimal.Decimal
	TotalInterest     decimal.Decimal
	TotalRepayable    decimal.Decimal
	InstallmentAmount decimal.Decimal
}

var (
	hundred     = decimal.NewFromInt(100)
	twelve      = decimal.NewFromInt(12)
	yearDays    = decimal.NewFromInt(365)
	moneyPlaces = int32(2)
)

// Amortize computes the installment count, periodic rate, total interest,
// and constant installment amount for the given terms. Pure; no I/O.
//
// Flat interest charges the annual rate on the full principal for the whole
// term. Reducing balance uses the standard fixed-payment amortization
// formula on the periodic rate:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
func Amortize(
	principal, annualRate decimal.Decimal,
	termMonths int,
	frequency valueobject.RepaymentFrequency,
	method valueobject.InterestMethod,
) (AmortizationResult, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return AmortizationResult{}, fmt.Errorf("%w: principal must be positive", model.ErrValidation)
	}
	if annualRate.LessThanOrEqual(decimal.Zero) {
		return AmortizationResult{}, fmt.Errorf("%w: annual rate must be positive", model.ErrValidation)
	}
	if termMonths <= 0 {
		return AmortizationResult{}, fmt.Errorf("%w: term months must be positive", model.ErrValidation)
	}

	n := frequency.InstallmentCount(termMonths)
	periodicRate := PeriodicRate(annualRate, frequency)

	if method.Equal(valueobject.InterestMethodReducing) {
		payment := annuityPayment(principal, periodicRate, n)
		totalRepayable := payment.Mul(decimal.NewFromInt(int64(n))).Round(moneyPlaces)
		return AmortizationResult{
			TotalInstallments: n,
			PeriodicRate:      periodicRate,
			TotalInterest:     totalRepayable.Sub(principal),
			TotalRepayable:    totalRepayable,
			InstallmentAmount: payment,
		}, nil
	}

	// Flat: interest on full principal for the whole term, regardless of
	// repayment pace.
	totalInterest := principal.
		Mul(annualRate).Div(hundred).
		Mul(decimal.NewFromInt(int64(termMonths))).Div(twelve).
		Round(moneyPlaces)
	totalRepayable := principal.Add(totalInterest)
	installment := totalRepayable.Div(decimal.NewFromInt(int64(n))).Round(moneyPlaces)

	return AmortizationResult{
		TotalInstallments: n,
		PeriodicRate:      periodicRate,
		TotalInterest:     totalInterest,
		TotalRepayable:    totalRepayable,
		InstallmentAmount: installment,
	}, nil
}

// PeriodicRate converts an annual percentage rate to the per-period decimal
// rate for the given frequency.
func PeriodicRate(annualRate decimal.Decimal, frequency valueobject.RepaymentFrequency) decimal.Decimal {
	return annualRate.Div(hundred).Div(decimal.NewFromInt(int64(frequency.PeriodsPerYear())))
}

// annuityPayment computes the constant payment for a reducing-balance loan.
// The power term uses float64, monetary arithmetic stays in decimal.
func annuityPayment(principal, periodicRate decimal.Decimal, n int) decimal.Decimal {
	if periodicRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(n))).Round(moneyPlaces)
	}
	r := periodicRate.InexactFloat64()
	factor := math.Pow(1+r, float64(n))
	payment := principal.InexactFloat64() * r * factor / (factor - 1)
	return decimal.NewFromFloat(payment).Round(moneyPlaces)
}
