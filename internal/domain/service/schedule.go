package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/domain/model"
	"github.com/umojafin/lms/internal/domain/valueobject"
)

// DefaultReconciliationTolerance is the allowed gap, in currency units,
// between a customized schedule's total and the calculator's minimum
// repayable before a reconciliation warning is logged. Deliberately lenient;
// reconciliation is advisory, not enforced.
var DefaultReconciliationTolerance = decimal.NewFromInt(100)

// CustomInstallment is one caller-supplied line of a customized schedule.
// Principal and Interest may be nil, in which case the generator allocates
// the split proportionally so total principal reconciles to the loan
// principal.
type CustomInstallment struct {
	Number    int
	DueDate   time.Time
	Amount    decimal.Decimal
	Principal *decimal.Decimal
	Interest  *decimal.Decimal
}

// ScheduleParams carries modality-specific generation inputs.
type ScheduleParams struct {
	// DisbursedAt anchors the schedule: the first installment falls one
	// frequency period after it.
	DisbursedAt time.Time
	// SinglePaymentMonths is the bullet term for the SINGLE_PAYMENT
	// modality.
	SinglePaymentMonths int
	// CustomLines are the caller-supplied lines for CUSTOMIZED.
	CustomLines []CustomInstallment
}

// ScheduleStrategy generates the ordered installment sequence for one
// repayment modality.
type ScheduleStrategy interface {
	Generate(terms model.LoanTerms, params ScheduleParams) ([]model.Installment, error)
}

// ScheduleGenerator builds repayment schedules, dispatching to a strategy per
// modality.
type ScheduleGenerator struct {
	logger     *slog.Logger
	tolerance  decimal.Decimal
	strategies map[string]ScheduleStrategy
}

// NewScheduleGenerator wires the four modality strategies.
func NewScheduleGenerator(logger *slog.Logger, tolerance decimal.Decimal) *ScheduleGenerator {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance = DefaultReconciliationTolerance
	}
	g := &ScheduleGenerator{
		logger:    logger,
		tolerance: tolerance,
	}
	g.strategies = map[string]ScheduleStrategy{
		valueobject.ModalityStandard.String():      standardStrategy{},
		valueobject.ModalityInterestOnly.String():  interestOnlyStrategy{},
		valueobject.ModalitySinglePayment.String(): singlePaymentStrategy{},
		valueobject.ModalityCustomized.String():    customizedStrategy{logger: logger, tolerance: tolerance},
	}
	return g
}

// Generate produces the full installment sequence for the terms and
// modality. Every line starts pending with payment trackers zeroed and its
// outstanding-principal column set to the running remainder.
func (g *ScheduleGenerator) Generate(terms model.LoanTerms, params ScheduleParams) ([]model.Installment, error) {
	if params.DisbursedAt.IsZero() {
		return nil, fmt.Errorf("%w: disbursement date is required", model.ErrValidation)
	}
	strategy, ok := g.strategies[terms.Modality.String()]
	if !ok {
		return nil, fmt.Errorf("%w: unknown repayment modality %q", model.ErrValidation, terms.Modality.String())
	}
	return strategy.Generate(terms, params)
}

// ---------------------------------------------------------------------------
// Standard amortizing
// ---------------------------------------------------------------------------

type standardStrategy struct{}

func (standardStrategy) Generate(terms model.LoanTerms, params ScheduleParams) ([]model.Installment, error) {
	result, err := Amortize(terms.Principal, terms.AnnualRate, terms.TermMonths, terms.Frequency, terms.InterestMethod)
	if err != nil {
		return nil, err
	}

	if terms.InterestMethod.Equal(valueobject.InterestMethodReducing) {
		return generateReducing(terms, params, result), nil
	}
	return generateFlat(terms, params, result), nil
}

// generateFlat splits principal and interest evenly across all lines; the
// last line absorbs rounding residue so cumulative principal equals the
// original principal exactly.
func generateFlat(terms model.LoanTerms, params ScheduleParams, result AmortizationResult) []model.Installment {
	n := result.TotalInstallments
	nDec := decimal.NewFromInt(int64(n))
	principalShare := terms.Principal.Div(nDec).Round(moneyPlaces)
	interestShare := result.TotalInterest.Div(nDec).Round(moneyPlaces)

	schedule := make([]model.Installment, 0, n)
	remaining := terms.Principal
	principalAllocated := decimal.Zero
	interestAllocated := decimal.Zero

	for i := 1; i <= n; i++ {
		principal := principalShare
		interest := interestShare
		if i == n {
			principal = terms.Principal.Sub(principalAllocated)
			interest = result.TotalInterest.Sub(interestAllocated)
		}
		remaining = remaining.Sub(principal)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		principalAllocated = principalAllocated.Add(principal)
		interestAllocated = interestAllocated.Add(interest)

		schedule = append(schedule, model.NewInstallment(
			i, terms.Frequency.Advance(params.DisbursedAt, i), principal, interest, remaining,
		))
	}
	return schedule
}

// generateReducing charges interest on the running balance each period; the
// last line's principal is set to the remaining balance so the schedule ends
// exactly at zero.
func generateReducing(terms model.LoanTerms, params ScheduleParams, result AmortizationResult) []model.Installment {
	n := result.TotalInstallments
	schedule := make([]model.Installment, 0, n)
	remaining := terms.Principal

	for i := 1; i <= n; i++ {
		interest := remaining.Mul(result.PeriodicRate).Round(moneyPlaces)
		principal := result.InstallmentAmount.Sub(interest)
		if i == n {
			principal = remaining
		}
		remaining = remaining.Sub(principal)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		schedule = append(schedule, model.NewInstallment(
			i, terms.Frequency.Advance(params.DisbursedAt, i), principal, interest, remaining,
		))
	}
	return schedule
}

// ---------------------------------------------------------------------------
// Interest-only
// ---------------------------------------------------------------------------

type interestOnlyStrategy struct{}

// Generate produces N-1 interest-only lines with the principal untouched,
// then a final line carrying the full principal plus one more interest
// period.
func (interestOnlyStrategy) Generate(terms model.LoanTerms, params ScheduleParams) ([]model.Installment, error) {
	result, err := Amortize(terms.Principal, terms.AnnualRate, terms.TermMonths, terms.Frequency, terms.InterestMethod)
	if err != nil {
		return nil, err
	}

	n := result.TotalInstallments
	periodInterest := terms.Principal.Mul(result.PeriodicRate).Round(moneyPlaces)

	schedule := make([]model.Installment, 0, n)
	for i := 1; i < n; i++ {
		schedule = append(schedule, model.NewInstallment(
			i, terms.Frequency.Advance(params.DisbursedAt, i), decimal.Zero, periodInterest, terms.Principal,
		))
	}
	schedule = append(schedule, model.NewInstallment(
		n, terms.Frequency.Advance(params.DisbursedAt, n), terms.Principal, periodInterest, decimal.Zero,
	))
	return schedule, nil
}

// ---------------------------------------------------------------------------
// Single bullet payment
// ---------------------------------------------------------------------------

type singlePaymentStrategy struct{}

// Generate produces one installment due K months after disbursement for the
// principal plus simple interest over K months.
func (singlePaymentStrategy) Generate(terms model.LoanTerms, params ScheduleParams) ([]model.Installment, error) {
	k := params.SinglePaymentMonths
	if k <= 0 {
		k = terms.TermMonths
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: single-payment term must be positive", model.ErrValidation)
	}
	if terms.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: principal must be positive", model.ErrValidation)
	}

	interest := terms.Principal.
		Mul(terms.AnnualRate).Div(hundred).
		Mul(decimal.NewFromInt(int64(k))).Div(twelve).
		Round(moneyPlaces)

	line := model.NewInstallment(1, params.DisbursedAt.AddDate(0, k, 0), terms.Principal, interest, decimal.Zero)
	return []model.Installment{line}, nil
}

// ---------------------------------------------------------------------------
// Customized
// ---------------------------------------------------------------------------

type customizedStrategy struct {
	logger    *slog.Logger
	tolerance decimal.Decimal
}

// Generate accepts the caller's explicit lines. Missing principal/interest
// splits are allocated proportionally to each line's share of the total so
// that cumulative principal reconciles to the loan principal, with the last
// line absorbing the remainder. A total that strays from the calculator's
// minimum by more than the tolerance is logged, not rejected.
func (s customizedStrategy) Generate(terms model.LoanTerms, params ScheduleParams) ([]model.Installment, error) {
	if len(params.CustomLines) == 0 {
		return nil, fmt.Errorf("%w: customized schedule requires at least one line", model.ErrValidation)
	}

	total := decimal.Zero
	for _, line := range params.CustomLines {
		if line.DueDate.IsZero() {
			return nil, fmt.Errorf("%w: custom line %d is missing a due date", model.ErrValidation, line.Number)
		}
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: custom line %d amount must be positive", model.ErrValidation, line.Number)
		}
		total = total.Add(line.Amount)
	}

	if result, err := Amortize(terms.Principal, terms.AnnualRate, terms.TermMonths, terms.Frequency, terms.InterestMethod); err == nil {
		if diff := total.Sub(result.TotalRepayable).Abs(); diff.GreaterThan(s.tolerance) {
			s.logger.Warn("customized schedule total deviates from calculated minimum",
				"provided_total", total.String(),
				"calculated_minimum", result.TotalRepayable.String(),
				"difference", diff.String(),
				"tolerance", s.tolerance.String(),
			)
		}
	}

	schedule := make([]model.Installment, 0, len(params.CustomLines))
	remaining := terms.Principal
	principalAllocated := decimal.Zero

	for idx, line := range params.CustomLines {
		last := idx == len(params.CustomLines)-1

		var principal, interest decimal.Decimal
		switch {
		case line.Principal != nil && line.Interest != nil:
			principal = *line.Principal
			interest = *line.Interest
		case last:
			principal = terms.Principal.Sub(principalAllocated)
			interest = line.Amount.Sub(principal)
			if interest.IsNegative() {
				interest = decimal.Zero
			}
		default:
			principal = terms.Principal.Mul(line.Amount).Div(total).Round(moneyPlaces)
			interest = line.Amount.Sub(principal)
			if interest.IsNegative() {
				interest = decimal.Zero
			}
		}

		principalAllocated = principalAllocated.Add(principal)
		remaining = remaining.Sub(principal)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		number := line.Number
		if number == 0 {
			number = idx + 1
		}
		schedule = append(schedule, model.NewInstallment(number, line.DueDate, principal, interest, remaining))
	}
	return schedule, nil
}
