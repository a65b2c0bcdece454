package valueobject

import (
	"fmt"
	"math"
	"time"
)

// ---------------------------------------------------------------------------
// RepaymentFrequency – immutable value object
// ---------------------------------------------------------------------------

// RepaymentFrequency is the billing cadence of a loan's schedule.
type RepaymentFrequency struct {
	value string
}

const (
	frequencyDaily      = "DAILY"
	frequencyWeekly     = "WEEKLY"
	frequencyBiweekly   = "BIWEEKLY"
	frequencyMonthly    = "MONTHLY"
	frequencyQuarterly  = "QUARTERLY"
	frequencySemiannual = "SEMIANNUAL"
	frequencyAnnual     = "ANNUAL"
)

var (
	FrequencyDaily      = RepaymentFrequency{value: frequencyDaily}
	FrequencyWeekly     = RepaymentFrequency{value: frequencyWeekly}
	FrequencyBiweekly   = RepaymentFrequency{value: frequencyBiweekly}
	FrequencyMonthly    = RepaymentFrequency{value: frequencyMonthly}
	FrequencyQuarterly  = RepaymentFrequency{value: frequencyQuarterly}
	FrequencySemiannual = RepaymentFrequency{value: frequencySemiannual}
	FrequencyAnnual     = RepaymentFrequency{value: frequencyAnnual}
)

var validFrequencies = map[string]RepaymentFrequency{
	frequencyDaily:      FrequencyDaily,
	frequencyWeekly:     FrequencyWeekly,
	frequencyBiweekly:   FrequencyBiweekly,
	frequencyMonthly:    FrequencyMonthly,
	frequencyQuarterly:  FrequencyQuarterly,
	frequencySemiannual: FrequencySemiannual,
	frequencyAnnual:     FrequencyAnnual,
}

// NewRepaymentFrequency creates a RepaymentFrequency from a raw string.
func NewRepaymentFrequency(s string) (RepaymentFrequency, error) {
	v, ok := validFrequencies[s]
	if !ok {
		return RepaymentFrequency{}, fmt.Errorf("invalid repayment frequency: %q", s)
	}
	return v, nil
}

// NormalizeRepaymentFrequency parses a raw string, falling back to MONTHLY for
// unrecognized values. The second return reports whether the fallback was
// taken so the caller can log a warning. Legacy product configurations carry
// free-form frequency strings, so an unknown value is tolerated rather than
// rejected.
func NormalizeRepaymentFrequency(s string) (RepaymentFrequency, bool) {
	if v, ok := validFrequencies[s]; ok {
		return v, false
	}
	return FrequencyMonthly, true
}

// String returns the string representation.
func (f RepaymentFrequency) String() string { return f.value }

// IsZero returns true if the frequency has not been initialised.
func (f RepaymentFrequency) IsZero() bool { return f.value == "" }

// Equal returns true when both frequencies carry the same value.
func (f RepaymentFrequency) Equal(other RepaymentFrequency) bool { return f.value == other.value }

// PeriodsPerYear returns the number of billing periods in a year.
func (f RepaymentFrequency) PeriodsPerYear() int {
	switch f.value {
	case frequencyDaily:
		return 365
	case frequencyWeekly:
		return 52
	case frequencyBiweekly:
		return 26
	case frequencyQuarterly:
		return 4
	case frequencySemiannual:
		return 2
	case frequencyAnnual:
		return 1
	default:
		return 12
	}
}

// InstallmentCount converts a term in months into the number of installments
// at this frequency.
func (f RepaymentFrequency) InstallmentCount(termMonths int) int {
	t := float64(termMonths)
	switch f.value {
	case frequencyDaily:
		return termMonths * 30
	case frequencyWeekly:
		return int(math.Ceil(t * 4.345))
	case frequencyBiweekly:
		return int(math.Ceil(t * 2.173))
	case frequencyQuarterly:
		return int(math.Ceil(t / 3))
	case frequencySemiannual:
		return int(math.Ceil(t / 6))
	case frequencyAnnual:
		return int(math.Ceil(t / 12))
	default:
		return termMonths
	}
}

// Advance moves t forward by n billing periods using calendar arithmetic, so
// monthly schedules bill on the same day-of-month rather than every 30 days.
func (f RepaymentFrequency) Advance(t time.Time, n int) time.Time {
	switch f.value {
	case frequencyDaily:
		return t.AddDate(0, 0, n)
	case frequencyWeekly:
		return t.AddDate(0, 0, 7*n)
	case frequencyBiweekly:
		return t.AddDate(0, 0, 14*n)
	case frequencyQuarterly:
		return t.AddDate(0, 3*n, 0)
	case frequencySemiannual:
		return t.AddDate(0, 6*n, 0)
	case frequencyAnnual:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, n, 0)
	}
}

// ---------------------------------------------------------------------------
// InterestMethod – immutable value object
// ---------------------------------------------------------------------------

// InterestMethod selects how interest is computed over the life of a loan.
type InterestMethod struct {
	value string
}

const (
	interestMethodFlat     = "FLAT"
	interestMethodReducing = "REDUCING_BALANCE"
)

var (
	InterestMethodFlat     = InterestMethod{value: interestMethodFlat}
	InterestMethodReducing = InterestMethod{value: interestMethodReducing}
)

var validInterestMethods = map[string]InterestMethod{
	interestMethodFlat:     InterestMethodFlat,
	interestMethodReducing: InterestMethodReducing,
}

// NewInterestMethod creates an InterestMethod from a raw string.
func NewInterestMethod(s string) (InterestMethod, error) {
	v, ok := validInterestMethods[s]
	if !ok {
		return InterestMethod{}, fmt.Errorf("invalid interest method: %q", s)
	}
	return v, nil
}

// NormalizeInterestMethod parses a raw string, falling back to FLAT for
// unrecognized values. The second return reports whether the fallback was
// taken.
func NormalizeInterestMethod(s string) (InterestMethod, bool) {
	if v, ok := validInterestMethods[s]; ok {
		return v, false
	}
	return InterestMethodFlat, true
}

// String returns the string representation.
func (m InterestMethod) String() string { return m.value }

// IsZero returns true if the method has not been initialised.
func (m InterestMethod) IsZero() bool { return m.value == "" }

// Equal returns true when both methods carry the same value.
func (m InterestMethod) Equal(other InterestMethod) bool { return m.value == other.value }

// ---------------------------------------------------------------------------
// RepaymentModality – immutable value object
// ---------------------------------------------------------------------------

// RepaymentModality is the repayment structure of a loan: standard
// amortizing, interest-only, single bullet payment, or a fully customized
// schedule supplied by the caller.
type RepaymentModality struct {
	value string
}

const (
	modalityStandard      = "STANDARD"
	modalityInterestOnly  = "INTEREST_ONLY"
	modalitySinglePayment = "SINGLE_PAYMENT"
	modalityCustomized    = "CUSTOMIZED"
)

var (
	ModalityStandard      = RepaymentModality{value: modalityStandard}
	ModalityInterestOnly  = RepaymentModality{value: modalityInterestOnly}
	ModalitySinglePayment = RepaymentModality{value: modalitySinglePayment}
	ModalityCustomized    = RepaymentModality{value: modalityCustomized}
)

var validModalities = map[string]RepaymentModality{
	modalityStandard:      ModalityStandard,
	modalityInterestOnly:  ModalityInterestOnly,
	modalitySinglePayment: ModalitySinglePayment,
	modalityCustomized:    ModalityCustomized,
}

// NewRepaymentModality creates a RepaymentModality from a raw string.
func NewRepaymentModality(s string) (RepaymentModality, error) {
	v, ok := validModalities[s]
	if !ok {
		return RepaymentModality{}, fmt.Errorf("invalid repayment modality: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (m RepaymentModality) String() string { return m.value }

// IsZero returns true if the modality has not been initialised.
func (m RepaymentModality) IsZero() bool { return m.value == "" }

// Equal returns true when both modalities carry the same value.
func (m RepaymentModality) Equal(other RepaymentModality) bool { return m.value == other.value }
