package wizard

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/enrollment-wizard/internal/models"
)

var hundred = decimal.NewFromInt(100)

// PaymentSummary is the live breakdown shown next to a course's payment schema.
// It is derived on every read and never stored.
type PaymentSummary struct {
	CourseFee         decimal.Decimal `json:"courseFee"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	DiscountedFee     decimal.Decimal `json:"discountedFee"`
	DownPayment       decimal.Decimal `json:"downPayment"`
	AmountToFinance   decimal.Decimal `json:"amountToFinance"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
}

// Summarize computes the summary from whatever fields are filled in; missing numbers count as zero.
//
//	discountAmount    = percentage ? fee*value/100 : value   (0 without a discount)
//	discountedFee     = max(fee - discountAmount, 0)
//	amountToFinance   = max(discountedFee - downPayment, 0)
//	installmentAmount = installments > 0 ? amountToFinance/installments : 0
func Summarize(s models.PaymentSchema) PaymentSummary {
	fee := valueOrZero(s.CourseFee)
	down := valueOrZero(s.DownPayment)

	discount := decimal.Zero
	if s.IsDiscountApplicable {
		value := valueOrZero(s.DiscountValue)
		if s.DiscountType == models.DiscountPercentage {
			discount = fee.Mul(value).Div(hundred)
		} else {
			discount = value
		}
	}

	discounted := clampZero(fee.Sub(discount))
	financed := clampZero(discounted.Sub(down))

	installment := decimal.Zero
	if s.NumberOfInstallments != nil && *s.NumberOfInstallments > 0 {
		installment = financed.Div(decimal.NewFromInt(int64(*s.NumberOfInstallments)))
	}

	return PaymentSummary{
		CourseFee:         fee,
		DiscountAmount:    discount,
		DiscountedFee:     discounted,
		DownPayment:       down,
		AmountToFinance:   financed,
		InstallmentAmount: installment,
	}
}

// Summaries computes the summary for every selected course.
func Summaries(form *models.WizardForm) map[string]PaymentSummary {
	out := make(map[string]PaymentSummary)
	for _, courseID := range form.SelectedCourseIDs() {
		out[courseID] = Summarize(form.PaymentSchema[courseID])
	}
	return out
}

// Installment is one scheduled payment.
type Installment struct {
	Number  int             `json:"number"`
	DueDate string          `json:"dueDate"`
	Amount  decimal.Decimal `json:"amount"`
}

// InstallmentSchedule lays out due dates from the start date at the schema's
// frequency. Amounts are rounded to cents and the final installment absorbs
// the rounding difference so the total equals the amount to finance.
func InstallmentSchedule(s models.PaymentSchema) ([]Installment, bool) {
	if !SchemaComplete(&s) || *s.NumberOfInstallments <= 0 || *s.NumberOfInstallments > MaxInstallments {
		return nil, false
	}
	start, err := time.Parse(DateLayout, strings.TrimSpace(s.InstallmentStartDate))
	if err != nil {
		return nil, false
	}

	summary := Summarize(s)
	count := *s.NumberOfInstallments
	each := summary.AmountToFinance.Div(decimal.NewFromInt(int64(count))).RoundBank(2)

	schedule := make([]Installment, 0, count)
	allocated := decimal.Zero
	for i := 0; i < count; i++ {
		amount := each
		if i == count-1 {
			amount = summary.AmountToFinance.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		schedule = append(schedule, Installment{
			Number:  i + 1,
			DueDate: advance(start, s.PaymentFrequency, i).Format(DateLayout),
			Amount:  amount,
		})
	}
	return schedule, true
}

func advance(start time.Time, f models.PaymentFrequency, n int) time.Time {
	switch f {
	case models.FrequencyWeekly:
		return start.AddDate(0, 0, 7*n)
	case models.FrequencyQuarterly:
		return addMonths(start, 3*n)
	case models.FrequencySemiAnnually:
		return addMonths(start, 6*n)
	case models.FrequencyAnnually:
		return addMonths(start, 12*n)
	default:
		return addMonths(start, n)
	}
}

// addMonths clamps to the last day of the target month instead of overflowing (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
