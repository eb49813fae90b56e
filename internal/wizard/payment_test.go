package wizard

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/enrollment-wizard/internal/models"
)

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s", want, got)
}

func TestSummarizeWithoutDiscount(t *testing.T) {
	s := Summarize(completeSchema())

	assertDecimal(t, 0, s.DiscountAmount)
	assertDecimal(t, 1000, s.DiscountedFee)
	assertDecimal(t, 800, s.AmountToFinance)
	assertDecimal(t, 200, s.InstallmentAmount)
}

func TestSummarizePercentageDiscount(t *testing.T) {
	schema := completeSchema()
	schema.IsDiscountApplicable = true
	schema.DiscountType = models.DiscountPercentage
	schema.DiscountValue = dec(10)

	s := Summarize(schema)

	assertDecimal(t, 100, s.DiscountAmount)
	assertDecimal(t, 900, s.DiscountedFee)
	assertDecimal(t, 700, s.AmountToFinance)
	assertDecimal(t, 175, s.InstallmentAmount)
}

func TestSummarizeClampsAndZeroInstallments(t *testing.T) {
	schema := completeSchema()
	schema.IsDiscountApplicable = true
	schema.DiscountType = models.DiscountFixed
	schema.DiscountValue = dec(1500)
	schema.NumberOfInstallments = intPtr(0)

	s := Summarize(schema)

	assertDecimal(t, 1500, s.DiscountAmount)
	assertDecimal(t, 0, s.DiscountedFee)
	assertDecimal(t, 0, s.AmountToFinance)
	assertDecimal(t, 0, s.InstallmentAmount)
}

func TestSummarizeIgnoresDiscountWhenNotApplicable(t *testing.T) {
	schema := completeSchema()
	schema.DiscountType = models.DiscountPercentage
	schema.DiscountValue = dec(50)

	assertDecimal(t, 800, Summarize(schema).AmountToFinance)
}

func TestSummarizePartialSchema(t *testing.T) {
	s := Summarize(models.PaymentSchema{CourseFee: dec(500)})

	assertDecimal(t, 500, s.AmountToFinance)
	assertDecimal(t, 0, s.InstallmentAmount)
}

func TestInstallmentScheduleMonthly(t *testing.T) {
	schema := completeSchema()
	schema.CourseFee = dec(1000)
	schema.DownPayment = dec(0)
	schema.NumberOfInstallments = intPtr(3)
	schema.InstallmentStartDate = "2024-01-31"

	schedule, ok := InstallmentSchedule(schema)
	require.True(t, ok)
	require.Len(t, schedule, 3)

	assert.Equal(t, "2024-01-31", schedule[0].DueDate)
	assert.Equal(t, "2024-02-29", schedule[1].DueDate)
	assert.Equal(t, "2024-03-31", schedule[2].DueDate)

	assert.Equal(t, "333.33", schedule[0].Amount.StringFixed(2))
	assert.Equal(t, "333.34", schedule[2].Amount.StringFixed(2))

	total := decimal.Zero
	for _, inst := range schedule {
		total = total.Add(inst.Amount)
	}
	assertDecimal(t, 1000, total)
}

func TestInstallmentScheduleQuarterlyAndWeekly(t *testing.T) {
	schema := completeSchema()
	schema.PaymentFrequency = models.FrequencyQuarterly

	schedule, ok := InstallmentSchedule(schema)
	require.True(t, ok)
	assert.Equal(t, "2024-10-01", schedule[3].DueDate)

	schema.PaymentFrequency = models.FrequencyWeekly
	schedule, ok = InstallmentSchedule(schema)
	require.True(t, ok)
	assert.Equal(t, "2024-01-22", schedule[3].DueDate)
}

func TestInstallmentScheduleRequiresCompleteSchema(t *testing.T) {
	schema := completeSchema()
	schema.PaymentFrequency = ""

	_, ok := InstallmentSchedule(schema)
	assert.False(t, ok)
}

func TestInstallmentScheduleRejectsOversizedCount(t *testing.T) {
	schema := completeSchema()
	schema.NumberOfInstallments = intPtr(1 << 40)

	schedule, ok := InstallmentSchedule(schema)
	assert.False(t, ok)
	assert.Nil(t, schedule)

	schema.NumberOfInstallments = intPtr(MaxInstallments)
	schedule, ok = InstallmentSchedule(schema)
	require.True(t, ok)
	assert.Len(t, schedule, MaxInstallments)
}
