package models

import "github.com/shopspring/decimal"

// PaymentFrequency is how often installments fall due.
type PaymentFrequency string

// Supported installment frequencies.
const (
	FrequencyWeekly       PaymentFrequency = "weekly"
	FrequencyMonthly      PaymentFrequency = "monthly"
	FrequencyQuarterly    PaymentFrequency = "quarterly"
	FrequencySemiAnnually PaymentFrequency = "semi-annually"
	FrequencyAnnually     PaymentFrequency = "annually"
)

// DiscountType selects how DiscountValue is interpreted.
type DiscountType string

// Supported discount types.
const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// WizardForm is the single source of truth for the six enrollment wizard steps.
type WizardForm struct {
	Personal          PersonalDetails          `json:"personal"`
	Enrollments       []EnrollmentSelection    `json:"enrollments"`
	PaymentSchema     map[string]PaymentSchema `json:"paymentSchema"`
	Academic          AcademicDetails          `json:"academic"`
	RequiredDocuments []string                 `json:"requiredDocuments"`
	EmergencyContact  EmergencyContact         `json:"emergencyContact"`
}

// PersonalDetails holds the step 0 fields.
type PersonalDetails struct {
	FirstName   string `json:"firstName" validate:"notblank,max=100"`
	LastName    string `json:"lastName" validate:"notblank,max=100"`
	DOB         string `json:"dob" validate:"notblank,pastdate"`
	NIC         string `json:"nic" validate:"notblank,nic"`
	Address     string `json:"address" validate:"notblank,max=255"`
	Mobile      string `json:"mobile" validate:"notblank,mobile"`
	HomeContact string `json:"homeContact" validate:"omitempty,mobile"`
	Email       string `json:"email" validate:"notblank,email"`
}

// EnrollmentSelection is one course/intake/classroom choice made in step 1.
// ID is set only for enrollments that already exist in the registry.
type EnrollmentSelection struct {
	ID            string  `json:"id,omitempty"`
	Pathway       Pathway `json:"pathway"`
	CourseID      string  `json:"courseId"`
	CourseName    string  `json:"courseName,omitempty"`
	BatchID       string  `json:"batchId"`
	BatchName     string  `json:"batchName,omitempty"`
	ClassroomID   string  `json:"classroomId,omitempty"`
	ClassroomName string  `json:"classroomName,omitempty"`
}

// PaymentSchema is the per-course installment plan edited in step 2.
// Nil pointers are fields the user has not filled in yet.
type PaymentSchema struct {
	CourseFee            *decimal.Decimal `json:"courseFee,omitempty"`
	DownPayment          *decimal.Decimal `json:"downPayment,omitempty"`
	NumberOfInstallments *int             `json:"numberOfInstallments,omitempty"`
	InstallmentStartDate string           `json:"installmentStartDate,omitempty"`
	PaymentFrequency     PaymentFrequency `json:"paymentFrequency,omitempty"`
	IsDiscountApplicable bool             `json:"isDiscountApplicable"`
	DiscountType         DiscountType     `json:"discountType,omitempty"`
	DiscountValue        *decimal.Decimal `json:"discountValue,omitempty"`
}

// AcademicDetails holds the optional step 3 fields.
type AcademicDetails struct {
	HighestAcademicQualification string `json:"highestAcademicQualification" validate:"max=150"`
	QualificationDescription     string `json:"qualificationDescription" validate:"max=1000"`
}

// SelectedCourseIDs returns the distinct course ids of the enrollments in selection order.
func (f *WizardForm) SelectedCourseIDs() []string {
	seen := make(map[string]struct{}, len(f.Enrollments))
	ids := make([]string, 0, len(f.Enrollments))
	for _, e := range f.Enrollments {
		if e.CourseID == "" {
			continue
		}
		if _, ok := seen[e.CourseID]; ok {
			continue
		}
		seen[e.CourseID] = struct{}{}
		ids = append(ids, e.CourseID)
	}
	return ids
}
