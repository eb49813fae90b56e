package wizard

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

// DateLayout is the wire format of every date field in the form.
const DateLayout = "2006-01-02"

// MaxInstallments bounds numberOfInstallments. Zero means the course is paid upfront.
const MaxInstallments = 120

var (
	nicPattern    = regexp.MustCompile(`^([0-9]{9}[vVxX]|[0-9]{12})$`)
	mobilePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
	phoneNoise    = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

const (
	msgRequired        = "this field is required"
	msgNonNegative     = "must be zero or greater"
	msgDate            = "must be a date in YYYY-MM-DD format"
	msgInstallments    = "must be between 0 and 120"
	msgPercentageLimit = "percentage discount cannot exceed 100"
	msgDiscountTooHigh = "discount cannot exceed the course fee"
)

// Validator checks wizard fields and renders English messages keyed by field path.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
	now        func() time.Time
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// DefaultValidator returns a shared Validator; validator.Validate is safe for concurrent use.
func DefaultValidator() *Validator {
	defaultOnce.Do(func() { defaultValidator = NewValidator() })
	return defaultValidator
}

// NewValidator registers the custom tags used on the form models.
func NewValidator() *Validator {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate, translator: translator, now: time.Now}

	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterValidation("nic", func(fl validator.FieldLevel) bool {
		return nicPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = validate.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return IsPhoneNumber(fl.Field().String())
	})
	_ = validate.RegisterValidation("pastdate", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(DateLayout, strings.TrimSpace(fl.Field().String()))
		if err != nil {
			return false
		}
		return !d.After(v.now())
	})

	registerTranslation(validate, translator, "notblank", msgRequired)
	registerTranslation(validate, translator, "nic", "must be a valid NIC number")
	registerTranslation(validate, translator, "mobile", "must be a valid phone number")
	registerTranslation(validate, translator, "pastdate", "must be a past date in YYYY-MM-DD format")

	return v
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// IsPhoneNumber accepts 9 to 15 digits with an optional leading plus, ignoring spaces, dashes and brackets.
func IsPhoneNumber(raw string) bool {
	return mobilePattern.MatchString(phoneNoise.Replace(strings.TrimSpace(raw)))
}

// Step returns the field errors blocking Next from step.
func (v *Validator) Step(step Step, form *models.WizardForm, _ Mode, catalog DocumentCatalog) []appErrors.FieldError {
	switch step {
	case StepPersonal:
		return v.Fields("personal", form.Personal)
	case StepCourse:
		return enrollmentErrors(form.Enrollments)
	case StepPayment:
		return paymentErrors(form)
	case StepAcademic:
		return v.Fields("academic", form.Academic)
	case StepDocuments:
		return documentErrors(form.RequiredDocuments, catalog)
	case StepEmergencyContact:
		return v.Fields("emergencyContact", form.EmergencyContact)
	}
	return nil
}

// Fields validates the struct tags of s. Paths are prefixed with prefix when it is set.
func (v *Validator) Fields(prefix string, s interface{}) []appErrors.FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []appErrors.FieldError{{Field: prefix, Message: err.Error()}}
	}
	fields := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, appErrors.FieldError{
			Field:   joinPath(prefix, fe.Field()),
			Message: fe.Translate(v.translator),
		})
	}
	return fields
}

func joinPath(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

func enrollmentErrors(list []models.EnrollmentSelection) []appErrors.FieldError {
	if len(list) == 0 {
		return []appErrors.FieldError{{Field: "enrollments", Message: "select at least one course"}}
	}
	var fields []appErrors.FieldError
	seen := make(map[string]int, len(list))
	for i, e := range list {
		path := fmt.Sprintf("enrollments[%d]", i)
		if strings.TrimSpace(e.CourseID) == "" {
			fields = append(fields, appErrors.FieldError{Field: path + ".courseId", Message: msgRequired})
		} else if first, dup := seen[e.CourseID]; dup {
			fields = append(fields, appErrors.FieldError{
				Field:   path + ".courseId",
				Message: fmt.Sprintf("course already selected in enrollment %d", first+1),
			})
		} else {
			seen[e.CourseID] = i
		}
		if strings.TrimSpace(e.BatchID) == "" {
			fields = append(fields, appErrors.FieldError{Field: path + ".batchId", Message: msgRequired})
		}
	}
	return fields
}

// paymentErrors requires a complete schema for every selected course in both
// modes. The looser update-mode rule only applies to completion.
func paymentErrors(form *models.WizardForm) []appErrors.FieldError {
	courses := form.SelectedCourseIDs()
	if len(courses) == 0 {
		return []appErrors.FieldError{{Field: "paymentSchema", Message: "select a course before configuring payments"}}
	}

	var fields []appErrors.FieldError
	for _, courseID := range courses {
		fields = append(fields, SchemaErrors(courseID, lookupSchema(form, courseID))...)
	}
	return fields
}

func lookupSchema(form *models.WizardForm, courseID string) *models.PaymentSchema {
	if form.PaymentSchema == nil {
		return nil
	}
	schema, ok := form.PaymentSchema[courseID]
	if !ok {
		return nil
	}
	return &schema
}

// SchemaErrors lists what keeps a course's payment schema from being fully specified.
// A nil schema reports every mandatory field.
func SchemaErrors(courseID string, s *models.PaymentSchema) []appErrors.FieldError {
	path := func(field string) string { return "paymentSchema." + courseID + "." + field }
	if s == nil {
		s = &models.PaymentSchema{}
	}

	var fields []appErrors.FieldError
	add := func(field, msg string) {
		fields = append(fields, appErrors.FieldError{Field: path(field), Message: msg})
	}

	switch {
	case s.CourseFee == nil:
		add("courseFee", msgRequired)
	case s.CourseFee.IsNegative():
		add("courseFee", msgNonNegative)
	}
	switch {
	case s.DownPayment == nil:
		add("downPayment", msgRequired)
	case s.DownPayment.IsNegative():
		add("downPayment", msgNonNegative)
	}
	switch {
	case s.NumberOfInstallments == nil:
		add("numberOfInstallments", msgRequired)
	case *s.NumberOfInstallments < 0 || *s.NumberOfInstallments > MaxInstallments:
		add("numberOfInstallments", msgInstallments)
	}
	switch {
	case strings.TrimSpace(s.InstallmentStartDate) == "":
		add("installmentStartDate", msgRequired)
	default:
		if _, err := time.Parse(DateLayout, strings.TrimSpace(s.InstallmentStartDate)); err != nil {
			add("installmentStartDate", msgDate)
		}
	}
	switch {
	case s.PaymentFrequency == "":
		add("paymentFrequency", msgRequired)
	case !knownFrequency(s.PaymentFrequency):
		add("paymentFrequency", "must be one of weekly, monthly, quarterly, semi-annually, annually")
	}

	if s.IsDiscountApplicable {
		switch s.DiscountType {
		case "":
			add("discountType", msgRequired)
		case models.DiscountPercentage, models.DiscountFixed:
		default:
			add("discountType", "must be percentage or fixed")
		}
		switch {
		case s.DiscountValue == nil:
			add("discountValue", msgRequired)
		case s.DiscountValue.IsNegative():
			add("discountValue", msgNonNegative)
		case s.DiscountType == models.DiscountPercentage && s.DiscountValue.GreaterThan(hundred):
			add("discountValue", msgPercentageLimit)
		case s.DiscountType == models.DiscountFixed && s.CourseFee != nil && s.DiscountValue.GreaterThan(*s.CourseFee):
			add("discountValue", msgDiscountTooHigh)
		}
	}
	return fields
}

// SchemaComplete reports whether the schema is fully specified and valid.
func SchemaComplete(s *models.PaymentSchema) bool {
	return s != nil && len(SchemaErrors("", s)) == 0
}

func knownFrequency(f models.PaymentFrequency) bool {
	switch f {
	case models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyQuarterly,
		models.FrequencySemiAnnually, models.FrequencyAnnually:
		return true
	}
	return false
}

func documentErrors(selected []string, catalog DocumentCatalog) []appErrors.FieldError {
	if !catalog.Loaded {
		return nil
	}
	known := make(map[string]struct{}, len(catalog.Documents))
	for _, d := range catalog.Documents {
		known[d.ID] = struct{}{}
	}
	var fields []appErrors.FieldError
	for i, id := range selected {
		if _, ok := known[id]; !ok {
			fields = append(fields, appErrors.FieldError{
				Field:   fmt.Sprintf("requiredDocuments[%d]", i),
				Message: fmt.Sprintf("unknown document %q", id),
			})
		}
	}
	return fields
}
