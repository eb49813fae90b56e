package wizard

import (
	"strings"

	"github.com/noah-isme/enrollment-wizard/internal/models"
)

// BuildCreateRequest assembles the create call. Only the first enrollment
// travels with it; the rest are added one by one once the student exists.
// The output depends on nothing but form, so equal forms marshal to equal bytes.
func BuildCreateRequest(form *models.WizardForm) *models.StudentCreateRequest {
	req := &models.StudentCreateRequest{
		StudentProfile: profile(form.Personal),
		PaymentSchema:  paymentPlans(form),
		OptionalBlocks: optionalBlocks(form),
	}
	if len(form.Enrollments) > 0 {
		req.CourseID = form.Enrollments[0].CourseID
		req.BatchID = form.Enrollments[0].BatchID
	}
	return req
}

// BuildUpdateRequest assembles the update call carrying every enrollment.
func BuildUpdateRequest(form *models.WizardForm) *models.StudentUpdateRequest {
	enrollments := make([]models.EnrollmentPayload, 0, len(form.Enrollments))
	for _, e := range form.Enrollments {
		enrollments = append(enrollments, models.EnrollmentPayload{
			ID:          e.ID,
			Pathway:     e.Pathway,
			CourseID:    e.CourseID,
			BatchID:     e.BatchID,
			ClassroomID: e.ClassroomID,
		})
	}
	return &models.StudentUpdateRequest{
		StudentProfile: profile(form.Personal),
		Enrollments:    enrollments,
		PaymentSchema:  paymentPlans(form),
		OptionalBlocks: optionalBlocks(form),
	}
}

// ExtraEnrollments returns the enrollments after the first, keyed by form index.
func ExtraEnrollments(form *models.WizardForm) map[int]models.CreateEnrollmentRequest {
	out := make(map[int]models.CreateEnrollmentRequest)
	for i := 1; i < len(form.Enrollments); i++ {
		e := form.Enrollments[i]
		out[i] = models.CreateEnrollmentRequest{CourseID: e.CourseID, BatchID: e.BatchID}
	}
	return out
}

func profile(p models.PersonalDetails) models.StudentProfile {
	return models.StudentProfile{
		FirstName:   strings.TrimSpace(p.FirstName),
		LastName:    strings.TrimSpace(p.LastName),
		DOB:         strings.TrimSpace(p.DOB),
		NIC:         strings.ToUpper(strings.TrimSpace(p.NIC)),
		Address:     strings.TrimSpace(p.Address),
		Mobile:      strings.TrimSpace(p.Mobile),
		HomeContact: strings.TrimSpace(p.HomeContact),
		Email:       strings.ToLower(strings.TrimSpace(p.Email)),
	}
}

// paymentPlans keeps the complete schemas of selected courses only.
func paymentPlans(form *models.WizardForm) map[string]models.PaymentPlan {
	plans := make(map[string]models.PaymentPlan)
	for _, courseID := range form.SelectedCourseIDs() {
		schema := lookupSchema(form, courseID)
		if !SchemaComplete(schema) {
			continue
		}
		plan := models.PaymentPlan{
			CourseFee:            *schema.CourseFee,
			DownPayment:          *schema.DownPayment,
			NumberOfInstallments: *schema.NumberOfInstallments,
			InstallmentStartDate: strings.TrimSpace(schema.InstallmentStartDate),
			PaymentFrequency:     schema.PaymentFrequency,
			IsDiscountApplicable: schema.IsDiscountApplicable,
		}
		if schema.IsDiscountApplicable {
			value := *schema.DiscountValue
			plan.DiscountType = schema.DiscountType
			plan.DiscountValue = &value
		}
		plans[courseID] = plan
	}
	return plans
}

func optionalBlocks(form *models.WizardForm) models.OptionalBlocks {
	var blocks models.OptionalBlocks

	if qualification := strings.TrimSpace(form.Academic.HighestAcademicQualification); qualification != "" {
		blocks.HighestAcademicQualification = qualification
		blocks.QualificationDescription = strings.TrimSpace(form.Academic.QualificationDescription)
	}

	if docs := dedupe(form.RequiredDocuments); len(docs) > 0 {
		blocks.RequiredDocuments = make([]models.DocumentSubmission, 0, len(docs))
		for _, id := range docs {
			blocks.RequiredDocuments = append(blocks.RequiredDocuments, models.DocumentSubmission{DocumentID: id, IsProvided: true})
		}
	}

	c := form.EmergencyContact
	if allFilled(c.Name, c.Relationship, c.Phone) {
		blocks.EmergencyContact = &models.EmergencyContact{
			Name:         strings.TrimSpace(c.Name),
			Relationship: strings.TrimSpace(c.Relationship),
			Phone:        strings.TrimSpace(c.Phone),
			Email:        strings.TrimSpace(c.Email),
			Address:      strings.TrimSpace(c.Address),
		}
	}
	return blocks
}
