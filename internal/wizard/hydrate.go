package wizard

import (
	"github.com/noah-isme/enrollment-wizard/internal/models"
)

// Hydrate builds a fresh update-flow state from a fetched student. Nothing of
// any earlier state survives; reloading the record replaces the form wholesale.
func Hydrate(student *models.Student) *State {
	state := &State{
		Mode:      ModeUpdate,
		StudentID: student.ID,
		Step:      First,
		Touched:   map[string]bool{},
		Errors:    map[string]string{},
	}

	form := models.WizardForm{
		Personal: models.PersonalDetails{
			FirstName:   student.FirstName,
			LastName:    student.LastName,
			DOB:         student.DOB,
			NIC:         student.NIC,
			Address:     student.Address,
			Mobile:      student.Mobile,
			HomeContact: student.HomeContact,
			Email:       student.Email,
		},
		Enrollments:       make([]models.EnrollmentSelection, 0, len(student.Enrollments)),
		PaymentSchema:     map[string]models.PaymentSchema{},
		RequiredDocuments: []string{},
		Academic: models.AcademicDetails{
			HighestAcademicQualification: student.HighestAcademicQualification,
			QualificationDescription:     student.QualificationDescription,
		},
	}

	for _, e := range student.Enrollments {
		form.Enrollments = append(form.Enrollments, models.EnrollmentSelection{
			ID:            e.ID,
			Pathway:       e.Pathway,
			CourseID:      e.CourseID,
			CourseName:    e.CourseName,
			BatchID:       e.BatchID,
			BatchName:     e.BatchName,
			ClassroomID:   e.ClassroomID,
			ClassroomName: e.ClassroomName,
		})
		if e.PaymentSchema != nil && e.CourseID != "" {
			form.PaymentSchema[e.CourseID] = *e.PaymentSchema
		}
	}
	if len(form.Enrollments) == 0 {
		form.Enrollments = append(form.Enrollments, models.EnrollmentSelection{})
	}

	for _, doc := range student.RequiredDocuments {
		if doc.IsProvided {
			form.RequiredDocuments = append(form.RequiredDocuments, doc.DocumentID)
		}
	}
	if student.EmergencyContact != nil {
		form.EmergencyContact = *student.EmergencyContact
	}

	state.Form = form
	return state
}
