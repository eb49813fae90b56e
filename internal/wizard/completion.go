package wizard

import (
	"strings"

	"github.com/noah-isme/enrollment-wizard/internal/models"
)

// DocumentCatalog is the required-document catalog as last fetched. Loaded
// stays false until a fetch has succeeded, even when the catalog is empty.
type DocumentCatalog struct {
	Documents []models.RequiredDocument `json:"documents"`
	Loaded    bool                      `json:"loaded"`
}

// StepCompletionStatus maps each step to its "done" badge.
type StepCompletionStatus map[Step]bool

// IsStepComplete decides whether step counts as done for the progress indicator.
// Presence is enough for personal details; format errors only block Next.
func IsStepComplete(step Step, form *models.WizardForm, mode Mode, catalog DocumentCatalog) bool {
	switch step {
	case StepPersonal:
		p := form.Personal
		return allFilled(p.FirstName, p.LastName, p.DOB, p.NIC, p.Address, p.Mobile, p.Email)
	case StepCourse:
		if len(form.Enrollments) == 0 {
			return false
		}
		seen := make(map[string]struct{}, len(form.Enrollments))
		for _, e := range form.Enrollments {
			if !allFilled(e.CourseID, e.BatchID) {
				return false
			}
			if _, dup := seen[e.CourseID]; dup {
				return false
			}
			seen[e.CourseID] = struct{}{}
		}
		return true
	case StepPayment:
		return paymentComplete(form, mode)
	case StepAcademic:
		return !blank(form.Academic.HighestAcademicQualification)
	case StepDocuments:
		return documentsComplete(form.RequiredDocuments, catalog)
	case StepEmergencyContact:
		c := form.EmergencyContact
		return allFilled(c.Name, c.Relationship, c.Phone)
	}
	return false
}

// paymentComplete is an AND over selected courses when creating and an OR when updating.
func paymentComplete(form *models.WizardForm, mode Mode) bool {
	courses := form.SelectedCourseIDs()
	if len(courses) == 0 {
		return false
	}
	if mode == ModeUpdate {
		for _, courseID := range courses {
			if SchemaComplete(lookupSchema(form, courseID)) {
				return true
			}
		}
		return false
	}
	for _, courseID := range courses {
		if !SchemaComplete(lookupSchema(form, courseID)) {
			return false
		}
	}
	return true
}

func documentsComplete(selected []string, catalog DocumentCatalog) bool {
	if !catalog.Loaded {
		return false
	}
	chosen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		chosen[id] = struct{}{}
	}
	for _, doc := range catalog.Documents {
		if !doc.IsRequired {
			continue
		}
		if _, ok := chosen[doc.ID]; !ok {
			return false
		}
	}
	return true
}

// Completion evaluates every step.
func Completion(form *models.WizardForm, mode Mode, catalog DocumentCatalog) StepCompletionStatus {
	status := make(StepCompletionStatus, len(descriptors))
	for _, step := range Steps() {
		status[step] = IsStepComplete(step, form, mode, catalog)
	}
	return status
}

// NextEnabled drives the Next button. Only the course and payment steps are
// gated by completion; the others rely on validation when Next is pressed.
func NextEnabled(step Step, form *models.WizardForm, mode Mode, catalog DocumentCatalog) bool {
	switch step {
	case Last:
		return false
	case StepCourse, StepPayment:
		return IsStepComplete(step, form, mode, catalog)
	default:
		return true
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func allFilled(values ...string) bool {
	for _, v := range values {
		if blank(v) {
			return false
		}
	}
	return true
}
