package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/enrollment-wizard/internal/models"
)

func TestHydrateReplacesForm(t *testing.T) {
	schema := completeSchema()
	student := &models.Student{
		ID:        "S1",
		FirstName: "Nimali",
		LastName:  "Perera",
		Email:     "nimali@example.com",
		Enrollments: []models.EnrollmentRecord{
			{ID: "E1", CourseID: "C1", CourseName: "HD in Computing", BatchID: "B1", PaymentSchema: &schema},
			{ID: "E2", CourseID: "C2", BatchID: "B2"},
		},
		RequiredDocuments: []models.DocumentSubmission{
			{DocumentID: "D1", IsProvided: true},
			{DocumentID: "D2", IsProvided: false},
		},
		EmergencyContact: &models.EmergencyContact{Name: "Sunil", Relationship: "Father", Phone: "0771234567"},
	}

	state := Hydrate(student)

	assert.Equal(t, ModeUpdate, state.Mode)
	assert.Equal(t, "S1", state.StudentID)
	assert.Equal(t, First, state.Step)
	require.Len(t, state.Form.Enrollments, 2)
	assert.Equal(t, "E1", state.Form.Enrollments[0].ID)
	assert.Contains(t, state.Form.PaymentSchema, "C1")
	assert.NotContains(t, state.Form.PaymentSchema, "C2")
	assert.Equal(t, []string{"D1"}, state.Form.RequiredDocuments)
	assert.Equal(t, "Sunil", state.Form.EmergencyContact.Name)
	assert.Empty(t, state.Errors)
}

func TestHydrateWithoutEnrollmentsAddsBlankRow(t *testing.T) {
	state := Hydrate(&models.Student{ID: "S2"})

	require.Len(t, state.Form.Enrollments, 1)
	assert.Equal(t, models.EnrollmentSelection{}, state.Form.Enrollments[0])
	assert.NotNil(t, state.Form.PaymentSchema)
	assert.Equal(t, models.EmergencyContact{}, state.Form.EmergencyContact)
}
