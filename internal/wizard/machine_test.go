package wizard

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

func newTestMachine(state *State) *Machine {
	v := NewValidator()
	v.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return NewMachine(state, loadedCatalog(), v)
}

func validState() *State {
	state := NewState()
	state.Form = validForm()
	return state
}

func TestNextBlockedByPersonalErrors(t *testing.T) {
	state := NewState()
	state.Form.Personal = validPersonal()
	state.Form.Personal.Email = "nimali-at-example"
	state.Form.Personal.NIC = "12345"
	state.Form.Personal.Mobile = ""
	m := newTestMachine(state)

	err := m.Next()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, StepPersonal, verr.Step)
	assert.Equal(t, StepPersonal, state.Step)
	assert.True(t, state.Touched["personal.email"])
	assert.True(t, state.Touched["personal.nic"])
	assert.Equal(t, "this field is required", state.Errors["personal.mobile"])
	assert.Contains(t, state.Errors["personal.email"], "valid email")
	assert.True(t, appErrors.IsValidation(err))
}

func TestNextRejectsFutureBirthDate(t *testing.T) {
	state := NewState()
	state.Form.Personal = validPersonal()
	state.Form.Personal.DOB = "2030-01-01"
	m := newTestMachine(state)

	require.Error(t, m.Next())
	assert.Contains(t, state.Errors, "personal.dob")
}

func TestNextAdvancesAndClearsErrors(t *testing.T) {
	state := NewState()
	m := newTestMachine(state)
	require.Error(t, m.Next())
	require.NotEmpty(t, state.Errors)

	require.NoError(t, m.Update(FormPatch{Personal: ptrPersonal(validPersonal())}))
	assert.Empty(t, state.Errors)

	require.NoError(t, m.Next())
	assert.Equal(t, StepCourse, state.Step)
}

func TestNextOnCourseStepRequiresCourseAndBatch(t *testing.T) {
	state := validState()
	state.Step = StepCourse
	state.Form.Enrollments = append(state.Form.Enrollments, models.EnrollmentSelection{CourseID: "C2"})
	m := newTestMachine(state)

	err := m.Next()
	require.Error(t, err)
	assert.Equal(t, StepCourse, state.Step)
	assert.Equal(t, "this field is required", state.Errors["enrollments[1].batchId"])
	assert.False(t, m.NextEnabled())
}

func TestNextOnPaymentStepReportsPerCourseFields(t *testing.T) {
	state := validState()
	state.Step = StepPayment
	schema := state.Form.PaymentSchema["C1"]
	schema.IsDiscountApplicable = true
	state.Form.PaymentSchema["C1"] = schema
	m := newTestMachine(state)

	require.Error(t, m.Next())
	assert.Contains(t, state.Errors, "paymentSchema.C1.discountType")
	assert.Contains(t, state.Errors, "paymentSchema.C1.discountValue")
	assert.NotContains(t, state.Errors, "paymentSchema.C1.courseFee")
}

func TestNextOnPaymentStepUpdateModeRequiresEverySelectedCourse(t *testing.T) {
	state := validState()
	state.Mode = ModeUpdate
	state.Step = StepPayment
	state.Form.Enrollments = append(state.Form.Enrollments, models.EnrollmentSelection{CourseID: "C2", BatchID: "B2"})
	m := newTestMachine(state)

	assert.True(t, m.NextEnabled())
	err := m.Next()
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	assert.Equal(t, StepPayment, state.Step)
	assert.Contains(t, state.Errors, "paymentSchema.C2.courseFee")
	assert.True(t, state.Touched["paymentSchema.C2.courseFee"])

	state.Form.PaymentSchema["C2"] = completeSchema()
	require.NoError(t, m.Next())
	assert.Equal(t, StepAcademic, state.Step)
}

func TestPrepareSubmitUpdateModeRejectsCourseWithoutSchema(t *testing.T) {
	state := validState()
	state.Mode = ModeUpdate
	state.StudentID = "S1"
	state.Step = Last
	state.Form.Enrollments = append(state.Form.Enrollments, models.EnrollmentSelection{CourseID: "C2", BatchID: "B2"})
	m := newTestMachine(state)

	_, err := m.PrepareSubmit()
	require.Error(t, err)
	assert.Equal(t, StepPayment, state.Step)
	assert.Contains(t, state.Errors, "paymentSchema.C2.numberOfInstallments")
}

func TestBackNeverValidates(t *testing.T) {
	for _, step := range Steps()[1:] {
		state := NewState()
		state.Step = step
		m := newTestMachine(state)

		require.NoError(t, m.Back(), step.Key())
		assert.Equal(t, step-1, state.Step)
		assert.Empty(t, state.Errors)
		assert.Empty(t, state.Touched)
	}
}

func TestBackFromFirstStep(t *testing.T) {
	m := newTestMachine(NewState())
	err := m.Back()
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestSkipOnlyFromOptionalSteps(t *testing.T) {
	state := NewState()
	m := newTestMachine(state)

	for _, step := range []Step{StepPersonal, StepCourse, StepPayment, StepEmergencyContact} {
		state.Step = step
		assert.Error(t, m.Skip(), step.Key())
		assert.Equal(t, step, state.Step)
	}

	state.Step = StepAcademic
	state.Form.Academic.HighestAcademicQualification = strings.Repeat("x", 500)
	require.NoError(t, m.Skip())
	assert.Equal(t, StepDocuments, state.Step)

	require.NoError(t, m.Skip())
	assert.Equal(t, StepEmergencyContact, state.Step)
}

func TestNextFromLastStepIsRejected(t *testing.T) {
	state := validState()
	state.Step = StepEmergencyContact
	m := newTestMachine(state)

	assert.Error(t, m.Next())
	assert.Equal(t, StepEmergencyContact, state.Step)
}

func TestNextOnDocumentsRejectsUnknownIDs(t *testing.T) {
	state := validState()
	state.Step = StepDocuments
	state.Form.RequiredDocuments = []string{"D9"}
	m := NewMachine(state, loadedCatalog(models.RequiredDocument{ID: "D1"}), nil)

	require.Error(t, m.Next())
	assert.Contains(t, state.Errors, "requiredDocuments[0]")
}

func TestPrepareSubmitJumpsToFirstFailingStep(t *testing.T) {
	state := validState()
	state.Step = StepEmergencyContact
	state.Form.PaymentSchema = map[string]models.PaymentSchema{}
	state.Form.Enrollments[0].BatchID = ""
	m := newTestMachine(state)

	payload, err := m.PrepareSubmit()

	require.Nil(t, payload)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, StepCourse, verr.Step)
	assert.Equal(t, StepCourse, state.Step)
	assert.Contains(t, state.Errors, "enrollments[0].batchId")
}

func TestPrepareSubmitOnlyFromLastStep(t *testing.T) {
	state := validState()
	state.Step = StepDocuments
	_, err := newTestMachine(state).PrepareSubmit()
	require.Error(t, err)
	assert.False(t, appErrors.IsValidation(err))
}

func TestPrepareSubmitBuildsModePayload(t *testing.T) {
	state := validState()
	state.Step = StepEmergencyContact
	payload, err := newTestMachine(state).PrepareSubmit()
	require.NoError(t, err)
	require.NotNil(t, payload.Create)
	assert.Nil(t, payload.Update)
	assert.Equal(t, "C1", payload.Create.CourseID)

	state.Mode = ModeUpdate
	payload, err = newTestMachine(state).PrepareSubmit()
	require.NoError(t, err)
	require.NotNil(t, payload.Update)
	assert.Len(t, payload.Update.Enrollments, 1)
}

func TestUpdateRejectsSchemaForUnselectedCourse(t *testing.T) {
	state := validState()
	m := newTestMachine(state)

	schema := completeSchema()
	err := m.Update(FormPatch{PaymentSchema: map[string]*models.PaymentSchema{"C9": &schema}})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	assert.NotContains(t, state.Form.PaymentSchema, "C9")

	assert.Error(t, m.Update(FormPatch{}))
}

func TestUpdateRemovesSchemaWithNilEntry(t *testing.T) {
	state := validState()
	m := newTestMachine(state)

	require.NoError(t, m.Update(FormPatch{PaymentSchema: map[string]*models.PaymentSchema{"C1": nil}}))
	assert.NotContains(t, state.Form.PaymentSchema, "C1")
}

func TestEnrollmentRowsPruneSchemas(t *testing.T) {
	state := validState()
	m := newTestMachine(state)

	idx := m.AddEnrollment()
	assert.Equal(t, 1, idx)
	require.NoError(t, m.SetEnrollment(1, models.EnrollmentSelection{CourseID: "C2", BatchID: "B2"}))
	state.Form.PaymentSchema["C2"] = completeSchema()

	require.NoError(t, m.SetEnrollment(0, models.EnrollmentSelection{CourseID: "C3", BatchID: "B3"}))
	assert.NotContains(t, state.Form.PaymentSchema, "C1")
	assert.Contains(t, state.Form.PaymentSchema, "C2")

	require.NoError(t, m.RemoveEnrollment(1))
	assert.NotContains(t, state.Form.PaymentSchema, "C2")
	assert.Error(t, m.RemoveEnrollment(5))
}

func TestCommittedEnrollmentsAreLocked(t *testing.T) {
	state := validState()
	state.Form.Enrollments = append(state.Form.Enrollments,
		models.EnrollmentSelection{CourseID: "C2", BatchID: "B2"},
		models.EnrollmentSelection{CourseID: "C3", BatchID: "B3"},
	)
	state.Submission = &Submission{StudentID: "S1", CommittedEnrollments: []int{0, 2}}
	m := newTestMachine(state)

	assert.Error(t, m.SetEnrollment(0, models.EnrollmentSelection{}))
	require.NoError(t, m.RemoveEnrollment(1))
	assert.Equal(t, []int{0, 1}, state.Submission.CommittedEnrollments)
}

func TestTransitionTable(t *testing.T) {
	to, ok := TransitionFor(StepPayment, EventNext)
	assert.True(t, ok)
	assert.Equal(t, StepAcademic, to)

	assert.False(t, Allowed(StepPayment, EventSkip))
	assert.True(t, Allowed(StepDocuments, EventSkip))
	assert.True(t, Allowed(Last, EventSubmit))
	assert.False(t, Allowed(First, EventBack))
}

func ptrPersonal(p models.PersonalDetails) *models.PersonalDetails {
	return &p
}
