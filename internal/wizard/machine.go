package wizard

import (
	"fmt"
	"strings"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

// Event is a user action that may move the wizard between steps.
type Event string

// Wizard events.
const (
	EventNext   Event = "next"
	EventBack   Event = "back"
	EventSkip   Event = "skip"
	EventSubmit Event = "submit"
)

type transition struct {
	From  Step
	Event Event
	To    Step
}

var transitions = []transition{
	{From: StepPersonal, Event: EventNext, To: StepCourse},
	{From: StepCourse, Event: EventNext, To: StepPayment},
	{From: StepPayment, Event: EventNext, To: StepAcademic},
	{From: StepAcademic, Event: EventNext, To: StepDocuments},
	{From: StepDocuments, Event: EventNext, To: StepEmergencyContact},

	{From: StepCourse, Event: EventBack, To: StepPersonal},
	{From: StepPayment, Event: EventBack, To: StepCourse},
	{From: StepAcademic, Event: EventBack, To: StepPayment},
	{From: StepDocuments, Event: EventBack, To: StepAcademic},
	{From: StepEmergencyContact, Event: EventBack, To: StepDocuments},

	{From: StepAcademic, Event: EventSkip, To: StepDocuments},
	{From: StepDocuments, Event: EventSkip, To: StepEmergencyContact},

	{From: StepEmergencyContact, Event: EventSubmit, To: StepEmergencyContact},
}

// TransitionFor returns the destination of ev from step, if the move is allowed at all.
func TransitionFor(from Step, ev Event) (Step, bool) {
	for _, tr := range transitions {
		if tr.From == from && tr.Event == ev {
			return tr.To, true
		}
	}
	return from, false
}

// Allowed reports whether ev is available from step.
func Allowed(from Step, ev Event) bool {
	_, ok := TransitionFor(from, ev)
	return ok
}

// ValidationError is returned when Next or Submit is blocked by field errors.
type ValidationError struct {
	Step   Step
	Fields []appErrors.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wizard: %s has %d invalid field(s)", e.Step.Key(), len(e.Fields))
}

// AppError renders the error for API responses.
func (e *ValidationError) AppError() *appErrors.Error {
	err := appErrors.Validation(e.Step.Title()+" is incomplete", e.Fields)
	err.Details = map[string]interface{}{"step": int(e.Step), "stepKey": e.Step.Key()}
	return err
}

func transitionRejected(from Step, ev Event) error {
	msg := fmt.Sprintf("%s is not available from %s", ev, from.Title())
	switch ev {
	case EventSkip:
		msg = fmt.Sprintf("%s is required and cannot be skipped", from.Title())
	case EventBack:
		if from == First {
			msg = "already at the first step"
		}
	case EventNext:
		if from == Last {
			msg = "last step reached, submit instead"
		}
	case EventSubmit:
		msg = "submit is only available from the last step"
	}
	return appErrors.Clone(appErrors.ErrPreconditionFailed, msg)
}

// FormPatch replaces whole sections of the form. A nil section is left alone;
// a nil entry in PaymentSchema removes that course's schema.
type FormPatch struct {
	Personal          *models.PersonalDetails          `json:"personal,omitempty"`
	PaymentSchema     map[string]*models.PaymentSchema `json:"paymentSchema,omitempty"`
	Academic          *models.AcademicDetails          `json:"academic,omitempty"`
	RequiredDocuments *[]string                        `json:"requiredDocuments,omitempty"`
	EmergencyContact  *models.EmergencyContact         `json:"emergencyContact,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p FormPatch) Empty() bool {
	return p.Personal == nil && len(p.PaymentSchema) == 0 && p.Academic == nil &&
		p.RequiredDocuments == nil && p.EmergencyContact == nil
}

// Actions is what step components may do to the wizard.
type Actions interface {
	Update(patch FormPatch) error
	Next() error
	Back() error
	Skip() error
}

// Machine drives one wizard State. It is not safe for concurrent use; callers
// serialise access per session.
type Machine struct {
	state     *State
	catalog   DocumentCatalog
	validator *Validator
}

var _ Actions = (*Machine)(nil)

// NewMachine wraps state. A nil validator gets the default one.
func NewMachine(state *State, catalog DocumentCatalog, v *Validator) *Machine {
	if v == nil {
		v = DefaultValidator()
	}
	state.ensureMaps()
	return &Machine{state: state, catalog: catalog, validator: v}
}

// State exposes the wrapped state.
func (m *Machine) State() *State {
	return m.state
}

// Completion evaluates the progress badges for the current form.
func (m *Machine) Completion() StepCompletionStatus {
	return Completion(&m.state.Form, m.state.Mode, m.catalog)
}

// NextEnabled reports whether the Next button is active on the current step.
func (m *Machine) NextEnabled() bool {
	return NextEnabled(m.state.Step, &m.state.Form, m.state.Mode, m.catalog)
}

// Next validates the current step and advances on success.
func (m *Machine) Next() error {
	from := m.state.Step
	to, ok := TransitionFor(from, EventNext)
	if !ok {
		return transitionRejected(from, EventNext)
	}
	if fields := m.validator.Step(from, &m.state.Form, m.state.Mode, m.catalog); len(fields) > 0 {
		m.state.markInvalid(fields)
		return &ValidationError{Step: from, Fields: fields}
	}
	if !m.NextEnabled() {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, from.Title()+" is not complete")
	}
	m.state.clearErrors(from)
	m.state.Step = to
	return nil
}

// Back moves one step backwards. It never validates.
func (m *Machine) Back() error {
	from := m.state.Step
	to, ok := TransitionFor(from, EventBack)
	if !ok {
		return transitionRejected(from, EventBack)
	}
	m.state.Step = to
	return nil
}

// Skip leaves an optional step without validating it.
func (m *Machine) Skip() error {
	from := m.state.Step
	to, ok := TransitionFor(from, EventSkip)
	if !ok {
		return transitionRejected(from, EventSkip)
	}
	m.state.clearErrors(from)
	m.state.Step = to
	return nil
}

// Payload is the assembled registry request; exactly one side is set.
type Payload struct {
	Create *models.StudentCreateRequest
	Update *models.StudentUpdateRequest
}

// PrepareSubmit re-validates the required steps in order. The first failing
// step becomes the active step and its errors are returned; otherwise the
// request for the current mode is built.
func (m *Machine) PrepareSubmit() (*Payload, error) {
	if !Allowed(m.state.Step, EventSubmit) {
		return nil, transitionRejected(m.state.Step, EventSubmit)
	}
	for _, step := range RequiredSteps() {
		if fields := m.validator.Step(step, &m.state.Form, m.state.Mode, m.catalog); len(fields) > 0 {
			m.state.Step = step
			m.state.markInvalid(fields)
			return nil, &ValidationError{Step: step, Fields: fields}
		}
		m.state.clearErrors(step)
	}
	if m.state.Mode == ModeUpdate {
		return &Payload{Update: BuildUpdateRequest(&m.state.Form)}, nil
	}
	return &Payload{Create: BuildCreateRequest(&m.state.Form)}, nil
}

// Update applies a section patch. Recorded errors of patched sections are
// cleared; they come back on the next validation.
func (m *Machine) Update(patch FormPatch) error {
	if patch.Empty() {
		return appErrors.Clone(appErrors.ErrBadRequest, "patch contains no sections")
	}
	form := &m.state.Form

	if len(patch.PaymentSchema) > 0 {
		selected := make(map[string]struct{})
		for _, id := range form.SelectedCourseIDs() {
			selected[id] = struct{}{}
		}
		var fields []appErrors.FieldError
		for courseID := range patch.PaymentSchema {
			if _, ok := selected[courseID]; !ok {
				fields = append(fields, appErrors.FieldError{
					Field:   "paymentSchema." + courseID,
					Message: "course is not selected in any enrollment",
				})
			}
		}
		if len(fields) > 0 {
			return appErrors.Validation("payment schema refers to unselected courses", fields)
		}
	}

	if patch.Personal != nil {
		form.Personal = *patch.Personal
		m.state.clearErrors(StepPersonal)
	}
	for courseID, schema := range patch.PaymentSchema {
		if schema == nil {
			delete(form.PaymentSchema, courseID)
		} else {
			form.PaymentSchema[courseID] = *schema
		}
		m.state.clearErrorsWithPrefix("paymentSchema." + courseID + ".")
	}
	if patch.Academic != nil {
		form.Academic = *patch.Academic
		m.state.clearErrors(StepAcademic)
	}
	if patch.RequiredDocuments != nil {
		form.RequiredDocuments = dedupe(*patch.RequiredDocuments)
		m.state.clearErrors(StepDocuments)
	}
	if patch.EmergencyContact != nil {
		form.EmergencyContact = *patch.EmergencyContact
		m.state.clearErrors(StepEmergencyContact)
	}
	return nil
}

// AddEnrollment appends a blank enrollment row and returns its index.
func (m *Machine) AddEnrollment() int {
	m.state.Form.Enrollments = append(m.state.Form.Enrollments, models.EnrollmentSelection{})
	return len(m.state.Form.Enrollments) - 1
}

// RemoveEnrollment drops row i together with any payment schema no other row uses.
func (m *Machine) RemoveEnrollment(i int) error {
	if err := m.checkIndex(i); err != nil {
		return err
	}
	list := m.state.Form.Enrollments
	m.state.Form.Enrollments = append(list[:i:i], list[i+1:]...)
	if sub := m.state.Submission; sub != nil {
		for j, c := range sub.CommittedEnrollments {
			if c > i {
				sub.CommittedEnrollments[j] = c - 1
			}
		}
	}
	m.pruneSchemas()
	m.state.clearErrors(StepCourse)
	return nil
}

// SetEnrollment replaces row i, typically after a cascading selection.
func (m *Machine) SetEnrollment(i int, sel models.EnrollmentSelection) error {
	if err := m.checkIndex(i); err != nil {
		return err
	}
	m.state.Form.Enrollments[i] = sel
	m.pruneSchemas()
	m.state.clearErrorsWithPrefix(fmt.Sprintf("enrollments[%d]", i))
	delete(m.state.Errors, "enrollments")
	return nil
}

// EditableEnrollment reports why row i cannot be changed, if it cannot.
func (m *Machine) EditableEnrollment(i int) error {
	return m.checkIndex(i)
}

func (m *Machine) checkIndex(i int) error {
	if i < 0 || i >= len(m.state.Form.Enrollments) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("enrollment %d does not exist", i))
	}
	if m.state.Submission.Committed(i) {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("enrollment %d is already stored in the registry", i))
	}
	return nil
}

func (m *Machine) pruneSchemas() {
	selected := make(map[string]struct{})
	for _, id := range m.state.Form.SelectedCourseIDs() {
		selected[id] = struct{}{}
	}
	for courseID := range m.state.Form.PaymentSchema {
		if _, ok := selected[courseID]; !ok {
			delete(m.state.Form.PaymentSchema, courseID)
		}
	}
}

func (s *State) clearErrorsWithPrefix(prefix string) {
	for path := range s.Errors {
		if strings.HasPrefix(path, prefix) {
			delete(s.Errors, path)
		}
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
