package wizard

import (
	"github.com/noah-isme/enrollment-wizard/internal/models"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

// State is everything a wizard instance owns. It is serialised between requests.
type State struct {
	Mode       Mode              `json:"mode"`
	StudentID  string            `json:"studentId,omitempty"`
	Step       Step              `json:"step"`
	Form       models.WizardForm `json:"form"`
	Touched    map[string]bool   `json:"touched,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Submission *Submission       `json:"submission,omitempty"`
}

// Submission records what a partially failed create already committed so a
// retry does not register the student twice.
type Submission struct {
	StudentID            string `json:"studentId"`
	CommittedEnrollments []int  `json:"committedEnrollments"`
}

// Committed reports whether enrollment index i is already stored in the registry.
func (s *Submission) Committed(i int) bool {
	if s == nil {
		return false
	}
	for _, c := range s.CommittedEnrollments {
		if c == i {
			return true
		}
	}
	return false
}

// NewState returns the empty state for the create flow, with one blank enrollment row.
func NewState() *State {
	return &State{
		Mode: ModeCreate,
		Step: First,
		Form: models.WizardForm{
			Enrollments:       []models.EnrollmentSelection{{}},
			PaymentSchema:     map[string]models.PaymentSchema{},
			RequiredDocuments: []string{},
		},
		Touched: map[string]bool{},
		Errors:  map[string]string{},
	}
}

func (s *State) ensureMaps() {
	if s.Touched == nil {
		s.Touched = map[string]bool{}
	}
	if s.Errors == nil {
		s.Errors = map[string]string{}
	}
	if s.Form.PaymentSchema == nil {
		s.Form.PaymentSchema = map[string]models.PaymentSchema{}
	}
}

// markInvalid touches the offending fields and records their messages.
func (s *State) markInvalid(fields []appErrors.FieldError) {
	s.ensureMaps()
	for _, f := range fields {
		s.Touched[f.Field] = true
		s.Errors[f.Field] = f.Message
	}
}

// clearErrors drops recorded messages owned by step.
func (s *State) clearErrors(step Step) {
	for path := range s.Errors {
		if step.Owns(path) {
			delete(s.Errors, path)
		}
	}
}
