// Package wizard implements the six-step student enrollment wizard: step
// ordering, field validation, completion gating, the payment summary and the
// assembly of registry requests. It performs no I/O.
package wizard

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Step identifies one page of the wizard.
type Step int

// Wizard steps in order.
const (
	StepPersonal Step = iota
	StepCourse
	StepPayment
	StepAcademic
	StepDocuments
	StepEmergencyContact
)

// Mode distinguishes registering a new student from editing an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

type descriptor struct {
	key      string
	title    string
	optional bool
	// fieldPrefix is the leading part of every field path the step owns.
	fieldPrefix string
}

var descriptors = map[Step]descriptor{
	StepPersonal:         {key: "personal", title: "Personal Details", fieldPrefix: "personal"},
	StepCourse:           {key: "course", title: "Course Details", fieldPrefix: "enrollments"},
	StepPayment:          {key: "payment", title: "Payment Schema", fieldPrefix: "paymentSchema"},
	StepAcademic:         {key: "academic", title: "Academic Details", optional: true, fieldPrefix: "academic"},
	StepDocuments:        {key: "documents", title: "Required Documents", optional: true, fieldPrefix: "requiredDocuments"},
	StepEmergencyContact: {key: "emergencyContact", title: "Emergency Contact", optional: true, fieldPrefix: "emergencyContact"},
}

// Steps returns every step in wizard order.
func Steps() []Step {
	return []Step{StepPersonal, StepCourse, StepPayment, StepAcademic, StepDocuments, StepEmergencyContact}
}

// RequiredSteps are re-validated on submit, in this order.
func RequiredSteps() []Step {
	return []Step{StepPersonal, StepCourse, StepPayment}
}

// First and Last bound the step range.
const (
	First = StepPersonal
	Last  = StepEmergencyContact
)

// Valid reports whether s names a wizard step.
func (s Step) Valid() bool {
	_, ok := descriptors[s]
	return ok
}

// Key is the stable machine name of the step.
func (s Step) Key() string {
	if d, ok := descriptors[s]; ok {
		return d.key
	}
	return fmt.Sprintf("step%d", int(s))
}

// Title is the human readable step name.
func (s Step) Title() string {
	return descriptors[s].title
}

func (s Step) String() string {
	return s.Key()
}

// Optional steps may be skipped and never block submission. The emergency
// contact step is optional too but, being last, is left through Submit.
func (s Step) Optional() bool {
	return descriptors[s].optional
}

// Owns reports whether a field path belongs to the step.
func (s Step) Owns(path string) bool {
	prefix := descriptors[s].fieldPrefix
	if prefix == "" || !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '.' || rest[0] == '['
}

// Skippable reports whether Skip is available from s.
func (s Step) Skippable() bool {
	return s.Optional() && s != Last
}

// MarshalJSON keeps the numeric index on the wire; the UI addresses steps by position.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

// UnmarshalJSON rejects indices outside the wizard.
func (s *Step) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return err
	}
	step := Step(i)
	if !step.Valid() {
		return fmt.Errorf("wizard: unknown step %d", i)
	}
	*s = step
	return nil
}
