package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	"github.com/noah-isme/enrollment-wizard/internal/resolver"
	"github.com/noah-isme/enrollment-wizard/internal/wizard"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

// WizardSession is one operator's draft, persisted between requests.
// Options runs parallel to State.Form.Enrollments.
type WizardSession struct {
	ID        string               `json:"id"`
	State     *wizard.State        `json:"state"`
	Options   []resolver.OptionSet `json:"options"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// alignOptions keeps one option set per enrollment row.
func (s *WizardSession) alignOptions() {
	rows := s.State.Form.Enrollments
	if len(s.Options) > len(rows) {
		s.Options = s.Options[:len(rows)]
	}
	for i := len(s.Options); i < len(rows); i++ {
		s.Options = append(s.Options, resolver.FromSelection(rows[i]))
	}
}

func optionScope(sessionID string, index int) string {
	return fmt.Sprintf("%s:%d", sessionID, index)
}

// StepView describes one step for the progress indicator.
type StepView struct {
	Index    int    `json:"index"`
	Key      string `json:"key"`
	Title    string `json:"title"`
	Optional bool   `json:"optional"`
	Complete bool   `json:"complete"`
	Current  bool   `json:"current"`
}

// WizardView is what the UI renders for a session.
type WizardView struct {
	ID                string                           `json:"id"`
	Mode              wizard.Mode                      `json:"mode"`
	StudentID         string                           `json:"studentId,omitempty"`
	Step              wizard.Step                      `json:"step"`
	StepKey           string                           `json:"stepKey"`
	Steps             []StepView                       `json:"steps"`
	NextEnabled       bool                             `json:"nextEnabled"`
	CanBack           bool                             `json:"canBack"`
	CanSkip           bool                             `json:"canSkip"`
	CanSubmit         bool                             `json:"canSubmit"`
	Form              models.WizardForm                `json:"form"`
	Errors            map[string]string                `json:"errors"`
	Touched           map[string]bool                  `json:"touched"`
	Options           []resolver.OptionSet             `json:"options"`
	Pathways          []models.PathwayOption           `json:"pathways"`
	PaymentSummaries  map[string]wizard.PaymentSummary `json:"paymentSummaries"`
	RequiredDocuments []models.RequiredDocument        `json:"requiredDocuments"`
	DocumentsLoaded   bool                             `json:"documentsLoaded"`
	Submission        *wizard.Submission               `json:"submission,omitempty"`
	UpdatedAt         time.Time                        `json:"updatedAt"`
	ExpiresAt         time.Time                        `json:"expiresAt"`
}

func buildView(sess *WizardSession, m *wizard.Machine, catalog wizard.DocumentCatalog, ttl time.Duration) *WizardView {
	state := m.State()
	completion := m.Completion()

	steps := make([]StepView, 0, len(wizard.Steps()))
	for _, step := range wizard.Steps() {
		steps = append(steps, StepView{
			Index:    int(step),
			Key:      step.Key(),
			Title:    step.Title(),
			Optional: step.Optional(),
			Complete: completion[step],
			Current:  step == state.Step,
		})
	}

	canSubmit := wizard.Allowed(state.Step, wizard.EventSubmit)
	for _, step := range wizard.RequiredSteps() {
		canSubmit = canSubmit && completion[step]
	}

	docs := catalog.Documents
	if docs == nil {
		docs = []models.RequiredDocument{}
	}

	view := &WizardView{
		ID:                sess.ID,
		Mode:              state.Mode,
		StudentID:         state.StudentID,
		Step:              state.Step,
		StepKey:           state.Step.Key(),
		Steps:             steps,
		NextEnabled:       m.NextEnabled(),
		CanBack:           wizard.Allowed(state.Step, wizard.EventBack),
		CanSkip:           wizard.Allowed(state.Step, wizard.EventSkip),
		CanSubmit:         canSubmit,
		Form:              state.Form,
		Errors:            state.Errors,
		Touched:           state.Touched,
		Options:           sess.Options,
		Pathways:          models.Pathways,
		PaymentSummaries:  wizard.Summaries(&state.Form),
		RequiredDocuments: docs,
		DocumentsLoaded:   catalog.Loaded,
		Submission:        state.Submission,
		UpdatedAt:         sess.UpdatedAt,
	}
	if ttl > 0 {
		view.ExpiresAt = sess.UpdatedAt.Add(ttl)
	}
	return view
}

// PartialFailureError reports a create submission that stored the student
// but not every additional enrollment.
type PartialFailureError struct {
	StudentID   string
	Committed   []int
	FailedIndex int
	Err         error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("student %s created but enrollment %d failed: %v", e.StudentID, e.FailedIndex, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// AppError renders the error for API responses.
func (e *PartialFailureError) AppError() *appErrors.Error {
	cause := appErrors.FromError(e.Err)
	err := appErrors.Clone(appErrors.ErrPartialFailure,
		fmt.Sprintf("student was registered but enrollment %d could not be added; submit again to retry the rest", e.FailedIndex+1))
	err.Details = map[string]interface{}{
		"studentId":            e.StudentID,
		"committedEnrollments": e.Committed,
		"failedEnrollment":     e.FailedIndex,
		"cause":                cause.Code,
		"causeMessage":         cause.Message,
	}
	return err
}

// SubmitResult is returned after a successful submission.
type SubmitResult struct {
	StudentID        string                   `json:"studentId"`
	Mode             wizard.Mode              `json:"mode"`
	Enrollments      int                      `json:"enrollments"`
	CompletionStatus *models.CompletionStatus `json:"completionStatus,omitempty"`
}

// sessionLocks serialises work on one session across concurrent requests.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
