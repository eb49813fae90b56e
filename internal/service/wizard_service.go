package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	"github.com/noah-isme/enrollment-wizard/internal/resolver"
	"github.com/noah-isme/enrollment-wizard/internal/wizard"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

// SessionStore persists wizard sessions.
type SessionStore interface {
	Load(ctx context.Context, id string, dest interface{}) error
	Save(ctx context.Context, id string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// StudentRegistry is the part of the registry client used to read and write students.
type StudentRegistry interface {
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	CreateStudent(ctx context.Context, req *models.StudentCreateRequest) (*models.CreateStudentResult, error)
	CreateEnrollment(ctx context.Context, studentID string, req models.CreateEnrollmentRequest) (*models.EnrollmentRecord, error)
	UpdateStudent(ctx context.Context, id string, req *models.StudentUpdateRequest) (*models.UpdateStudentResult, error)
}

// DocumentCatalogSource supplies the required document catalog for gating.
type DocumentCatalogSource interface {
	DocumentCatalog(ctx context.Context) wizard.DocumentCatalog
}

// WizardService runs enrollment wizard sessions on top of the wizard engine.
type WizardService struct {
	store     SessionStore
	registry  StudentRegistry
	catalog   DocumentCatalogSource
	resolver  *resolver.Resolver
	validator *wizard.Validator
	metrics   *MetricsService
	logger    *zap.Logger
	ttl       time.Duration
	locks     *sessionLocks
	now       func() time.Time
}

// WizardServiceParams groups the collaborators of a WizardService.
type WizardServiceParams struct {
	Store     SessionStore
	Registry  StudentRegistry
	Catalog   DocumentCatalogSource
	Resolver  *resolver.Resolver
	Validator *wizard.Validator
	Metrics   *MetricsService
	Logger    *zap.Logger
	TTL       time.Duration
}

// NewWizardService constructs the wizard service.
func NewWizardService(p WizardServiceParams) *WizardService {
	if p.Validator == nil {
		p.Validator = wizard.DefaultValidator()
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.TTL <= 0 {
		p.TTL = 2 * time.Hour
	}
	return &WizardService{
		store:     p.Store,
		registry:  p.Registry,
		catalog:   p.Catalog,
		resolver:  p.Resolver,
		validator: p.Validator,
		metrics:   p.Metrics,
		logger:    p.Logger,
		ttl:       p.TTL,
		locks:     newSessionLocks(),
		now:       time.Now,
	}
}

// Start opens a create-flow session with empty fields.
func (s *WizardService) Start(ctx context.Context) (*WizardView, error) {
	sess := s.newSession(wizard.NewState())
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("wizard session started", zap.String("session_id", sess.ID), zap.String("mode", string(wizard.ModeCreate)))
	return s.view(ctx, sess), nil
}

// StartUpdate opens an update-flow session hydrated from the registry record.
func (s *WizardService) StartUpdate(ctx context.Context, studentID string) (*WizardView, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "student id is required")
	}
	student, err := s.registry.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	sess := s.newSession(wizard.Hydrate(student))
	s.primeOptions(ctx, sess)
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("wizard session started",
		zap.String("session_id", sess.ID),
		zap.String("mode", string(wizard.ModeUpdate)),
		zap.String("student_id", studentID),
	)
	return s.view(ctx, sess), nil
}

// Reload replaces an update session's form with the current registry record.
// Nothing typed since the last load survives.
func (s *WizardService) Reload(ctx context.Context, id string) (*WizardView, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.State.Mode != wizard.ModeUpdate {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "only update sessions can be reloaded")
	}
	student, err := s.registry.GetStudent(ctx, sess.State.StudentID)
	if err != nil {
		return nil, err
	}

	if s.resolver != nil {
		for i := range sess.Options {
			s.resolver.Tracker().Forget(optionScope(sess.ID, i))
		}
	}
	sess.State = wizard.Hydrate(student)
	sess.Options = nil
	sess.alignOptions()
	s.primeOptions(ctx, sess)
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(ctx, sess), nil
}

// Get returns the current view of a session.
func (s *WizardService) Get(ctx context.Context, id string) (*WizardView, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess), nil
}

// Patch applies a form section patch.
func (s *WizardService) Patch(ctx context.Context, id string, patch wizard.FormPatch) (*WizardView, error) {
	return s.mutate(ctx, id, func(_ *WizardSession, m *wizard.Machine) error {
		return m.Update(patch)
	})
}

// Next validates the active step and advances. Field errors are stored on
// the session before the validation error is returned.
func (s *WizardService) Next(ctx context.Context, id string) (*WizardView, error) {
	return s.navigate(ctx, id, wizard.EventNext, (*wizard.Machine).Next)
}

// Back moves to the previous step without validating.
func (s *WizardService) Back(ctx context.Context, id string) (*WizardView, error) {
	return s.navigate(ctx, id, wizard.EventBack, (*wizard.Machine).Back)
}

// Skip leaves an optional step.
func (s *WizardService) Skip(ctx context.Context, id string) (*WizardView, error) {
	return s.navigate(ctx, id, wizard.EventSkip, (*wizard.Machine).Skip)
}

func (s *WizardService) navigate(ctx context.Context, id string, ev wizard.Event, move func(*wizard.Machine) error) (*WizardView, error) {
	var from wizard.Step
	view, err := s.mutate(ctx, id, func(_ *WizardSession, m *wizard.Machine) error {
		from = m.State().Step
		return move(m)
	})
	if errors.Is(err, appErrors.ErrSessionExpired) {
		return nil, err
	}
	s.metrics.RecordTransition(string(ev), from.Key(), transitionOutcome(err))
	return view, err
}

func transitionOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case appErrors.IsValidation(err):
		return "invalid"
	default:
		return "rejected"
	}
}

// AddEnrollment appends a blank enrollment row.
func (s *WizardService) AddEnrollment(ctx context.Context, id string) (*WizardView, error) {
	return s.mutate(ctx, id, func(sess *WizardSession, m *wizard.Machine) error {
		m.AddEnrollment()
		sess.Options = append(sess.Options, resolver.OptionSet{})
		return nil
	})
}

// RemoveEnrollment drops enrollment row index.
func (s *WizardService) RemoveEnrollment(ctx context.Context, id string, index int) (*WizardView, error) {
	return s.mutate(ctx, id, func(sess *WizardSession, m *wizard.Machine) error {
		if len(sess.State.Form.Enrollments) == 1 {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "at least one enrollment row is required")
		}
		if err := m.RemoveEnrollment(index); err != nil {
			return err
		}
		if s.resolver != nil {
			for i := index; i < len(sess.Options); i++ {
				s.resolver.Tracker().Forget(optionScope(sess.ID, i))
			}
		}
		sess.Options = append(sess.Options[:index:index], sess.Options[index+1:]...)
		return nil
	})
}

// SelectOption sets one level of an enrollment row's dropdown chain and loads
// the next level. The session lock is released while the registry answers;
// a selection made meanwhile supersedes this one.
func (s *WizardService) SelectOption(ctx context.Context, id string, index int, level resolver.Level, value string) (*WizardView, error) {
	scope := optionScope(id, index)
	var req *resolver.Request

	view, err := s.mutate(ctx, id, func(sess *WizardSession, m *wizard.Machine) error {
		if err := m.EditableEnrollment(index); err != nil {
			return err
		}
		set := &sess.Options[index]
		next, err := resolver.Select(set, level, value)
		if err != nil {
			return err
		}
		sel := sess.State.Form.Enrollments[index]
		set.Apply(&sel)
		if err := m.SetEnrollment(index, sel); err != nil {
			return err
		}
		req = next
		return nil
	})
	if err != nil || s.resolver == nil {
		return view, err
	}
	if req == nil {
		s.resolver.Tracker().Invalidate(scope, level+1)
		return view, nil
	}

	res, err := s.resolver.Fetch(ctx, scope, req)
	if err != nil {
		if errors.Is(err, resolver.ErrSuperseded) {
			s.metrics.RecordSuperseded()
		}
		return view, err
	}

	var applied bool
	view, err = s.mutate(ctx, id, func(sess *WizardSession, m *wizard.Machine) error {
		if index >= len(sess.Options) {
			return nil
		}
		set := &sess.Options[index]
		if applied = resolver.Apply(set, res); !applied {
			return nil
		}
		sel := sess.State.Form.Enrollments[index]
		set.Apply(&sel)
		return m.SetEnrollment(index, sel)
	})
	if err != nil {
		return view, err
	}
	if !applied {
		s.metrics.RecordSuperseded()
		return view, resolver.ErrSuperseded
	}
	return view, nil
}

// Schedule lays out the installments of one course's payment schema.
func (s *WizardService) Schedule(ctx context.Context, id, courseID string) (*PaymentSchedule, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	schema, ok := sess.State.Form.PaymentSchema[courseID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no payment schema for course "+courseID)
	}
	installments, ok := wizard.InstallmentSchedule(schema)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "payment schema is incomplete")
	}
	return &PaymentSchedule{CourseID: courseID, Summary: wizard.Summarize(schema), Installments: installments}, nil
}

// PaymentSchedule is the installment plan of one course.
type PaymentSchedule struct {
	CourseID     string                `json:"courseId"`
	Summary      wizard.PaymentSummary `json:"summary"`
	Installments []wizard.Installment  `json:"installments"`
}

// Submit re-validates the required steps and sends the assembled request.
// In the create flow the first enrollment travels with the student and every
// further enrollment is added one call at a time. If one of those fails the
// created student and the stored enrollments are remembered on the session,
// so submitting again only sends what is missing.
func (s *WizardService) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	catalog := s.documentCatalog(ctx)

	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	m := wizard.NewMachine(sess.State, catalog, s.validator)
	mode := string(sess.State.Mode)

	payload, err := m.PrepareSubmit()
	if err != nil {
		s.metrics.RecordSubmission(mode, transitionOutcome(err))
		if saveErr := s.save(ctx, sess); saveErr != nil {
			s.logger.Warn("failed to persist wizard errors", zap.String("session_id", id), zap.Error(saveErr))
		}
		return nil, err
	}

	var result *SubmitResult
	if payload.Update != nil {
		result, err = s.submitUpdate(ctx, sess, payload.Update)
	} else {
		result, err = s.submitCreate(ctx, sess, payload.Create)
	}
	if err != nil {
		outcome := "failed"
		if appErrors.IsPartialFailure(err) {
			outcome = "partial"
		}
		s.metrics.RecordSubmission(mode, outcome)
		if saveErr := s.save(ctx, sess); saveErr != nil {
			s.logger.Error("failed to persist submission progress", zap.String("session_id", id), zap.Error(saveErr))
		}
		return nil, err
	}

	s.metrics.RecordSubmission(mode, "ok")
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to discard submitted session", zap.String("session_id", id), zap.Error(err))
	}
	s.forgetOptions(sess)
	s.logger.Info("wizard submitted",
		zap.String("session_id", id),
		zap.String("mode", mode),
		zap.String("student_id", result.StudentID),
	)
	return result, nil
}

func (s *WizardService) submitUpdate(ctx context.Context, sess *WizardSession, req *models.StudentUpdateRequest) (*SubmitResult, error) {
	res, err := s.registry.UpdateStudent(ctx, sess.State.StudentID, req)
	if err != nil {
		return nil, err
	}
	out := &SubmitResult{StudentID: sess.State.StudentID, Mode: wizard.ModeUpdate, Enrollments: len(req.Enrollments)}
	if res != nil {
		out.CompletionStatus = res.CompletionStatus
	}
	return out, nil
}

func (s *WizardService) submitCreate(ctx context.Context, sess *WizardSession, req *models.StudentCreateRequest) (*SubmitResult, error) {
	state := sess.State
	out := &SubmitResult{Mode: wizard.ModeCreate}

	if state.Submission == nil {
		created, err := s.registry.CreateStudent(ctx, req)
		if err != nil {
			return nil, err
		}
		if created == nil || created.StudentID == "" {
			return nil, appErrors.Clone(appErrors.ErrUpstream, "registry did not return the new student id")
		}
		state.Submission = &wizard.Submission{StudentID: created.StudentID, CommittedEnrollments: []int{0}}
		state.StudentID = created.StudentID
		out.CompletionStatus = created.CompletionStatus
	}
	out.StudentID = state.Submission.StudentID

	extra := wizard.ExtraEnrollments(&state.Form)
	indices := make([]int, 0, len(extra))
	for i := range extra {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	for _, i := range indices {
		if state.Submission.Committed(i) {
			continue
		}
		if _, err := s.registry.CreateEnrollment(ctx, state.Submission.StudentID, extra[i]); err != nil {
			s.logger.Warn("additional enrollment failed",
				zap.String("session_id", sess.ID),
				zap.String("student_id", state.Submission.StudentID),
				zap.Int("enrollment", i),
				zap.Error(err),
			)
			return nil, &PartialFailureError{
				StudentID:   state.Submission.StudentID,
				Committed:   append([]int(nil), state.Submission.CommittedEnrollments...),
				FailedIndex: i,
				Err:         err,
			}
		}
		state.Submission.CommittedEnrollments = append(state.Submission.CommittedEnrollments, i)
	}
	out.Enrollments = len(state.Form.Enrollments)
	return out, nil
}

// Discard drops a session.
func (s *WizardService) Discard(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	s.forgetOptions(sess)
	return s.store.Delete(ctx, id)
}

func (s *WizardService) newSession(state *wizard.State) *WizardSession {
	now := s.now().UTC()
	sess := &WizardSession{ID: uuid.NewString(), State: state, CreatedAt: now, UpdatedAt: now}
	sess.alignOptions()
	return sess
}

// mutate runs fn on the session under its lock and saves the result, even
// when fn fails, so touched fields and recorded errors persist.
func (s *WizardService) mutate(ctx context.Context, id string, fn func(*WizardSession, *wizard.Machine) error) (*WizardView, error) {
	catalog := s.documentCatalog(ctx)

	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	m := wizard.NewMachine(sess.State, catalog, s.validator)
	fnErr := fn(sess, m)
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return buildView(sess, m, catalog, s.ttl), fnErr
}

func (s *WizardService) load(ctx context.Context, id string) (*WizardSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.ErrSessionExpired
	}
	var sess WizardSession
	if err := s.store.Load(ctx, id, &sess); err != nil {
		if errors.Is(err, appErrors.ErrSessionExpired) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load wizard session")
	}
	if sess.State == nil {
		return nil, appErrors.ErrSessionExpired
	}
	sess.alignOptions()
	return &sess, nil
}

func (s *WizardService) save(ctx context.Context, sess *WizardSession) error {
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess.ID, sess, s.ttl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	return nil
}

func (s *WizardService) view(ctx context.Context, sess *WizardSession) *WizardView {
	catalog := s.documentCatalog(ctx)
	return buildView(sess, wizard.NewMachine(sess.State, catalog, s.validator), catalog, s.ttl)
}

func (s *WizardService) documentCatalog(ctx context.Context) wizard.DocumentCatalog {
	if s.catalog == nil {
		return wizard.DocumentCatalog{}
	}
	return s.catalog.DocumentCatalog(ctx)
}

// primeOptions loads the option lists of hydrated rows. Failures leave the
// lists unloaded; the user can still reselect.
func (s *WizardService) primeOptions(ctx context.Context, sess *WizardSession) {
	if s.resolver == nil {
		return
	}
	for i := range sess.Options {
		if err := s.resolver.Prime(ctx, optionScope(sess.ID, i), &sess.Options[i]); err != nil {
			s.logger.Warn("could not load enrollment options",
				zap.String("session_id", sess.ID),
				zap.Int("enrollment", i),
				zap.Error(err),
			)
		}
	}
}

func (s *WizardService) forgetOptions(sess *WizardSession) {
	if s.resolver == nil {
		return
	}
	for i := range sess.Options {
		s.resolver.Tracker().Forget(optionScope(sess.ID, i))
	}
}
