package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/enrollment-wizard/internal/resolver"
	"github.com/noah-isme/enrollment-wizard/internal/service"
	"github.com/noah-isme/enrollment-wizard/internal/wizard"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

type stubWizardService struct {
	view   *service.WizardView
	err    error
	result *service.SubmitResult

	gotID    string
	gotIndex int
	gotLevel resolver.Level
	gotValue string
	gotPatch wizard.FormPatch
}

func (s *stubWizardService) Start(context.Context) (*service.WizardView, error) {
	return s.view, s.err
}

func (s *stubWizardService) StartUpdate(_ context.Context, studentID string) (*service.WizardView, error) {
	s.gotID = studentID
	return s.view, s.err
}

func (s *stubWizardService) Reload(_ context.Context, id string) (*service.WizardView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubWizardService) Get(_ context.Context, id string) (*service.WizardView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubWizardService) Patch(_ context.Context, id string, patch wizard.FormPatch) (*service.WizardView, error) {
	s.gotID, s.gotPatch = id, patch
	return s.view, s.err
}

func (s *stubWizardService) Next(_ context.Context, id string) (*service.WizardView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubWizardService) Back(_ context.Context, id string) (*service.WizardView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubWizardService) Skip(_ context.Context, id string) (*service.WizardView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubWizardService) AddEnrollment(_ context.Context, id string) (*service.WizardView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubWizardService) RemoveEnrollment(_ context.Context, id string, index int) (*service.WizardView, error) {
	s.gotID, s.gotIndex = id, index
	return s.view, s.err
}

func (s *stubWizardService) SelectOption(_ context.Context, id string, index int, level resolver.Level, value string) (*service.WizardView, error) {
	s.gotID, s.gotIndex, s.gotLevel, s.gotValue = id, index, level, value
	return s.view, s.err
}

func (s *stubWizardService) Schedule(_ context.Context, id, courseID string) (*service.PaymentSchedule, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}
	return &service.PaymentSchedule{CourseID: courseID}, nil
}

func (s *stubWizardService) Submit(_ context.Context, id string) (*service.SubmitResult, error) {
	s.gotID = id
	return s.result, s.err
}

func (s *stubWizardService) Discard(_ context.Context, id string) error {
	s.gotID = id
	return s.err
}

func newWizardRouter(svc *stubWizardService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewWizardHandler(svc)
	g := r.Group("/wizard")
	g.POST("/sessions", h.Start)
	g.POST("/students/:studentId/sessions", h.StartUpdate)
	g.GET("/sessions/:id", h.Get)
	g.DELETE("/sessions/:id", h.Discard)
	g.PATCH("/sessions/:id/form", h.Patch)
	g.DELETE("/sessions/:id/enrollments/:index", h.RemoveEnrollment)
	g.PUT("/sessions/:id/enrollments/:index/selection", h.Select)
	g.POST("/sessions/:id/next", h.Next)
	g.POST("/sessions/:id/submit", h.Submit)
	g.GET("/sessions/:id/payment/:courseId/schedule", h.Schedule)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWizardHandlerStart(t *testing.T) {
	svc := &stubWizardService{view: &service.WizardView{ID: "s1", StepKey: "personal"}}
	rec := serve(newWizardRouter(svc), http.MethodPost, "/wizard/sessions", "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"s1"`)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestWizardHandlerStartUpdatePassesStudent(t *testing.T) {
	svc := &stubWizardService{view: &service.WizardView{ID: "s1"}}
	rec := serve(newWizardRouter(svc), http.MethodPost, "/wizard/students/stu-9/sessions", "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "stu-9", svc.gotID)
}

func TestWizardHandlerNextReturnsViewWithErrors(t *testing.T) {
	svc := &stubWizardService{
		view: &service.WizardView{ID: "s1", Errors: map[string]string{"personal.firstName": "is required"}},
		err:  appErrors.Clone(appErrors.ErrValidation, "step is incomplete"),
	}
	rec := serve(newWizardRouter(svc), http.MethodPost, "/wizard/sessions/s1/next", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, string(env["data"]), "personal.firstName")
	assert.Contains(t, string(env["error"]), "VALIDATION_ERROR")
}

func TestWizardHandlerGetExpired(t *testing.T) {
	svc := &stubWizardService{err: appErrors.ErrSessionExpired}
	rec := serve(newWizardRouter(svc), http.MethodGet, "/wizard/sessions/gone", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	_, hasData := env["data"]
	assert.False(t, hasData)
}

func TestWizardHandlerPatchBindsSections(t *testing.T) {
	svc := &stubWizardService{view: &service.WizardView{ID: "s1"}}
	rec := serve(newWizardRouter(svc), http.MethodPatch, "/wizard/sessions/s1/form",
		`{"personal":{"firstName":"Ada"},"requiredDocuments":["nic"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotPatch.Personal)
	assert.Equal(t, "Ada", svc.gotPatch.Personal.FirstName)
	assert.Equal(t, []string{"nic"}, *svc.gotPatch.RequiredDocuments)
}

func TestWizardHandlerPatchRejectsMalformedJSON(t *testing.T) {
	svc := &stubWizardService{}
	rec := serve(newWizardRouter(svc), http.MethodPatch, "/wizard/sessions/s1/form", `{"personal":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.gotID)
}

func TestWizardHandlerSelect(t *testing.T) {
	svc := &stubWizardService{view: &service.WizardView{ID: "s1"}}
	rec := serve(newWizardRouter(svc), http.MethodPut, "/wizard/sessions/s1/enrollments/2/selection",
		`{"level":"intake","value":"b-1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.gotIndex)
	assert.Equal(t, resolver.LevelIntake, svc.gotLevel)
	assert.Equal(t, "b-1", svc.gotValue)
}

func TestWizardHandlerSelectRejectsBadInput(t *testing.T) {
	cases := map[string]struct {
		path string
		body string
	}{
		"unknown level":  {"/wizard/sessions/s1/enrollments/0/selection", `{"level":"campus","value":"x"}`},
		"negative index": {"/wizard/sessions/s1/enrollments/-1/selection", `{"level":"course","value":"x"}`},
		"missing level":  {"/wizard/sessions/s1/enrollments/0/selection", `{"value":"x"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubWizardService{}
			rec := serve(newWizardRouter(svc), http.MethodPut, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, svc.gotID)
		})
	}
}

func TestWizardHandlerSelectSuperseded(t *testing.T) {
	svc := &stubWizardService{view: &service.WizardView{ID: "s1"}, err: resolver.ErrSuperseded}
	rec := serve(newWizardRouter(svc), http.MethodPut, "/wizard/sessions/s1/enrollments/0/selection",
		`{"level":"course","value":"c-1"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUPERSEDED")
}

func TestWizardHandlerRemoveEnrollment(t *testing.T) {
	svc := &stubWizardService{view: &service.WizardView{ID: "s1"}}
	rec := serve(newWizardRouter(svc), http.MethodDelete, "/wizard/sessions/s1/enrollments/1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.gotIndex)
}

func TestWizardHandlerSubmitStatusByMode(t *testing.T) {
	svc := &stubWizardService{result: &service.SubmitResult{StudentID: "stu-1", Mode: wizard.ModeCreate}}
	rec := serve(newWizardRouter(svc), http.MethodPost, "/wizard/sessions/s1/submit", "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	svc.result = &service.SubmitResult{StudentID: "stu-1", Mode: wizard.ModeUpdate}
	rec = serve(newWizardRouter(svc), http.MethodPost, "/wizard/sessions/s1/submit", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWizardHandlerSubmitPartialFailure(t *testing.T) {
	svc := &stubWizardService{err: &service.PartialFailureError{
		StudentID:   "stu-1",
		Committed:   []int{0},
		FailedIndex: 1,
		Err:         appErrors.ErrUpstream,
	}}
	rec := serve(newWizardRouter(svc), http.MethodPost, "/wizard/sessions/s1/submit", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "PARTIAL_FAILURE")
	assert.Contains(t, rec.Body.String(), "stu-1")
}

func TestWizardHandlerDiscard(t *testing.T) {
	svc := &stubWizardService{}
	rec := serve(newWizardRouter(svc), http.MethodDelete, "/wizard/sessions/s1", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "s1", svc.gotID)
}

func TestWizardHandlerSchedule(t *testing.T) {
	svc := &stubWizardService{}
	rec := serve(newWizardRouter(svc), http.MethodGet, "/wizard/sessions/s1/payment/c-1/schedule", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"courseId":"c-1"`)
}
