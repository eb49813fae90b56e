package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/enrollment-wizard/internal/resolver"
	"github.com/noah-isme/enrollment-wizard/internal/service"
	"github.com/noah-isme/enrollment-wizard/internal/wizard"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
	"github.com/noah-isme/enrollment-wizard/pkg/response"
)

type wizardService interface {
	Start(ctx context.Context) (*service.WizardView, error)
	StartUpdate(ctx context.Context, studentID string) (*service.WizardView, error)
	Reload(ctx context.Context, id string) (*service.WizardView, error)
	Get(ctx context.Context, id string) (*service.WizardView, error)
	Patch(ctx context.Context, id string, patch wizard.FormPatch) (*service.WizardView, error)
	Next(ctx context.Context, id string) (*service.WizardView, error)
	Back(ctx context.Context, id string) (*service.WizardView, error)
	Skip(ctx context.Context, id string) (*service.WizardView, error)
	AddEnrollment(ctx context.Context, id string) (*service.WizardView, error)
	RemoveEnrollment(ctx context.Context, id string, index int) (*service.WizardView, error)
	SelectOption(ctx context.Context, id string, index int, level resolver.Level, value string) (*service.WizardView, error)
	Schedule(ctx context.Context, id, courseID string) (*service.PaymentSchedule, error)
	Submit(ctx context.Context, id string) (*service.SubmitResult, error)
	Discard(ctx context.Context, id string) error
}

// WizardHandler exposes the enrollment wizard session endpoints.
type WizardHandler struct {
	wizard wizardService
}

// NewWizardHandler constructs WizardHandler.
func NewWizardHandler(svc wizardService) *WizardHandler {
	return &WizardHandler{wizard: svc}
}

// SelectionRequest picks one level of an enrollment row's option chain.
type SelectionRequest struct {
	Level string `json:"level" binding:"required"`
	Value string `json:"value"`
}

// respond writes the view. Blocked transitions still return the view so the
// client can render field errors next to the inputs.
func respond(c *gin.Context, status int, view *service.WizardView, err error) {
	if err != nil {
		if view != nil {
			response.ErrorWithData(c, err, view)
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, status, view)
}

// Start godoc
// @Summary Start a new student enrollment
// @Tags Wizard
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /wizard/sessions [post]
func (h *WizardHandler) Start(c *gin.Context) {
	view, err := h.wizard.Start(c.Request.Context())
	respond(c, http.StatusCreated, view, err)
}

// StartUpdate godoc
// @Summary Start editing an existing student
// @Tags Wizard
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /wizard/students/{studentId}/sessions [post]
func (h *WizardHandler) StartUpdate(c *gin.Context) {
	view, err := h.wizard.StartUpdate(c.Request.Context(), c.Param("studentId"))
	respond(c, http.StatusCreated, view, err)
}

// Get godoc
// @Summary Get wizard session
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /wizard/sessions/{id} [get]
func (h *WizardHandler) Get(c *gin.Context) {
	view, err := h.wizard.Get(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, view, err)
}

// Reload godoc
// @Summary Reload the edited student from the registry
// @Description Replaces the whole draft with the registry's current record.
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/reload [post]
func (h *WizardHandler) Reload(c *gin.Context) {
	view, err := h.wizard.Reload(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, view, err)
}

// Discard godoc
// @Summary Discard wizard session
// @Tags Wizard
// @Param id path string true "Session ID"
// @Success 204
// @Router /wizard/sessions/{id} [delete]
func (h *WizardHandler) Discard(c *gin.Context) {
	if err := h.wizard.Discard(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Patch godoc
// @Summary Update form sections
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body wizard.FormPatch true "Sections to replace"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/form [patch]
func (h *WizardHandler) Patch(c *gin.Context) {
	var patch wizard.FormPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	view, err := h.wizard.Patch(c.Request.Context(), c.Param("id"), patch)
	respond(c, http.StatusOK, view, err)
}

// AddEnrollment godoc
// @Summary Add an enrollment row
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/enrollments [post]
func (h *WizardHandler) AddEnrollment(c *gin.Context) {
	view, err := h.wizard.AddEnrollment(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, view, err)
}

// RemoveEnrollment godoc
// @Summary Remove an enrollment row
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Row index"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/enrollments/{index} [delete]
func (h *WizardHandler) RemoveEnrollment(c *gin.Context) {
	index, err := indexParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.wizard.RemoveEnrollment(c.Request.Context(), c.Param("id"), index)
	respond(c, http.StatusOK, view, err)
}

// Select godoc
// @Summary Select pathway, course, intake or classroom for a row
// @Description Clears every level below the changed one and loads the next option list.
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Row index"
// @Param payload body SelectionRequest true "Level and value"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /wizard/sessions/{id}/enrollments/{index}/selection [put]
func (h *WizardHandler) Select(c *gin.Context) {
	index, err := indexParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	level, ok := resolver.ParseLevel(req.Level)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "level must be pathway, course, intake or classroom"))
		return
	}
	view, err := h.wizard.SelectOption(c.Request.Context(), c.Param("id"), index, level, req.Value)
	respond(c, http.StatusOK, view, err)
}

// Next godoc
// @Summary Validate the active step and advance
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /wizard/sessions/{id}/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	view, err := h.wizard.Next(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, view, err)
}

// Back godoc
// @Summary Return to the previous step
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/back [post]
func (h *WizardHandler) Back(c *gin.Context) {
	view, err := h.wizard.Back(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, view, err)
}

// Skip godoc
// @Summary Skip an optional step
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/skip [post]
func (h *WizardHandler) Skip(c *gin.Context) {
	view, err := h.wizard.Skip(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, view, err)
}

// Submit godoc
// @Summary Submit the wizard to the registry
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /wizard/sessions/{id}/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	result, err := h.wizard.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusCreated
	if result.Mode == wizard.ModeUpdate {
		status = http.StatusOK
	}
	response.JSON(c, status, result)
}

// Schedule godoc
// @Summary Installment schedule of one course
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/payment/{courseId}/schedule [get]
func (h *WizardHandler) Schedule(c *gin.Context) {
	schedule, err := h.wizard.Schedule(c.Request.Context(), c.Param("id"), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}
