package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	"github.com/noah-isme/enrollment-wizard/pkg/response"
)

type transferService interface {
	IntakeOptions(ctx context.Context, courseID, currentBatchID string) ([]models.Batch, error)
	ClassroomOptions(ctx context.Context, courseID, batchID, currentClassroomID string) ([]models.Classroom, error)
	EligibleClassrooms(ctx context.Context, enrollmentID, currentClassroomID string) ([]models.Classroom, error)
	Transfer(ctx context.Context, req models.EnrollmentTransferRequest) (*models.TransferResult, error)
}

// TransferHandler exposes batch transfer endpoints for existing enrollments.
type TransferHandler struct {
	transfers transferService
}

// NewTransferHandler constructs TransferHandler.
func NewTransferHandler(transfers transferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// Intakes godoc
// @Summary List intakes an enrollment can move to
// @Tags Transfers
// @Produce json
// @Param courseId query string true "Course ID"
// @Param currentBatchId query string false "Current intake, never offered"
// @Success 200 {object} response.Envelope
// @Router /transfers/intakes [get]
func (h *TransferHandler) Intakes(c *gin.Context) {
	batches, err := h.transfers.IntakeOptions(c.Request.Context(), c.Query("courseId"), c.Query("currentBatchId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches)
}

// Classrooms godoc
// @Summary List classrooms of the target intake
// @Tags Transfers
// @Produce json
// @Param courseId query string true "Course ID"
// @Param batchId query string true "Target intake ID"
// @Param currentClassroomId query string false "Current classroom"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /transfers/classrooms [get]
func (h *TransferHandler) Classrooms(c *gin.Context) {
	classrooms, err := h.transfers.ClassroomOptions(c.Request.Context(), c.Query("courseId"), c.Query("batchId"), c.Query("currentClassroomId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classrooms)
}

// EligibleClassrooms godoc
// @Summary List classrooms the registry allows for a transfer
// @Tags Transfers
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param currentClassroomId query string false "Current classroom"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/eligible-classrooms [get]
func (h *TransferHandler) EligibleClassrooms(c *gin.Context) {
	classrooms, err := h.transfers.EligibleClassrooms(c.Request.Context(), c.Param("id"), c.Query("currentClassroomId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classrooms)
}

// Transfer godoc
// @Summary Move an enrollment to another intake
// @Tags Transfers
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body models.EnrollmentTransferRequest true "Transfer payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /enrollments/{id}/transfers [post]
func (h *TransferHandler) Transfer(c *gin.Context) {
	var req models.EnrollmentTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	req.EnrollmentID = c.Param("id")
	result, err := h.transfers.Transfer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
