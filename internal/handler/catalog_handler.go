package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	"github.com/noah-isme/enrollment-wizard/pkg/response"
)

type catalogService interface {
	Pathways() []models.PathwayOption
	ListCourses(ctx context.Context, pathway models.Pathway) ([]models.Course, error)
	ListBatches(ctx context.Context, courseID string) ([]models.Batch, error)
	ListClassrooms(ctx context.Context, courseID, batchID, excludeID string) ([]models.Classroom, error)
	RequiredDocuments(ctx context.Context) ([]models.RequiredDocument, error)
}

// CatalogHandler serves the option lists behind the enrollment dropdowns.
type CatalogHandler struct {
	catalog catalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Pathways godoc
// @Summary List pathways
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/pathways [get]
func (h *CatalogHandler) Pathways(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.Pathways())
}

// Courses godoc
// @Summary List courses of a pathway
// @Tags Catalog
// @Produce json
// @Param pathway query string true "Pathway"
// @Success 200 {object} response.Envelope
// @Router /catalog/courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	pathway := models.Pathway(strings.TrimSpace(c.Query("pathway")))
	courses, err := h.catalog.ListCourses(c.Request.Context(), pathway)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Batches godoc
// @Summary List intakes of a course
// @Tags Catalog
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /catalog/courses/{courseId}/batches [get]
func (h *CatalogHandler) Batches(c *gin.Context) {
	batches, err := h.catalog.ListBatches(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches)
}

// Classrooms godoc
// @Summary List classrooms of an intake
// @Tags Catalog
// @Produce json
// @Param courseId query string true "Course ID"
// @Param batchId query string true "Intake ID"
// @Param excludeId query string false "Classroom to leave out"
// @Success 200 {object} response.Envelope
// @Router /catalog/classrooms [get]
func (h *CatalogHandler) Classrooms(c *gin.Context) {
	classrooms, err := h.catalog.ListClassrooms(c.Request.Context(), c.Query("courseId"), c.Query("batchId"), c.Query("excludeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classrooms)
}

// RequiredDocuments godoc
// @Summary List documents a student can hand in
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/required-documents [get]
func (h *CatalogHandler) RequiredDocuments(c *gin.Context) {
	docs, err := h.catalog.RequiredDocuments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs)
}
