package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	"github.com/noah-isme/enrollment-wizard/internal/resolver"
	"github.com/noah-isme/enrollment-wizard/internal/wizard"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

// CatalogRegistry is the part of the registry client that serves option lists.
type CatalogRegistry interface {
	ListCourses(ctx context.Context, pathway models.Pathway) ([]models.Course, error)
	ListBatches(ctx context.Context, courseID string) ([]models.Batch, error)
	ListClassrooms(ctx context.Context, courseID, batchID, excludeID string) ([]models.Classroom, error)
	ListRequiredDocuments(ctx context.Context) ([]models.RequiredDocument, error)
}

// CatalogService serves the dropdown option lists. Courses, intakes and the
// document catalog are cached; classrooms are always fetched because their
// enrolment counts move.
type CatalogService struct {
	registry CatalogRegistry
	cache    *CacheService
	logger   *zap.Logger
}

var _ resolver.OptionSource = (*CatalogService)(nil)

// NewCatalogService constructs a catalog service. cache may be nil.
func NewCatalogService(registry CatalogRegistry, cache *CacheService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{registry: registry, cache: cache, logger: logger}
}

// Pathways lists the selectable pathways. They are fixed and never fetched.
func (s *CatalogService) Pathways() []models.PathwayOption {
	out := make([]models.PathwayOption, len(models.Pathways))
	copy(out, models.Pathways)
	return out
}

// ListCourses returns the courses of pathway, or every course when pathway is empty.
func (s *CatalogService) ListCourses(ctx context.Context, pathway models.Pathway) ([]models.Course, error) {
	if pathway != "" && !models.IsKnownPathway(string(pathway)) {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "unknown pathway "+string(pathway))
	}
	var courses []models.Course
	err := s.cache.Remember(ctx, "courses:"+string(pathway), &courses, func(ctx context.Context) error {
		var err error
		courses, err = s.registry.ListCourses(ctx, pathway)
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonNilList(courses), nil
}

// ListBatches returns the intakes of a course.
func (s *CatalogService) ListBatches(ctx context.Context, courseID string) ([]models.Batch, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "select a course first")
	}
	var batches []models.Batch
	err := s.cache.Remember(ctx, "batches:"+courseID, &batches, func(ctx context.Context) error {
		var err error
		batches, err = s.registry.ListBatches(ctx, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonNilList(batches), nil
}

// ListClassrooms returns the classrooms of a course intake.
func (s *CatalogService) ListClassrooms(ctx context.Context, courseID, batchID, excludeID string) ([]models.Classroom, error) {
	courseID = strings.TrimSpace(courseID)
	batchID = strings.TrimSpace(batchID)
	if courseID == "" || batchID == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "select a course and an intake first")
	}
	rooms, err := s.registry.ListClassrooms(ctx, courseID, batchID, strings.TrimSpace(excludeID))
	if err != nil {
		return nil, err
	}
	return nonNilList(rooms), nil
}

// RequiredDocuments returns the document catalog.
func (s *CatalogService) RequiredDocuments(ctx context.Context) ([]models.RequiredDocument, error) {
	var docs []models.RequiredDocument
	err := s.cache.Remember(ctx, "required-documents", &docs, func(ctx context.Context) error {
		var err error
		docs, err = s.registry.ListRequiredDocuments(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonNilList(docs), nil
}

// DocumentCatalog loads the catalog for step gating. A failed load yields an
// unloaded catalog, which keeps the documents step incomplete.
func (s *CatalogService) DocumentCatalog(ctx context.Context) wizard.DocumentCatalog {
	docs, err := s.RequiredDocuments(ctx)
	if err != nil {
		s.logger.Warn("required document catalog unavailable", zap.Error(err))
		return wizard.DocumentCatalog{}
	}
	return wizard.DocumentCatalog{Documents: docs, Loaded: true}
}

// Invalidate drops every cached option list.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, "*")
}

func nonNilList[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
