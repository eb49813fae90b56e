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

// TransferRegistry is the part of the registry client used by transfers.
type TransferRegistry interface {
	ListEligibleTransferClassrooms(ctx context.Context, enrollmentID, currentClassroomID string) ([]models.Classroom, error)
	AddBatchTransfer(ctx context.Context, enrollmentID string, req models.BatchTransferRequest) (*models.TransferResult, error)
}

// TransferService moves existing enrollments between intakes and classrooms.
type TransferService struct {
	options   resolver.OptionSource
	registry  TransferRegistry
	validator *wizard.Validator
	logger    *zap.Logger
}

// NewTransferService constructs a transfer service.
func NewTransferService(options resolver.OptionSource, registry TransferRegistry, v *wizard.Validator, logger *zap.Logger) *TransferService {
	if v == nil {
		v = wizard.DefaultValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{options: options, registry: registry, validator: v, logger: logger}
}

// IntakeOptions lists the intakes of a course the enrollment can move to.
// The current intake is never offered.
func (s *TransferService) IntakeOptions(ctx context.Context, courseID, currentBatchID string) ([]models.Batch, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "select a course first")
	}
	batches, err := s.options.ListBatches(ctx, courseID)
	if err != nil {
		return nil, err
	}
	set := resolver.OptionSet{CourseID: courseID, ExcludeBatchID: strings.TrimSpace(currentBatchID)}
	resolver.Apply(&set, &resolver.Result{
		Request: resolver.Request{Level: resolver.LevelIntake, CourseID: courseID},
		Batches: batches,
	})
	return set.Batches, nil
}

// ClassroomOptions lists the classrooms of the target intake. It refuses to
// fetch until both the course and the target intake are chosen.
func (s *TransferService) ClassroomOptions(ctx context.Context, courseID, batchID, currentClassroomID string) ([]models.Classroom, error) {
	if strings.TrimSpace(courseID) == "" || strings.TrimSpace(batchID) == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "select a course and a target intake first")
	}
	return s.options.ListClassrooms(ctx, courseID, batchID, currentClassroomID)
}

// EligibleClassrooms lists the classrooms an enrollment can move to within its intake.
func (s *TransferService) EligibleClassrooms(ctx context.Context, enrollmentID, currentClassroomID string) ([]models.Classroom, error) {
	enrollmentID = strings.TrimSpace(enrollmentID)
	if enrollmentID == "" {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "enrollment id is required")
	}
	rooms, err := s.registry.ListEligibleTransferClassrooms(ctx, enrollmentID, strings.TrimSpace(currentClassroomID))
	if err != nil {
		return nil, err
	}
	return nonNilList(rooms), nil
}

// Transfer validates req and records one batch transfer with the registry.
func (s *TransferService) Transfer(ctx context.Context, req models.EnrollmentTransferRequest) (*models.TransferResult, error) {
	req.EnrollmentID = strings.TrimSpace(req.EnrollmentID)
	req.BatchID = strings.TrimSpace(req.BatchID)
	req.CurrentBatchID = strings.TrimSpace(req.CurrentBatchID)
	req.ClassroomID = strings.TrimSpace(req.ClassroomID)
	req.Reason = strings.TrimSpace(req.Reason)

	if fields := s.validator.Fields("", req); len(fields) > 0 {
		return nil, appErrors.Validation("invalid transfer request", fields)
	}

	result, err := s.registry.AddBatchTransfer(ctx, req.EnrollmentID, models.BatchTransferRequest{
		BatchID:     req.BatchID,
		ClassroomID: req.ClassroomID,
		Reason:      req.Reason,
	})
	if err != nil {
		s.logger.Warn("batch transfer failed",
			zap.String("enrollment_id", req.EnrollmentID),
			zap.String("batch_id", req.BatchID),
			zap.Error(err),
		)
		return nil, err
	}
	if result == nil {
		result = &models.TransferResult{}
	}
	if result.EnrollmentID == "" {
		result.EnrollmentID = req.EnrollmentID
	}
	if result.ToBatchID == "" {
		result.ToBatchID = req.BatchID
		result.ClassroomID = req.ClassroomID
	}
	if result.FromBatchID == "" {
		result.FromBatchID = req.CurrentBatchID
	}
	s.logger.Info("batch transfer recorded",
		zap.String("enrollment_id", req.EnrollmentID),
		zap.String("from_batch", req.CurrentBatchID),
		zap.String("to_batch", req.BatchID),
	)
	return result, nil
}
