package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

func newTransferService(reg *fakeRegistry) *TransferService {
	return NewTransferService(NewCatalogService(reg, nil, nil), reg, nil, nil)
}

func validTransfer() models.EnrollmentTransferRequest {
	return models.EnrollmentTransferRequest{
		EnrollmentID:   "E1",
		CourseID:       "C1",
		CurrentBatchID: "B1",
		BatchID:        "B2",
		ClassroomID:    "R1",
		Reason:         "moved to weekend classes",
	}
}

func TestIntakeOptionsExcludeCurrentBatch(t *testing.T) {
	svc := newTransferService(newFakeRegistry())

	batches, err := svc.IntakeOptions(context.Background(), "C1", "B1")
	require.NoError(t, err)
	assert.Equal(t, []models.Batch{{ID: "B2", CourseID: "C1", Name: "2024 May"}}, batches)

	_, err = svc.IntakeOptions(context.Background(), "", "B1")
	assert.Error(t, err)
}

func TestClassroomOptionsNeedCourseAndBatch(t *testing.T) {
	reg := newFakeRegistry()
	svc := newTransferService(reg)

	_, err := svc.ClassroomOptions(context.Background(), "C1", "", "R1")
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	assert.Zero(t, reg.Calls("list_classrooms"))

	rooms, err := svc.ClassroomOptions(context.Background(), "C1", "B2", "R1")
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestEligibleClassrooms(t *testing.T) {
	reg := newFakeRegistry()
	svc := newTransferService(reg)

	rooms, err := svc.EligibleClassrooms(context.Background(), "E1", "R1")
	require.NoError(t, err)
	assert.NotNil(t, rooms)

	_, err = svc.EligibleClassrooms(context.Background(), " ", "R1")
	assert.Error(t, err)
}

func TestTransferValidation(t *testing.T) {
	reg := newFakeRegistry()
	svc := newTransferService(reg)

	req := validTransfer()
	req.BatchID = "B1"
	req.Reason = "   "
	req.ClassroomID = ""

	_, err := svc.Transfer(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	var fields []string
	for _, f := range appErr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"batchId", "classroomId", "reason"}, fields)
	assert.Zero(t, reg.Calls("add_batch_transfer"))
}

func TestTransferRecordsOneCall(t *testing.T) {
	reg := newFakeRegistry()
	svc := newTransferService(reg)

	result, err := svc.Transfer(context.Background(), validTransfer())
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Calls("add_batch_transfer"))
	assert.Equal(t, []models.BatchTransferRequest{{BatchID: "B2", ClassroomID: "R1", Reason: "moved to weekend classes"}}, reg.transfers)
	assert.Equal(t, "T1", result.TransferID)
	assert.Equal(t, "E1", result.EnrollmentID)
	assert.Equal(t, "B1", result.FromBatchID)
	assert.Equal(t, "B2", result.ToBatchID)
}

func TestTransferPropagatesRegistryErrors(t *testing.T) {
	reg := newFakeRegistry()
	reg.transferErr = appErrors.Clone(appErrors.ErrConflict, "classroom is full")
	svc := newTransferService(reg)

	_, err := svc.Transfer(context.Background(), validTransfer())
	assert.Equal(t, "classroom is full", appErrors.FromError(err).Message)
}
