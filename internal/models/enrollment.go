package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive      EnrollmentStatus = "ACTIVE"
	EnrollmentStatusTransferred EnrollmentStatus = "TRANSFERRED"
	EnrollmentStatusSuspended   EnrollmentStatus = "SUSPENDED"
	EnrollmentStatusCompleted   EnrollmentStatus = "COMPLETED"
	EnrollmentStatusWithdrawn   EnrollmentStatus = "WITHDRAWN"
)

// EnrollmentRecord associates a student with a course, batch and optional classroom.
type EnrollmentRecord struct {
	ID            string           `json:"id"`
	StudentID     string           `json:"studentId"`
	Pathway       Pathway          `json:"pathway,omitempty"`
	CourseID      string           `json:"courseId"`
	CourseName    string           `json:"courseName,omitempty"`
	BatchID       string           `json:"batchId"`
	BatchName     string           `json:"batchName,omitempty"`
	ClassroomID   string           `json:"classroomId,omitempty"`
	ClassroomName string           `json:"classroomName,omitempty"`
	Status        EnrollmentStatus `json:"status,omitempty"`
	PaymentSchema *PaymentSchema   `json:"paymentSchema,omitempty"`
	EnrolledAt    *time.Time       `json:"enrolledAt,omitempty"`
}

// CreateEnrollmentRequest adds another enrollment to an existing student.
type CreateEnrollmentRequest struct {
	CourseID string `json:"courseId"`
	BatchID  string `json:"batchId"`
}

// BatchTransferRequest is the registry payload recording a move to another intake and classroom.
type BatchTransferRequest struct {
	BatchID     string `json:"batchId"`
	ClassroomID string `json:"classroomId"`
	Reason      string `json:"reason"`
}

// TransferResult is returned by the registry after a batch transfer is recorded.
type TransferResult struct {
	TransferID    string           `json:"transferId"`
	EnrollmentID  string           `json:"enrollmentId"`
	FromBatchID   string           `json:"fromBatchId,omitempty"`
	ToBatchID     string           `json:"toBatchId"`
	ClassroomID   string           `json:"classroomId"`
	Status        EnrollmentStatus `json:"status,omitempty"`
	TransferredAt *time.Time       `json:"transferredAt,omitempty"`
}

// EnrollmentTransferRequest moves an already enrolled student to another intake and classroom.
type EnrollmentTransferRequest struct {
	EnrollmentID       string `json:"enrollmentId" validate:"required"`
	CourseID           string `json:"courseId" validate:"required"`
	CurrentBatchID     string `json:"currentBatchId" validate:"required"`
	CurrentClassroomID string `json:"currentClassroomId"`
	BatchID            string `json:"batchId" validate:"required,nefield=CurrentBatchID"`
	ClassroomID        string `json:"classroomId" validate:"required"`
	Reason             string `json:"reason" validate:"notblank,max=500"`
}
