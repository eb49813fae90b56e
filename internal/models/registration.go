package models

import "github.com/shopspring/decimal"

// StudentProfile carries the top-level student fields shared by create and update requests.
type StudentProfile struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DOB         string `json:"dob"`
	NIC         string `json:"nic"`
	Address     string `json:"address"`
	Mobile      string `json:"mobile"`
	HomeContact string `json:"homeContact,omitempty"`
	Email       string `json:"email"`
}

// OptionalBlocks are included only when their guarding condition holds; otherwise the keys are absent.
type OptionalBlocks struct {
	HighestAcademicQualification string               `json:"highestAcademicQualification,omitempty"`
	QualificationDescription     string               `json:"qualificationDescription,omitempty"`
	RequiredDocuments            []DocumentSubmission `json:"requiredDocuments,omitempty"`
	EmergencyContact             *EmergencyContact    `json:"emergencyContact,omitempty"`
}

// PaymentPlan is a fully specified payment schema as sent to the registry.
type PaymentPlan struct {
	CourseFee            decimal.Decimal  `json:"courseFee"`
	DownPayment          decimal.Decimal  `json:"downPayment"`
	NumberOfInstallments int              `json:"numberOfInstallments"`
	InstallmentStartDate string           `json:"installmentStartDate"`
	PaymentFrequency     PaymentFrequency `json:"paymentFrequency"`
	IsDiscountApplicable bool             `json:"isDiscountApplicable"`
	DiscountType         DiscountType     `json:"discountType,omitempty"`
	DiscountValue        *decimal.Decimal `json:"discountValue,omitempty"`
}

// StudentCreateRequest registers a student together with the first enrollment.
type StudentCreateRequest struct {
	StudentProfile
	CourseID      string                 `json:"courseId"`
	BatchID       string                 `json:"batchId"`
	PaymentSchema map[string]PaymentPlan `json:"paymentSchema"`
	OptionalBlocks
}

// EnrollmentPayload is one enrollment in an update request.
type EnrollmentPayload struct {
	ID          string  `json:"id,omitempty"`
	Pathway     Pathway `json:"pathway,omitempty"`
	CourseID    string  `json:"courseId"`
	BatchID     string  `json:"batchId"`
	ClassroomID string  `json:"classroomId,omitempty"`
}

// StudentUpdateRequest replaces a student's profile and enrollments.
type StudentUpdateRequest struct {
	StudentProfile
	Enrollments   []EnrollmentPayload    `json:"enrollments"`
	PaymentSchema map[string]PaymentPlan `json:"paymentSchema"`
	OptionalBlocks
}

// CreateStudentResult is the registry response to a create call.
type CreateStudentResult struct {
	StudentID        string            `json:"studentId"`
	CompletionStatus *CompletionStatus `json:"completionStatus,omitempty"`
}

// UpdateStudentResult is the registry response to an update call.
type UpdateStudentResult struct {
	CompletionStatus *CompletionStatus `json:"completionStatus,omitempty"`
}

// SessionStatus reports whether the forwarded registry session cookie is still valid.
type SessionStatus struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
}
