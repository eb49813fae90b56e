package models

import "time"

// Student is the registry's view of a registered learner, as fetched for the update flow.
type Student struct {
	ID                           string               `json:"id"`
	RegistrationNumber           string               `json:"registrationNumber,omitempty"`
	FirstName                    string               `json:"firstName"`
	LastName                     string               `json:"lastName"`
	DOB                          string               `json:"dob"`
	NIC                          string               `json:"nic"`
	Address                      string               `json:"address"`
	Mobile                       string               `json:"mobile"`
	HomeContact                  string               `json:"homeContact"`
	Email                        string               `json:"email"`
	HighestAcademicQualification string               `json:"highestAcademicQualification,omitempty"`
	QualificationDescription     string               `json:"qualificationDescription,omitempty"`
	RequiredDocuments            []DocumentSubmission `json:"requiredDocuments,omitempty"`
	EmergencyContact             *EmergencyContact    `json:"emergencyContact,omitempty"`
	Enrollments                  []EnrollmentRecord   `json:"enrollments,omitempty"`
	CompletionStatus             *CompletionStatus    `json:"completionStatus,omitempty"`
	UpdatedAt                    *time.Time           `json:"updatedAt,omitempty"`
}

// CompletionStatus is the registry's verdict on how complete a student profile is.
type CompletionStatus struct {
	IsComplete      bool     `json:"isComplete"`
	MissingSections []string `json:"missingSections,omitempty"`
}

// EmergencyContact is the optional contact person block.
type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone" validate:"omitempty,mobile"`
	Email        string `json:"email" validate:"omitempty,email"`
	Address      string `json:"address"`
}

// DocumentSubmission marks a catalog document as provided.
type DocumentSubmission struct {
	DocumentID string `json:"documentId"`
	IsProvided bool   `json:"isProvided"`
}
