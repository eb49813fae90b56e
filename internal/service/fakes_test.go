package service

import (
	"context"
	"sync"

	"github.com/noah-isme/enrollment-wizard/internal/models"
)

type fakeRegistry struct {
	mu sync.Mutex

	courses    map[models.Pathway][]models.Course
	batches    map[string][]models.Batch
	classrooms []models.Classroom
	eligible   []models.Classroom
	documents  []models.RequiredDocument
	students   map[string]*models.Student

	listErr       error
	documentsErr  error
	createErr     error
	enrollmentErr map[string]error
	updateErr     error
	transferErr   error

	calls       map[string]int
	created     []*models.StudentCreateRequest
	enrollments []models.CreateEnrollmentRequest
	updated     []*models.StudentUpdateRequest
	transfers   []models.BatchTransferRequest
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		courses: map[models.Pathway][]models.Course{
			models.PathwayHD: {{ID: "C1", Name: "HD in Computing", Pathway: models.PathwayHD}, {ID: "C2", Name: "HD in Business", Pathway: models.PathwayHD}},
		},
		batches: map[string][]models.Batch{
			"C1": {{ID: "B1", CourseID: "C1", Name: "2024 Jan"}, {ID: "B2", CourseID: "C1", Name: "2024 May"}},
			"C2": {{ID: "B3", CourseID: "C2", Name: "2024 Feb"}},
		},
		classrooms:    []models.Classroom{{ID: "R1", Name: "Lab 1"}},
		documents:     []models.RequiredDocument{{ID: "D1", Name: "NIC copy", IsRequired: true}, {ID: "D2", Name: "Photo"}},
		students:      map[string]*models.Student{},
		enrollmentErr: map[string]error{},
		calls:         map[string]int{},
	}
}

func (f *fakeRegistry) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeRegistry) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRegistry) ListCourses(_ context.Context, pathway models.Pathway) ([]models.Course, error) {
	f.count("list_courses")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.courses[pathway], nil
}

func (f *fakeRegistry) ListBatches(_ context.Context, courseID string) ([]models.Batch, error) {
	f.count("list_batches")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.batches[courseID], nil
}

func (f *fakeRegistry) ListClassrooms(_ context.Context, _, _, _ string) ([]models.Classroom, error) {
	f.count("list_classrooms")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.classrooms, nil
}

func (f *fakeRegistry) ListEligibleTransferClassrooms(_ context.Context, _, _ string) ([]models.Classroom, error) {
	f.count("list_eligible_classrooms")
	return f.eligible, f.listErr
}

func (f *fakeRegistry) ListRequiredDocuments(context.Context) ([]models.RequiredDocument, error) {
	f.count("list_required_documents")
	if f.documentsErr != nil {
		return nil, f.documentsErr
	}
	return f.documents, nil
}

func (f *fakeRegistry) GetStudent(_ context.Context, id string) (*models.Student, error) {
	f.count("get_student")
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[id]
	if !ok {
		return nil, errNotFound
	}
	copied := *student
	return &copied, nil
}

func (f *fakeRegistry) CreateStudent(_ context.Context, req *models.StudentCreateRequest) (*models.CreateStudentResult, error) {
	f.count("create_student")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return &models.CreateStudentResult{StudentID: "S-new"}, nil
}

func (f *fakeRegistry) CreateEnrollment(_ context.Context, _ string, req models.CreateEnrollmentRequest) (*models.EnrollmentRecord, error) {
	f.count("create_enrollment")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enrollmentErr[req.CourseID]; err != nil {
		return nil, err
	}
	f.enrollments = append(f.enrollments, req)
	return &models.EnrollmentRecord{CourseID: req.CourseID, BatchID: req.BatchID}, nil
}

func (f *fakeRegistry) UpdateStudent(_ context.Context, _ string, req *models.StudentUpdateRequest) (*models.UpdateStudentResult, error) {
	f.count("update_student")
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, req)
	return &models.UpdateStudentResult{CompletionStatus: &models.CompletionStatus{IsComplete: true}}, nil
}

func (f *fakeRegistry) AddBatchTransfer(_ context.Context, _ string, req models.BatchTransferRequest) (*models.TransferResult, error) {
	f.count("add_batch_transfer")
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transfers = append(f.transfers, req)
	return &models.TransferResult{TransferID: "T1"}, nil
}
