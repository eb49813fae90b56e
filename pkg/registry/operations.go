package registry

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/enrollment-wizard/internal/models"
)

// ListCourses returns the courses of a pathway, or all courses when pathway is empty.
func (c *Client) ListCourses(ctx context.Context, pathway models.Pathway) ([]models.Course, error) {
	q := url.Values{}
	if pathway != "" {
		q.Set("pathway", string(pathway))
	}
	var out []models.Course
	err := c.do(ctx, call{op: "list_courses", method: http.MethodGet, path: "/courses", query: q, out: &out})
	return out, err
}

// ListBatches returns the intakes of a course.
func (c *Client) ListBatches(ctx context.Context, courseID string) ([]models.Batch, error) {
	var out []models.Batch
	err := c.do(ctx, call{op: "list_batches", method: http.MethodGet, path: "/courses/" + url.PathEscape(courseID) + "/batches", out: &out})
	return out, err
}

// ListClassrooms returns the classrooms of a course intake, leaving out excludeID when set.
func (c *Client) ListClassrooms(ctx context.Context, courseID, batchID, excludeID string) ([]models.Classroom, error) {
	q := url.Values{}
	q.Set("courseId", courseID)
	q.Set("batchId", batchID)
	if excludeID != "" {
		q.Set("excludeId", excludeID)
	}
	var out []models.Classroom
	err := c.do(ctx, call{op: "list_classrooms", method: http.MethodGet, path: "/classrooms", query: q, out: &out})
	return out, err
}

// ListEligibleTransferClassrooms returns the classrooms an enrollment may move to.
func (c *Client) ListEligibleTransferClassrooms(ctx context.Context, enrollmentID, currentClassroomID string) ([]models.Classroom, error) {
	q := url.Values{}
	if currentClassroomID != "" {
		q.Set("currentClassroomId", currentClassroomID)
	}
	var out []models.Classroom
	err := c.do(ctx, call{
		op:     "list_eligible_classrooms",
		method: http.MethodGet,
		path:   "/enrollments/" + url.PathEscape(enrollmentID) + "/eligible-classrooms",
		query:  q,
		out:    &out,
	})
	return out, err
}

// ListRequiredDocuments returns the document catalog.
func (c *Client) ListRequiredDocuments(ctx context.Context) ([]models.RequiredDocument, error) {
	var out []models.RequiredDocument
	err := c.do(ctx, call{op: "list_required_documents", method: http.MethodGet, path: "/required-documents", out: &out})
	return out, err
}

// GetStudent fetches one student with enrollments and completion status.
func (c *Client) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var out models.Student
	if err := c.do(ctx, call{op: "get_student", method: http.MethodGet, path: "/students/" + url.PathEscape(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStudent registers a student with the first enrollment.
func (c *Client) CreateStudent(ctx context.Context, req *models.StudentCreateRequest) (*models.CreateStudentResult, error) {
	var out models.CreateStudentResult
	if err := c.do(ctx, call{op: "create_student", method: http.MethodPost, path: "/students", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEnrollment adds one more enrollment to an existing student.
func (c *Client) CreateEnrollment(ctx context.Context, studentID string, req models.CreateEnrollmentRequest) (*models.EnrollmentRecord, error) {
	var out models.EnrollmentRecord
	if err := c.do(ctx, call{
		op:         "create_enrollment",
		method:     http.MethodPost,
		path:       "/students/" + url.PathEscape(studentID) + "/enrollments",
		body:       req,
		out:        &out,
		allowEmpty: true,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent replaces a student's profile and enrollments.
func (c *Client) UpdateStudent(ctx context.Context, id string, req *models.StudentUpdateRequest) (*models.UpdateStudentResult, error) {
	var out models.UpdateStudentResult
	if err := c.do(ctx, call{
		op:         "update_student",
		method:     http.MethodPut,
		path:       "/students/" + url.PathEscape(id),
		body:       req,
		out:        &out,
		allowEmpty: true,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddBatchTransfer moves an enrollment to another intake and classroom.
func (c *Client) AddBatchTransfer(ctx context.Context, enrollmentID string, req models.BatchTransferRequest) (*models.TransferResult, error) {
	var out models.TransferResult
	if err := c.do(ctx, call{
		op:         "add_batch_transfer",
		method:     http.MethodPost,
		path:       "/enrollments/" + url.PathEscape(enrollmentID) + "/batch-transfers",
		body:       req,
		out:        &out,
		allowEmpty: true,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckSession reports whether the forwarded session is still valid. A 401
// is an answer here, not a failure, and does not fire the unauthorized hook.
func (c *Client) CheckSession(ctx context.Context) (*models.SessionStatus, error) {
	var out models.SessionStatus
	err := c.do(ctx, call{op: "check_session", method: http.MethodGet, path: "/auth/session", out: &out, quiet401: true, allowEmpty: true})
	if IsUnauthorized(err) {
		return &models.SessionStatus{Authenticated: false}, nil
	}
	if err != nil {
		return nil, err
	}
	if !out.Authenticated && out.UserID != "" {
		out.Authenticated = true
	}
	return &out, nil
}
