// Package resolver resolves the pathway, course, intake and classroom
// dropdown chain shared by the enrollment wizard and the transfer dialogs.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

// Level identifies one dropdown in the chain.
type Level int

// Levels in dependency order.
const (
	LevelPathway Level = iota + 1
	LevelCourse
	LevelIntake
	LevelClassroom
)

var levelKeys = map[Level]string{
	LevelPathway:   "pathway",
	LevelCourse:    "course",
	LevelIntake:    "intake",
	LevelClassroom: "classroom",
}

// ParseLevel accepts the level key used by the HTTP API.
func ParseLevel(key string) (Level, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for level, k := range levelKeys {
		if k == key {
			return level, true
		}
	}
	return 0, false
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	return l >= LevelPathway && l <= LevelClassroom
}

func (l Level) String() string {
	if k, ok := levelKeys[l]; ok {
		return k
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// OptionSource lists the options of each fetched level.
type OptionSource interface {
	ListCourses(ctx context.Context, pathway models.Pathway) ([]models.Course, error)
	ListBatches(ctx context.Context, courseID string) ([]models.Batch, error)
	ListClassrooms(ctx context.Context, courseID, batchID, excludeID string) ([]models.Classroom, error)
}

// OptionSet is the selection and option lists of one dropdown chain. A nil
// list has not been loaded; an empty one was loaded and had no entries.
type OptionSet struct {
	Pathway     models.Pathway `json:"pathway"`
	CourseID    string         `json:"courseId"`
	BatchID     string         `json:"batchId"`
	ClassroomID string         `json:"classroomId"`

	Courses    []models.Course    `json:"courses"`
	Batches    []models.Batch     `json:"batches"`
	Classrooms []models.Classroom `json:"classrooms"`

	// ExcludeBatchID drops the student's current intake in transfer dialogs.
	ExcludeBatchID string `json:"excludeBatchId,omitempty"`
	// ExcludeClassroomID is forwarded to the classroom lookup.
	ExcludeClassroomID string `json:"excludeClassroomId,omitempty"`
}

// FromSelection seeds a set from an enrollment row. Option lists start unloaded.
func FromSelection(sel models.EnrollmentSelection) OptionSet {
	return OptionSet{
		Pathway:     sel.Pathway,
		CourseID:    sel.CourseID,
		BatchID:     sel.BatchID,
		ClassroomID: sel.ClassroomID,
	}
}

// Apply writes the selection and the display names known from the loaded
// lists onto sel. Names are kept when the list does not hold the id.
func (s *OptionSet) Apply(sel *models.EnrollmentSelection) {
	if sel.CourseID != s.CourseID {
		sel.CourseName = ""
	}
	if sel.BatchID != s.BatchID {
		sel.BatchName = ""
	}
	if sel.ClassroomID != s.ClassroomID {
		sel.ClassroomName = ""
	}
	sel.Pathway = s.Pathway
	sel.CourseID = s.CourseID
	sel.BatchID = s.BatchID
	sel.ClassroomID = s.ClassroomID

	for _, c := range s.Courses {
		if c.ID == s.CourseID {
			sel.CourseName = c.Name
		}
	}
	for _, b := range s.Batches {
		if b.ID == s.BatchID {
			sel.BatchName = b.Name
		}
	}
	for _, c := range s.Classrooms {
		if c.ID == s.ClassroomID {
			sel.ClassroomName = c.Name
		}
	}
}

// Value returns the selection at level.
func (s *OptionSet) Value(level Level) string {
	switch level {
	case LevelPathway:
		return string(s.Pathway)
	case LevelCourse:
		return s.CourseID
	case LevelIntake:
		return s.BatchID
	case LevelClassroom:
		return s.ClassroomID
	}
	return ""
}

// Request is the single fetch a selection requires: the options of Level
// under the given parent selections.
type Request struct {
	Level     Level          `json:"level"`
	Pathway   models.Pathway `json:"pathway,omitempty"`
	CourseID  string         `json:"courseId,omitempty"`
	BatchID   string         `json:"batchId,omitempty"`
	ExcludeID string         `json:"excludeId,omitempty"`
}

// Select sets value at level and clears every deeper selection and option
// list. It returns the fetch for the next level, or nil when the new value
// is empty or level has no successor.
func Select(set *OptionSet, level Level, value string) (*Request, error) {
	if !level.Valid() {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, fmt.Sprintf("unknown level %d", int(level)))
	}
	value = strings.TrimSpace(value)

	if value != "" {
		if parent := level - 1; parent >= LevelPathway && set.Value(parent) == "" {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "select "+parent.String()+" first")
		}
		if !set.known(level, value) {
			return nil, appErrors.Validation("unknown option", []appErrors.FieldError{{
				Field:   level.String(),
				Message: fmt.Sprintf("%q is not an available %s", value, level),
			}})
		}
	}

	set.reset(level)
	switch level {
	case LevelPathway:
		set.Pathway = models.Pathway(value)
	case LevelCourse:
		set.CourseID = value
	case LevelIntake:
		set.BatchID = value
	case LevelClassroom:
		set.ClassroomID = value
	}

	if value == "" || level == LevelClassroom {
		return nil, nil
	}
	return set.request(level + 1), nil
}

// Pending returns the fetches needed to load every list whose parent is
// selected but which has not been loaded yet, in level order.
func Pending(set *OptionSet) []*Request {
	var out []*Request
	if set.Pathway != "" && set.Courses == nil {
		out = append(out, set.request(LevelCourse))
	}
	if set.CourseID != "" && set.Batches == nil {
		out = append(out, set.request(LevelIntake))
	}
	if set.CourseID != "" && set.BatchID != "" && set.Classrooms == nil {
		out = append(out, set.request(LevelClassroom))
	}
	return out
}

func (s *OptionSet) request(level Level) *Request {
	req := &Request{Level: level}
	switch level {
	case LevelCourse:
		req.Pathway = s.Pathway
	case LevelIntake:
		req.Pathway = s.Pathway
		req.CourseID = s.CourseID
	case LevelClassroom:
		req.Pathway = s.Pathway
		req.CourseID = s.CourseID
		req.BatchID = s.BatchID
		req.ExcludeID = s.ExcludeClassroomID
	}
	return req
}

// reset clears the selections and lists below level.
func (s *OptionSet) reset(level Level) {
	if level < LevelCourse {
		s.CourseID = ""
		s.Courses = nil
	}
	if level < LevelIntake {
		s.BatchID = ""
		s.Batches = nil
	}
	if level < LevelClassroom {
		s.ClassroomID = ""
		s.Classrooms = nil
	}
}

// known checks value against the level's list once that list is loaded.
func (s *OptionSet) known(level Level, value string) bool {
	switch level {
	case LevelPathway:
		return models.IsKnownPathway(value)
	case LevelCourse:
		if s.Courses == nil {
			return true
		}
		for _, c := range s.Courses {
			if c.ID == value {
				return true
			}
		}
	case LevelIntake:
		if s.Batches == nil {
			return true
		}
		for _, b := range s.Batches {
			if b.ID == value {
				return true
			}
		}
	case LevelClassroom:
		if s.Classrooms == nil {
			return true
		}
		for _, c := range s.Classrooms {
			if c.ID == value {
				return true
			}
		}
	}
	return false
}
