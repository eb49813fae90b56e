package resolver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

// ErrSuperseded is returned for a fetch whose result was overtaken by a newer selection.
var ErrSuperseded = appErrors.New("SUPERSEDED", http.StatusConflict, "option request superseded by a newer selection")

// Result carries the options fetched for a Request.
type Result struct {
	Request    Request
	Courses    []models.Course
	Batches    []models.Batch
	Classrooms []models.Classroom
}

// Resolver runs option fetches with supersession tracking.
type Resolver struct {
	source  OptionSource
	tracker *Tracker
	timeout time.Duration
	logger  *zap.Logger
}

// New constructs a Resolver. A zero timeout leaves deadlines to the caller's context.
func New(source OptionSource, timeout time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{source: source, tracker: NewTracker(), timeout: timeout, logger: logger}
}

// Tracker exposes the abort-token bookkeeping.
func (r *Resolver) Tracker() *Tracker {
	return r.tracker
}

// Fetch loads the options req asks for. A fetch overtaken by a newer one for
// the same scope returns ErrSuperseded; a failed fetch returns a network error.
func (r *Resolver) Fetch(ctx context.Context, scope string, req *Request) (*Result, error) {
	if req == nil {
		return nil, nil
	}
	fetchCtx, ticket := r.tracker.Begin(ctx, scope, req.Level)
	defer r.tracker.Done(ticket)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(fetchCtx, r.timeout)
		defer cancel()
	}

	result := &Result{Request: *req}
	var err error
	switch req.Level {
	case LevelCourse:
		result.Courses, err = r.source.ListCourses(fetchCtx, req.Pathway)
	case LevelIntake:
		result.Batches, err = r.source.ListBatches(fetchCtx, req.CourseID)
	case LevelClassroom:
		result.Classrooms, err = r.source.ListClassrooms(fetchCtx, req.CourseID, req.BatchID, req.ExcludeID)
	default:
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "level "+req.Level.String()+" has no options to fetch")
	}

	if !r.tracker.Current(ticket) {
		r.logger.Debug("option fetch superseded",
			zap.String("scope", scope),
			zap.String("level", req.Level.String()),
		)
		return nil, ErrSuperseded
	}
	if err != nil {
		r.logger.Warn("option fetch failed",
			zap.String("scope", scope),
			zap.String("level", req.Level.String()),
			zap.Error(err),
		)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "loading "+req.Level.String()+" options timed out")
		}
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrUnauthorized.Code {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "could not load "+req.Level.String()+" options")
	}
	return result, nil
}

// Apply stores res on set when set still has the parent selections the
// request was made for. It reports whether the result was used.
func Apply(set *OptionSet, res *Result) bool {
	if res == nil {
		return false
	}
	req := res.Request
	switch req.Level {
	case LevelCourse:
		if set.Pathway != req.Pathway {
			return false
		}
		set.Courses = nonNil(res.Courses)
	case LevelIntake:
		if set.Pathway != req.Pathway || set.CourseID != req.CourseID {
			return false
		}
		batches := make([]models.Batch, 0, len(res.Batches))
		for _, b := range res.Batches {
			if set.ExcludeBatchID != "" && b.ID == set.ExcludeBatchID {
				continue
			}
			batches = append(batches, b)
		}
		set.Batches = batches
	case LevelClassroom:
		if set.Pathway != req.Pathway || set.CourseID != req.CourseID || set.BatchID != req.BatchID {
			return false
		}
		set.Classrooms = nonNil(res.Classrooms)
	default:
		return false
	}
	return true
}

// Resolve selects value at level and loads the next level in one go. Use it
// when the set is not shared; callers holding a lock should Select, Fetch
// without the lock, then Apply.
func (r *Resolver) Resolve(ctx context.Context, scope string, set *OptionSet, level Level, value string) error {
	req, err := Select(set, level, value)
	if err != nil {
		return err
	}
	if req == nil {
		r.tracker.Invalidate(scope, level+1)
		return nil
	}
	res, err := r.Fetch(ctx, scope, req)
	if err != nil {
		return err
	}
	Apply(set, res)
	return nil
}

// Prime loads every list set is missing, stopping at the first failure.
func (r *Resolver) Prime(ctx context.Context, scope string, set *OptionSet) error {
	for _, req := range Pending(set) {
		res, err := r.Fetch(ctx, scope, req)
		if err != nil {
			return err
		}
		Apply(set, res)
	}
	return nil
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
