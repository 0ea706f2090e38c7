package progress

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
)

var errModuleNotInCourse = errors.New("module does not belong to this course")

// Service is the server side of progress tracking. The server is authoritative:
// a module's stored percent never decreases and completion is never reverted.
type Service struct {
	repo    Repository
	modules course.Repository
}

func NewService(repo Repository, modules course.Repository) *Service {
	return &Service{repo: repo, modules: modules}
}

// Update merges a partial progress update into the learner's record.
func (svc *Service) Update(ctx context.Context, req Request) (Record, error) {
	return svc.save(ctx, req, false)
}

// Complete marks the module as fully watched.
func (svc *Service) Complete(ctx context.Context, req Request) (Record, error) {
	return svc.save(ctx, req, true)
}

func (svc *Service) save(ctx context.Context, req Request, complete bool) (Record, error) {
	if err := svc.checkModule(ctx, req.ModuleID, req.CourseID); err != nil {
		return Record{}, err
	}

	pct := ClampPercent(req.ProgressPercentage)
	if complete {
		pct = 100
	}
	rec := Record{
		LearnerID:          req.LearnerID,
		ModuleID:           req.ModuleID,
		CourseID:           req.CourseID,
		ProgressPercentage: pct,
		IsCompleted:        complete || req.IsCompleted || IsCompleted(pct),
		UpdatedAt:          time.Now().UTC(),
	}

	rec, err := svc.repo.MergeRecord(ctx, rec)
	return rec, errors.Wrap(err, "saving progress record")
}

func (svc *Service) checkModule(ctx context.Context, moduleID, courseID int) error {
	mod, err := svc.modules.GetModule(ctx, moduleID)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "moduleId", Error: err.Error()})
		}
		return errors.Wrap(err, "getting module")
	}
	if mod.CourseID != courseID {
		return core.NewValidationError(errModuleNotInCourse, core.FieldError{Field: "moduleId", Error: errModuleNotInCourse.Error()})
	}
	return nil
}

// ModulesProgress lists the learner's progress on every module of the course (missing ones at 0%).
func (svc *Service) ModulesProgress(ctx context.Context, learnerID, courseID int) ([]ModuleProgress, error) {
	modules, err := svc.modules.QueryCourseModules(ctx, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying course modules")
	}
	records, err := svc.repo.QueryCourseRecords(ctx, learnerID, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying course progress records")
	}

	byModule := make(map[int]Record, len(records))
	for _, rec := range records {
		byModule[rec.ModuleID] = rec
	}
	mps := make([]ModuleProgress, 0, len(modules))
	for _, m := range modules {
		if rec, ok := byModule[m.ID]; ok {
			mps = append(mps, rec.ModuleProgress())
		} else {
			mps = append(mps, ModuleProgress{ModuleID: m.ID})
		}
	}
	return mps, nil
}

// CourseProgress is the floored mean of the learner's module percents.
func (svc *Service) CourseProgress(ctx context.Context, learnerID, courseID int) (int, error) {
	mps, err := svc.ModulesProgress(ctx, learnerID, courseID)
	if err != nil {
		return 0, err
	}
	percents := make([]int, 0, len(mps))
	for _, mp := range mps {
		percents = append(percents, mp.Percent)
	}
	return CoursePercent(percents), nil
}
