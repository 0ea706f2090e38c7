package progress

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/course"
)

// CompletionThreshold is the percent from which a module counts as completed.
const CompletionThreshold = 99

var (
	// errors
	ErrNotFound         = errors.New("progress not found")
	ErrUnknownModule    = errors.New("module is not part of this course")
	ErrNoModuleSelected = errors.New("no module selected")
	ErrDurationUnknown  = errors.New("media duration unknown")
)

// Update is a progress event for one module.
type Update struct {
	ModuleID  int
	Percent   int
	Completed bool
}

// ModuleProgress is the per-(learner, module) progress as the learner client sees it.
type ModuleProgress struct {
	ModuleID  int  `json:"moduleId"`
	Percent   int  `json:"progressPercentage"`
	Completed bool `json:"isCompleted"`
}

// ModuleStatus pairs a module with its progress, in course order.
type ModuleStatus struct {
	Module   course.Module
	Progress ModuleProgress
}

// Snapshot is a consistent view of a course's progress.
type Snapshot struct {
	CourseID int
	// Percent is the local estimate, recomputed on every applied update.
	Percent int
	// Confirmed is the last course progress reported by the server.
	Confirmed    int
	HasConfirmed bool
	Modules      []ModuleStatus

	SelectedModuleID int
	FeedbackOpen     bool
	HasFeedback      bool
}

// Request is the body of the progress update & complete endpoints.
type Request struct {
	LearnerID          int  `json:"learnerId" validate:"required,min=1"`
	ModuleID           int  `json:"moduleId" validate:"required,min=1"`
	CourseID           int  `json:"courseId" validate:"required,min=1"`
	ProgressPercentage int  `json:"progressPercentage" validate:"percent"`
	IsCompleted        bool `json:"isCompleted"`
}

// Record is the authoritative server-side progress of a learner on a module.
type Record struct {
	LearnerID          int       `json:"learnerId" db:"learner_id"`
	ModuleID           int       `json:"moduleId" db:"module_id"`
	CourseID           int       `json:"courseId" db:"course_id"`
	ProgressPercentage int       `json:"progressPercentage" db:"progress_percentage"`
	IsCompleted        bool      `json:"isCompleted" db:"is_completed"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

func (rec Record) ModuleProgress() ModuleProgress {
	return ModuleProgress{ModuleID: rec.ModuleID, Percent: rec.ProgressPercentage, Completed: rec.IsCompleted}
}

type (
	// Store is the remote progress API used by learner clients.
	Store interface {
		CourseProgress(ctx context.Context, courseID int) (int, error)
		ModulesProgress(ctx context.Context, courseID int) ([]ModuleProgress, error)
		UpdateProgress(ctx context.Context, req Request) (Record, error)
		CompleteProgress(ctx context.Context, req Request) (Record, error)
	}

	// Repository is the server-side progress store.
	Repository interface {
		GetRecord(ctx context.Context, learnerID, moduleID int) (Record, error)
		// MergeRecord creates the record of (LearnerID, ModuleID) or merges rec into
		// the stored one atomically: the higher percent is kept and completion is OR'd.
		// It returns the stored record.
		MergeRecord(ctx context.Context, rec Record) (Record, error)
		QueryCourseRecords(ctx context.Context, learnerID, courseID int) ([]Record, error)
	}
)

// ClampPercent bounds p to [0, 100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// PercentOf converts a playback position into a floored, clamped percent.
func PercentOf(position, duration float64) (int, error) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) || math.IsNaN(position) {
		return 0, ErrDurationUnknown
	}
	ratio := math.Floor(position / duration * 100)
	switch {
	case ratio > 100:
		return 100, nil
	case ratio < 0:
		return 0, nil
	}
	return int(ratio), nil
}

// CoursePercent is the floored mean of percents; 0 without modules.
func CoursePercent(percents []int) int {
	if len(percents) == 0 {
		return 0
	}
	var total int
	for _, p := range percents {
		total += ClampPercent(p)
	}
	return total / len(percents)
}

// IsCompleted reports whether a module at percent counts as completed.
func IsCompleted(percent int) bool {
	return percent >= CompletionThreshold
}
