package lmsapi

import (
	"math"
	"time"

	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
	"github.com/tarunb-0127/minilms/core/feedback"
	"github.com/tarunb-0127/minilms/core/progress"
)

// Response schemas. Pointer fields tell a missing field apart from a zero value;
// `required` ones must be present.

type courseProgressSchema struct {
	Progress *float64 `json:"progress" validate:"required"`
}

func (s courseProgressSchema) percent() int {
	return progress.ClampPercent(floor(*s.Progress))
}

type courseSchema struct {
	ID          *int    `json:"id" validate:"required"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s courseSchema) course() course.Course {
	c := course.Course{ID: *s.ID}
	if s.Name != nil {
		c.Name = *s.Name
	}
	if s.Description != nil {
		c.Description = *s.Description
	}
	return c
}

// enrolledCourseSchema is an entry of my-courses: a course whose id is the
// course id, plus its enrollment id.
type enrolledCourseSchema struct {
	courseSchema
	EnrollmentID *int       `json:"enrollmentId"`
	EnrolledAt   *time.Time `json:"enrolledAt"`
}

// enrolledCourse converts s; entries without an enrollment id are keyed by their course id.
func (s enrolledCourseSchema) enrolledCourse() enrollment.EnrolledCourse {
	ec := enrollment.EnrolledCourse{Course: s.course(), EnrollmentID: *s.ID}
	if s.EnrollmentID != nil {
		ec.EnrollmentID = *s.EnrollmentID
	}
	if s.EnrolledAt != nil {
		ec.EnrolledAt = s.EnrolledAt.UTC()
	}
	return ec
}

type enrollmentSchema struct {
	ID         *int       `json:"enrollmentId" validate:"required"`
	LearnerID  *int       `json:"learnerId"`
	CourseID   *int       `json:"courseId"`
	EnrolledAt *time.Time `json:"enrolledAt"`
}

func (s enrollmentSchema) enrollment(learnerID, courseID int) enrollment.Enrollment {
	e := enrollment.Enrollment{ID: *s.ID, LearnerID: learnerID, CourseID: courseID}
	if s.LearnerID != nil {
		e.LearnerID = *s.LearnerID
	}
	if s.CourseID != nil {
		e.CourseID = *s.CourseID
	}
	if s.EnrolledAt != nil {
		e.EnrolledAt = s.EnrolledAt.UTC()
	}
	return e
}

type moduleSchema struct {
	ID          *int    `json:"id" validate:"required"`
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description"`
	FilePath    *string `json:"filePath"`
	Position    *int    `json:"position"`
	CourseID    *int    `json:"courseId"`
}

// module converts s; modules without a position take their index in the response.
func (s moduleSchema) module(courseID, index int) course.Module {
	mod := course.Module{
		ID:       *s.ID,
		CourseID: courseID,
		Name:     *s.Name,
		Position: index,
	}
	if s.Description != nil {
		mod.Description = *s.Description
	}
	if s.FilePath != nil {
		mod.FilePath = *s.FilePath
	}
	if s.Position != nil {
		mod.Position = *s.Position
	}
	if s.CourseID != nil {
		mod.CourseID = *s.CourseID
	}
	return mod
}

type moduleProgressSchema struct {
	ModuleID           *int     `json:"moduleId" validate:"required"`
	ProgressPercentage *float64 `json:"progressPercentage" validate:"required"`
	IsCompleted        *bool    `json:"isCompleted"`
}

func (s moduleProgressSchema) moduleProgress() progress.ModuleProgress {
	mp := progress.ModuleProgress{
		ModuleID: *s.ModuleID,
		Percent:  progress.ClampPercent(floor(*s.ProgressPercentage)),
	}
	if s.IsCompleted != nil {
		mp.Completed = *s.IsCompleted
	}
	return mp
}

type recordSchema struct {
	LearnerID          *int       `json:"learnerId" validate:"required"`
	ModuleID           *int       `json:"moduleId" validate:"required"`
	CourseID           *int       `json:"courseId"`
	ProgressPercentage *float64   `json:"progressPercentage" validate:"required"`
	IsCompleted        *bool      `json:"isCompleted"`
	UpdatedAt          *time.Time `json:"updatedAt"`
}

func (s recordSchema) record(req progress.Request) progress.Record {
	rec := progress.Record{
		LearnerID:          *s.LearnerID,
		ModuleID:           *s.ModuleID,
		CourseID:           req.CourseID,
		ProgressPercentage: progress.ClampPercent(floor(*s.ProgressPercentage)),
	}
	if s.CourseID != nil {
		rec.CourseID = *s.CourseID
	}
	if s.IsCompleted != nil {
		rec.IsCompleted = *s.IsCompleted
	}
	if s.UpdatedAt != nil {
		rec.UpdatedAt = s.UpdatedAt.UTC()
	}
	return rec
}

type feedbackSchema struct {
	ID        *int       `json:"id" validate:"required"`
	LearnerID *int       `json:"learnerId" validate:"required"`
	CourseID  *int       `json:"courseId"`
	Message   *string    `json:"message"`
	Rating    *int       `json:"rating" validate:"required"`
	CreatedAt *time.Time `json:"createdAt"`
}

func (s feedbackSchema) feedback(courseID int) feedback.Feedback {
	fb := feedback.Feedback{
		ID:        *s.ID,
		LearnerID: *s.LearnerID,
		CourseID:  courseID,
		Rating:    *s.Rating,
	}
	if s.CourseID != nil {
		fb.CourseID = *s.CourseID
	}
	if s.Message != nil {
		fb.Message = *s.Message
	}
	if s.CreatedAt != nil {
		fb.CreatedAt = s.CreatedAt.UTC()
	}
	return fb
}

func floor(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Max(math.Min(math.Floor(f), math.MaxInt32), math.MinInt32))
}
