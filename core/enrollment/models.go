package enrollment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/course"
)

var (
	// errors
	ErrNotFound        = errors.New("enrollment not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrNotOwner        = errors.New("enrollment belongs to another learner")
)

// Enrollment grants a learner access to the modules of a course.
type Enrollment struct {
	ID         int       `json:"enrollmentId" db:"id"`
	LearnerID  int       `json:"learnerId" db:"learner_id"`
	CourseID   int       `json:"courseId" db:"course_id"`
	EnrolledAt time.Time `json:"enrolledAt" db:"enrolled_at"` // UTC
}

// EnrolledCourse is an entry of a learner's course list: the course itself
// plus the enrollment that gives access to it.
type EnrolledCourse struct {
	course.Course
	EnrollmentID int       `json:"enrollmentId"`
	EnrolledAt   time.Time `json:"enrolledAt"`
}

// Find returns the entry of courseID in courses.
func Find(courses []EnrolledCourse, courseID int) (EnrolledCourse, bool) {
	for _, c := range courses {
		if c.ID == courseID {
			return c, true
		}
	}
	return EnrolledCourse{}, false
}

type (
	// Repository is the server-side enrollment store.
	Repository interface {
		// CreateEnrollment returns ErrAlreadyEnrolled when (LearnerID, CourseID) exists.
		CreateEnrollment(ctx context.Context, e Enrollment) (Enrollment, error)
		GetEnrollment(ctx context.Context, id int) (Enrollment, error)
		DeleteEnrollment(ctx context.Context, id int) error
		QueryLearnerEnrollments(ctx context.Context, learnerID int) ([]Enrollment, error)
	}

	// Store is the remote enrollment API used by learner clients.
	Store interface {
		MyCourses(ctx context.Context) ([]EnrolledCourse, error)
		Enroll(ctx context.Context, courseID int) (Enrollment, error)
		Unenroll(ctx context.Context, enrollmentID int) error
	}
)
