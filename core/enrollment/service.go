package enrollment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
)

type Service struct {
	repo    Repository
	courses course.Repository
}

func NewService(repo Repository, courses course.Repository) *Service {
	return &Service{repo: repo, courses: courses}
}

// Enroll gives learnerID access to courseID. The course must exist.
func (svc *Service) Enroll(ctx context.Context, learnerID, courseID int) (Enrollment, error) {
	if _, err := svc.courses.GetCourse(ctx, courseID); err != nil {
		return Enrollment{}, errors.Wrap(err, "getting course")
	}

	e, err := svc.repo.CreateEnrollment(ctx, Enrollment{
		LearnerID:  learnerID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	})
	if errors.Cause(err) == ErrAlreadyEnrolled {
		return Enrollment{}, core.NewValidationError(err, core.FieldError{Field: "courseId", Error: err.Error()})
	}
	return e, errors.Wrap(err, "creating enrollment")
}

// Unenroll deletes one of learnerID's enrollments.
func (svc *Service) Unenroll(ctx context.Context, learnerID, enrollmentID int) error {
	e, err := svc.repo.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return errors.Wrap(err, "getting enrollment")
	}
	if e.LearnerID != learnerID {
		return ErrNotOwner
	}
	return errors.Wrap(svc.repo.DeleteEnrollment(ctx, enrollmentID), "deleting enrollment")
}

// MyCourses lists the courses learnerID is enrolled in, in enrollment order.
func (svc *Service) MyCourses(ctx context.Context, learnerID int) ([]EnrolledCourse, error) {
	enrollments, err := svc.repo.QueryLearnerEnrollments(ctx, learnerID)
	if err != nil {
		return nil, errors.Wrap(err, "querying learner enrollments")
	}

	courses := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		c, err := svc.courses.GetCourse(ctx, e.CourseID)
		switch errors.Cause(err) {
		case nil:
		case course.ErrCourseNotFound: // removed from the catalog since
			c = course.Course{ID: e.CourseID}
		default:
			return nil, errors.Wrap(err, "getting course")
		}
		courses = append(courses, EnrolledCourse{Course: c, EnrollmentID: e.ID, EnrolledAt: e.EnrolledAt})
	}
	return courses, nil
}
