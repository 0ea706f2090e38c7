package enrollment_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
	inmemdb "github.com/tarunb-0127/minilms/storage/database/inmem"
	testutil "github.com/tarunb-0127/minilms/tests"
)

func newService(t *testing.T) *enrollment.Service {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	modRepo := inmemdb.NewModuleRepository(db)
	testutil.CreateCourse(t, modRepo, 1, "A")
	testutil.CreateCourse(t, modRepo, 2, "X")
	return enrollment.NewService(inmemdb.NewEnrollmentRepository(db), modRepo)
}

func TestService_Enroll(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	e, err := svc.Enroll(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, e.LearnerID)
	assert.Equal(t, 1, e.CourseID)
	assert.False(t, e.EnrolledAt.IsZero())

	_, err = svc.Enroll(ctx, 5, 1)
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, enrollment.ErrAlreadyEnrolled, errors.Cause(err).(*core.ValidationError).Err)

	_, err = svc.Enroll(ctx, 5, 99)
	assert.Equal(t, course.ErrCourseNotFound, errors.Cause(err))
}

func TestService_MyCourses(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	courses, err := svc.MyCourses(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, courses)

	first, err := svc.Enroll(ctx, 5, 2)
	require.NoError(t, err)
	second, err := svc.Enroll(ctx, 5, 1)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, 6, 1)
	require.NoError(t, err)

	courses, err = svc.MyCourses(ctx, 5)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, course.Course{ID: 2, Name: "Course 2"}, courses[0].Course)
	assert.Equal(t, first.ID, courses[0].EnrollmentID)
	assert.Equal(t, second.ID, courses[1].EnrollmentID)

	c, ok := enrollment.Find(courses, 1)
	assert.True(t, ok)
	assert.Equal(t, second.ID, c.EnrollmentID)
	_, ok = enrollment.Find(courses, 3)
	assert.False(t, ok)
}

func TestService_Unenroll(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	e, err := svc.Enroll(ctx, 5, 1)
	require.NoError(t, err)

	assert.Equal(t, enrollment.ErrNotOwner, errors.Cause(svc.Unenroll(ctx, 6, e.ID)))
	require.NoError(t, svc.Unenroll(ctx, 5, e.ID))
	assert.Equal(t, enrollment.ErrNotFound, errors.Cause(svc.Unenroll(ctx, 5, e.ID)))

	courses, err := svc.MyCourses(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, courses)

	// enrolling again after leaving is allowed
	_, err = svc.Enroll(ctx, 5, 1)
	assert.NoError(t, err)
}
