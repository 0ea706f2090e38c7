package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
)

type enrollmentApi struct {
	svc *enrollment.Service
}

func registerEnrollmentAPI(g *echo.Group, svc *enrollment.Service) {
	api := enrollmentApi{svc: svc}

	// the LMS front-end uses both spellings
	for _, prefix := range []string{"/enrollment", "/Enrollment"} {
		eg := g.Group(prefix)
		eg.GET("/my-courses", api.myCourses)
		eg.POST("/enroll/:courseId", api.enroll)
		eg.DELETE("/:enrollmentId", api.unenroll)
	}
}

func (api *enrollmentApi) myCourses(ctx echo.Context) error {
	learnerID, err := getContextLearnerID(ctx)
	if err != nil {
		return err
	}
	courses, err := api.svc.MyCourses(ctx.Request().Context(), learnerID)
	if err != nil {
		return errors.Wrap(err, "querying learner courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *enrollmentApi) enroll(ctx echo.Context) error {
	learnerID, err := getContextLearnerID(ctx)
	if err != nil {
		return err
	}
	courseID, err := pathID(ctx, "courseId")
	if err != nil {
		return err
	}

	e, err := api.svc.Enroll(ctx.Request().Context(), learnerID, courseID)
	if err != nil {
		if errors.Cause(err) == course.ErrCourseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "enrolling learner")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *enrollmentApi) unenroll(ctx echo.Context) error {
	learnerID, err := getContextLearnerID(ctx)
	if err != nil {
		return err
	}
	enrollmentID, err := pathID(ctx, "enrollmentId")
	if err != nil {
		return err
	}

	err = api.svc.Unenroll(ctx.Request().Context(), learnerID, enrollmentID)
	switch errors.Cause(err) {
	case nil:
		return ctx.NoContent(http.StatusNoContent)
	case enrollment.ErrNotFound:
		return errHttpNotFound
	case enrollment.ErrNotOwner:
		return errHttpForbidden
	default:
		return errors.Wrap(err, "unenrolling learner")
	}
}
