package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/course"
)

type courseApi struct {
	repo course.Repository
}

func registerCourseAPI(g *echo.Group, repo course.Repository) {
	api := courseApi{repo: repo}

	g.GET("/course/:courseId", api.getCourse)
	g.GET("/module/course/:courseId", api.queryModules)
}

func (api *courseApi) getCourse(ctx echo.Context) error {
	courseID, err := pathID(ctx, "courseId")
	if err != nil {
		return err
	}
	c, err := api.repo.GetCourse(ctx.Request().Context(), courseID)
	if err != nil {
		if errors.Cause(err) == course.ErrCourseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) queryModules(ctx echo.Context) error {
	courseID, err := pathID(ctx, "courseId")
	if err != nil {
		return err
	}
	modules, err := api.repo.QueryCourseModules(ctx.Request().Context(), courseID)
	if err != nil {
		return errors.Wrap(err, "querying course modules")
	}
	return ctx.JSON(http.StatusOK, modules)
}
