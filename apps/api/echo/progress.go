package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/progress"
)

type progressApi struct {
	svc      *progress.Service
	validate *validator.Validate
}

// CourseProgressResponse is the body of the course progress endpoint.
type CourseProgressResponse struct {
	Progress int `json:"progress"`
}

func registerProgressAPI(g *echo.Group, svc *progress.Service, validate *validator.Validate) {
	api := progressApi{svc: svc, validate: validate}

	pg := g.Group("/Progress")
	pg.GET("/course/:courseId", api.courseProgress)
	pg.GET("/modules/:courseId", api.modulesProgress)
	pg.POST("/update", api.update)
	pg.POST("/complete", api.complete)
}

// Handlers

func (api *progressApi) courseProgress(ctx echo.Context) error {
	learnerID, courseID, err := api.learnerAndCourse(ctx)
	if err != nil {
		return err
	}
	pct, err := api.svc.CourseProgress(ctx.Request().Context(), learnerID, courseID)
	if err != nil {
		return errors.Wrap(err, "computing course progress")
	}
	return ctx.JSON(http.StatusOK, CourseProgressResponse{Progress: pct})
}

func (api *progressApi) modulesProgress(ctx echo.Context) error {
	learnerID, courseID, err := api.learnerAndCourse(ctx)
	if err != nil {
		return err
	}
	mps, err := api.svc.ModulesProgress(ctx.Request().Context(), learnerID, courseID)
	if err != nil {
		return errors.Wrap(err, "querying modules progress")
	}
	return ctx.JSON(http.StatusOK, mps)
}

func (api *progressApi) update(ctx echo.Context) error {
	req, err := api.bind(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Update(ctx.Request().Context(), req)
	if err != nil {
		return errors.Wrap(err, "updating progress")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *progressApi) complete(ctx echo.Context) error {
	req, err := api.bind(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Complete(ctx.Request().Context(), req)
	if err != nil {
		return errors.Wrap(err, "completing progress")
	}
	return ctx.JSON(http.StatusOK, rec)
}

// Helpers

func (api *progressApi) learnerAndCourse(ctx echo.Context) (int, int, error) {
	learnerID, err := getContextLearnerID(ctx)
	if err != nil {
		return 0, 0, err
	}
	courseID, err := pathID(ctx, "courseId")
	if err != nil {
		return 0, 0, err
	}
	return learnerID, courseID, nil
}

func (api *progressApi) bind(ctx echo.Context) (progress.Request, error) {
	var req progress.Request
	if err := ctx.Bind(&req); err != nil {
		return req, errors.Wrap(err, "binding to progress.Request")
	}
	if err := api.validate.Struct(req); err != nil {
		return req, err
	}
	return req, checkLearner(ctx, req.LearnerID)
}
