package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/feedback"
)

type feedbackApi struct {
	svc      *feedback.Service
	validate *validator.Validate
}

func registerFeedbackAPI(g *echo.Group, svc *feedback.Service, validate *validator.Validate) {
	api := feedbackApi{svc: svc, validate: validate}

	fg := g.Group("/Feedbacks")
	fg.GET("/course/:courseId", api.queryByCourse)
	fg.POST("", api.create)
}

func (api *feedbackApi) queryByCourse(ctx echo.Context) error {
	courseID, err := pathID(ctx, "courseId")
	if err != nil {
		return err
	}
	fbs, err := api.svc.QueryByCourse(ctx.Request().Context(), courseID)
	if err != nil {
		return errors.Wrap(err, "querying course feedbacks")
	}
	return ctx.JSON(http.StatusOK, fbs)
}

func (api *feedbackApi) create(ctx echo.Context) error {
	var data feedback.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to feedback.NewFeedback")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := checkLearner(ctx, data.LearnerID); err != nil {
		return err
	}

	fb, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating feedback")
	}
	return ctx.JSON(http.StatusCreated, fb)
}
