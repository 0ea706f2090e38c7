package feedback

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core"
)

var (
	// errors
	ErrFeedbackExists = errors.New("feedback already submitted for this course")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a validated NewFeedback. A learner may leave one feedback per course.
func (svc *Service) Create(ctx context.Context, nf NewFeedback) (Feedback, error) {
	existing, err := svc.repo.QueryCourseFeedbacks(ctx, nf.CourseID)
	if err != nil {
		return Feedback{}, errors.Wrap(err, "querying course feedbacks")
	}
	if HasLearner(existing, nf.LearnerID) {
		return Feedback{}, core.NewValidationError(ErrFeedbackExists, core.FieldError{Field: "courseId", Error: ErrFeedbackExists.Error()})
	}

	fb, err := svc.repo.CreateFeedback(ctx, Feedback{
		LearnerID: nf.LearnerID,
		CourseID:  nf.CourseID,
		Message:   nf.Message,
		Rating:    nf.Rating,
		CreatedAt: time.Now().UTC(),
	})
	return fb, errors.Wrap(err, "creating feedback")
}

func (svc *Service) QueryByCourse(ctx context.Context, courseID int) ([]Feedback, error) {
	return svc.repo.QueryCourseFeedbacks(ctx, courseID)
}
