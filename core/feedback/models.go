package feedback

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tarunb-0127/minilms/core"
)

// Feedback is a learner's end-of-course rating.
type Feedback struct {
	ID        int       `json:"id" db:"id"`
	LearnerID int       `json:"learnerId" db:"learner_id"`
	CourseID  int       `json:"courseId" db:"course_id"`
	Message   string    `json:"message" db:"message"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"` // UTC
}

// Stars renders the rating the way the course page does, eg. "★★★☆☆".
func (f Feedback) Stars() string {
	rating := f.Rating
	if rating < 0 {
		rating = 0
	} else if rating > 5 {
		rating = 5
	}
	stars := make([]rune, 0, 5)
	for i := 1; i <= 5; i++ {
		if i <= rating {
			stars = append(stars, '★')
		} else {
			stars = append(stars, '☆')
		}
	}
	return string(stars)
}

// NewFeedback contains information needed to submit Feedback.
type NewFeedback struct {
	LearnerID int    `json:"learnerId" form:"LearnerId" validate:"required,min=1"`
	CourseID  int    `json:"courseId" form:"CourseId" validate:"required,min=1"`
	Message   string `json:"message" form:"Message" validate:"required,max=2000"`
	Rating    int    `json:"rating" form:"Rating" validate:"required,min=1,max=5"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.Message = core.CleanString(nf.Message)
	return validate.Struct(nf)
}

// HasLearner reports whether any of feedbacks was left by learnerID.
func HasLearner(feedbacks []Feedback, learnerID int) bool {
	for _, f := range feedbacks {
		if f.LearnerID == learnerID {
			return true
		}
	}
	return false
}

type (
	// Repository is the server-side feedback store.
	Repository interface {
		CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
		QueryCourseFeedbacks(ctx context.Context, courseID int) ([]Feedback, error)
	}

	// Store is the remote feedback API used by learner clients.
	Store interface {
		CourseFeedbacks(ctx context.Context, courseID int) ([]Feedback, error)
		SubmitFeedback(ctx context.Context, nf NewFeedback) (Feedback, error)
	}
)
