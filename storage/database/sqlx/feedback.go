package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/feedback"
)

type feedbackRepository struct {
	db *sqlx.DB
}

func NewFeedbackRepository(db *sqlx.DB) feedback.Repository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	q := `INSERT INTO feedback (learner_id, course_id, message, rating, created_at)
		VALUES (:learner_id, :course_id, :message, :rating, :created_at) RETURNING id`
	rows, err := repo.db.NamedQueryContext(ctx, q, fb)
	if err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&fb.ID); err != nil {
			return feedback.Feedback{}, errors.Wrap(err, "scanning feedback id")
		}
	}
	return fb, errors.Wrap(rows.Err(), "inserting feedback")
}

func (repo *feedbackRepository) QueryCourseFeedbacks(ctx context.Context, courseID int) ([]feedback.Feedback, error) {
	fbs := make([]feedback.Feedback, 0)
	err := repo.db.SelectContext(ctx, &fbs, `SELECT * FROM feedback WHERE course_id = $1 ORDER BY id`, courseID)
	return fbs, errors.Wrap(err, "selecting course feedbacks")
}
