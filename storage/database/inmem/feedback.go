package inmemdb

import (
	"context"
	"sort"

	"github.com/tarunb-0127/minilms/core/feedback"
)

type feedbackRepository struct {
	db *feedbackTable
}

func NewFeedbackRepository(db *DB) feedback.Repository {
	return &feedbackRepository{db: db.feedback}
}

func (repo *feedbackRepository) CreateFeedback(_ context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	fb.ID = repo.db.pkCount
	repo.db.table[fb.ID] = &fb
	return fb, nil
}

func (repo *feedbackRepository) QueryCourseFeedbacks(_ context.Context, courseID int) ([]feedback.Feedback, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	fbs := make([]feedback.Feedback, 0)
	for _, fb := range repo.db.table {
		if fb.CourseID == courseID {
			fbs = append(fbs, *fb)
		}
	}
	sort.Slice(fbs, func(i, j int) bool { return fbs[i].ID < fbs[j].ID })
	return fbs, nil
}
