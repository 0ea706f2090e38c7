package lmsapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tarunb-0127/minilms/core/feedback"
)

// CourseFeedbacks lists every feedback left on courseID.
func (c *Client) CourseFeedbacks(ctx context.Context, courseID int) ([]feedback.Feedback, error) {
	path := fmt.Sprintf("/api/Feedbacks/course/%d", courseID)

	var schemas []feedbackSchema
	if err := c.do(c.request(ctx), http.MethodGet, path, &schemas); err != nil {
		return nil, err
	}
	fbs := make([]feedback.Feedback, 0, len(schemas))
	for _, s := range schemas {
		if err := c.check(path, s); err != nil {
			return nil, err
		}
		fbs = append(fbs, s.feedback(courseID))
	}
	return fbs, nil
}

// SubmitFeedback posts nf as a multipart form.
func (c *Client) SubmitFeedback(ctx context.Context, nf feedback.NewFeedback) (feedback.Feedback, error) {
	const path = "/api/Feedbacks"

	r := c.request(ctx).SetMultipartFormData(map[string]string{
		"LearnerId": strconv.Itoa(nf.LearnerID),
		"CourseId":  strconv.Itoa(nf.CourseID),
		"Message":   nf.Message,
		"Rating":    strconv.Itoa(nf.Rating),
	})
	var s feedbackSchema
	if err := c.do(r, http.MethodPost, path, &s); err != nil {
		return feedback.Feedback{}, err
	}
	if err := c.check(path, s); err != nil {
		return feedback.Feedback{}, err
	}
	return s.feedback(nf.CourseID), nil
}
