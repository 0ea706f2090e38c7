package lmsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tarunb-0127/minilms/core/enrollment"
)

// MyCourses lists the courses the session learner is enrolled in.
func (c *Client) MyCourses(ctx context.Context) ([]enrollment.EnrolledCourse, error) {
	const path = "/api/enrollment/my-courses"

	var schemas []enrolledCourseSchema
	if err := c.do(c.request(ctx), http.MethodGet, path, &schemas); err != nil {
		return nil, err
	}
	courses := make([]enrollment.EnrolledCourse, 0, len(schemas))
	for _, s := range schemas {
		if err := c.check(path, s); err != nil {
			return nil, err
		}
		courses = append(courses, s.enrolledCourse())
	}
	return courses, nil
}

func (c *Client) Enroll(ctx context.Context, courseID int) (enrollment.Enrollment, error) {
	path := fmt.Sprintf("/api/enrollment/enroll/%d", courseID)

	var s enrollmentSchema
	if err := c.do(c.request(ctx), http.MethodPost, path, &s); err != nil {
		return enrollment.Enrollment{}, err
	}
	if err := c.check(path, s); err != nil {
		return enrollment.Enrollment{}, err
	}
	return s.enrollment(c.sess.LearnerID, courseID), nil
}

func (c *Client) Unenroll(ctx context.Context, enrollmentID int) error {
	path := fmt.Sprintf("/api/Enrollment/%d", enrollmentID)
	return c.do(c.request(ctx), http.MethodDelete, path, nil)
}
