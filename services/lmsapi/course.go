package lmsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tarunb-0127/minilms/core/course"
)

// Course fetches the catalog entry of courseID.
func (c *Client) Course(ctx context.Context, courseID int) (course.Course, error) {
	path := fmt.Sprintf("/api/course/%d", courseID)

	var s courseSchema
	if err := c.do(c.request(ctx), http.MethodGet, path, &s); err != nil {
		return course.Course{}, err
	}
	if err := c.check(path, s); err != nil {
		return course.Course{}, err
	}
	return s.course(), nil
}

// CourseModules lists the modules of courseID, in course order.
func (c *Client) CourseModules(ctx context.Context, courseID int) ([]course.Module, error) {
	path := fmt.Sprintf("/api/module/course/%d", courseID)

	var schemas []moduleSchema
	if err := c.do(c.request(ctx), http.MethodGet, path, &schemas); err != nil {
		return nil, err
	}
	modules := make([]course.Module, 0, len(schemas))
	for i, s := range schemas {
		if err := c.check(path, s); err != nil {
			return nil, err
		}
		modules = append(modules, s.module(courseID, i))
	}
	course.SortModules(modules)
	return modules, nil
}
