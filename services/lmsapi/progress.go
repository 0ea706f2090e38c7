package lmsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tarunb-0127/minilms/core/progress"
)

// CourseProgress fetches the learner's course progress as computed by the server.
func (c *Client) CourseProgress(ctx context.Context, courseID int) (int, error) {
	path := fmt.Sprintf("/api/Progress/course/%d", courseID)

	var s courseProgressSchema
	if err := c.do(c.request(ctx), http.MethodGet, path, &s); err != nil {
		return 0, err
	}
	if err := c.check(path, s); err != nil {
		return 0, err
	}
	return s.percent(), nil
}

// ModulesProgress fetches the learner's progress records of the course modules.
func (c *Client) ModulesProgress(ctx context.Context, courseID int) ([]progress.ModuleProgress, error) {
	path := fmt.Sprintf("/api/Progress/modules/%d", courseID)

	var schemas []moduleProgressSchema
	if err := c.do(c.request(ctx), http.MethodGet, path, &schemas); err != nil {
		return nil, err
	}
	mps := make([]progress.ModuleProgress, 0, len(schemas))
	for _, s := range schemas {
		if err := c.check(path, s); err != nil {
			return nil, err
		}
		mps = append(mps, s.moduleProgress())
	}
	return mps, nil
}

func (c *Client) UpdateProgress(ctx context.Context, req progress.Request) (progress.Record, error) {
	return c.postProgress(ctx, "/api/Progress/update", req)
}

func (c *Client) CompleteProgress(ctx context.Context, req progress.Request) (progress.Record, error) {
	req.ProgressPercentage = 100
	req.IsCompleted = true
	return c.postProgress(ctx, "/api/Progress/complete", req)
}

func (c *Client) postProgress(ctx context.Context, path string, req progress.Request) (progress.Record, error) {
	var s recordSchema
	r := c.request(ctx).SetHeader("Content-Type", "application/json").SetBody(req)
	if err := c.do(r, http.MethodPost, path, &s); err != nil {
		return progress.Record{}, err
	}
	if err := c.check(path, s); err != nil {
		return progress.Record{}, err
	}
	return s.record(req), nil
}
