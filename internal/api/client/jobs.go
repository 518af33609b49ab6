package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// ListJobs returns the most recent run for each distinct scheduled job.
func (c *Client) ListJobs(ctx context.Context) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	if err := c.get(ctx, "/api/v1/jobs", &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetJobHistory returns up to limit runs of one job, newest first. A
// non-positive limit uses the server default.
func (c *Client) GetJobHistory(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	path := "/api/v1/jobs/" + url.PathEscape(jobName)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var runs []domain.JobRun
	if err := c.get(ctx, path, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
