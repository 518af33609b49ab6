package handlers

import (
	"context"
	"net/http"
	"slices"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// JobRunLister reads scheduler run history.
type JobRunLister interface {
	ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error)
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)
}

// JobsHandler serves batch pricing run history.
type JobsHandler struct {
	runs  JobRunLister
	known []string
}

// NewJobsHandler returns a JobsHandler. When jobs is non-empty, history
// requests for any other name are answered with 404.
func NewJobsHandler(runs JobRunLister, jobs ...string) *JobsHandler {
	return &JobsHandler{runs: runs, known: jobs}
}

// JobRunsOutput is a list of run records, newest first.
type JobRunsOutput struct {
	Body []domain.JobRun
}

// JobHistoryInput selects a job and how many of its runs to return.
type JobHistoryInput struct {
	JobName string `path:"job_name" doc:"Batch job name (price_pending, refresh_stale, sync_quota)"`
	Limit   int    `query:"limit" default:"20" minimum:"1" maximum:"200" doc:"Maximum runs to return"`
}

func nonNilRuns(runs []domain.JobRun) []domain.JobRun {
	if runs == nil {
		return []domain.JobRun{}
	}
	return runs
}

// ListJobs returns the latest run of every job that has run at least once.
func (h *JobsHandler) ListJobs(ctx context.Context, _ *struct{}) (*JobRunsOutput, error) {
	runs, err := h.runs.ListLatestJobRuns(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing jobs failed: " + err.Error())
	}
	return &JobRunsOutput{Body: nonNilRuns(runs)}, nil
}

// GetJobHistory returns up to Limit runs of one job.
func (h *JobsHandler) GetJobHistory(ctx context.Context, in *JobHistoryInput) (*JobRunsOutput, error) {
	if len(h.known) > 0 && !slices.Contains(h.known, in.JobName) {
		return nil, huma.Error404NotFound("unknown job " + in.JobName)
	}

	runs, err := h.runs.ListJobRuns(ctx, in.JobName, in.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("fetching job history failed: " + err.Error())
	}
	return &JobRunsOutput{Body: nonNilRuns(runs)}, nil
}

// RegisterJobRoutes mounts the job history endpoints.
func RegisterJobRoutes(api huma.API, h *JobsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-jobs",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs",
		Summary:     "Latest run per batch job",
		Tags:        []string{"jobs"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListJobs)

	huma.Register(api, huma.Operation{
		OperationID: "get-job-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs/{job_name}",
		Summary:     "Run history of one batch job",
		Tags:        []string{"jobs"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetJobHistory)
}
