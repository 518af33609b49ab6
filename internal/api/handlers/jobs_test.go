package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/vinyl-pricer/internal/api/handlers"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

type fakeRuns struct {
	latest  []domain.JobRun
	history []domain.JobRun
	err     error

	gotJob   string
	gotLimit int
}

func (f *fakeRuns) ListLatestJobRuns(context.Context) ([]domain.JobRun, error) {
	return f.latest, f.err
}

func (f *fakeRuns) ListJobRuns(_ context.Context, job string, limit int) ([]domain.JobRun, error) {
	f.gotJob, f.gotLimit = job, limit
	return f.history, f.err
}

func run(job, status string, rows int) domain.JobRun {
	started := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	done := started.Add(90 * time.Second)
	return domain.JobRun{
		ID:           job + "-" + status,
		JobName:      job,
		StartedAt:    started,
		CompletedAt:  &done,
		Status:       status,
		RowsAffected: &rows,
	}
}

func decodeRuns(t *testing.T, body []byte) []domain.JobRun {
	t.Helper()
	var out []domain.JobRun
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestListJobs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		runs     *fakeRuns
		wantCode int
		wantJobs []string
	}{
		{
			name:     "latest per job",
			runs:     &fakeRuns{latest: []domain.JobRun{run("price_pending", "succeeded", 40), run("refresh_stale", "failed", 0)}},
			wantCode: http.StatusOK,
			wantJobs: []string{"price_pending", "refresh_stale"},
		},
		{name: "never run", runs: &fakeRuns{}, wantCode: http.StatusOK, wantJobs: []string{}},
		{name: "store failure", runs: &fakeRuns{err: errors.New("db down")}, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(tt.runs))

			resp := api.Get("/api/v1/jobs")
			require.Equal(t, tt.wantCode, resp.Code)
			if tt.wantCode != http.StatusOK {
				assert.Contains(t, resp.Body.String(), "listing jobs failed")
				return
			}

			got := []string{}
			for _, r := range decodeRuns(t, resp.Body.Bytes()) {
				got = append(got, r.JobName)
			}
			assert.Equal(t, tt.wantJobs, got)
		})
	}
}

func TestGetJobHistory_DefaultLimit(t *testing.T) {
	t.Parallel()

	runs := &fakeRuns{history: []domain.JobRun{run("price_pending", "succeeded", 12)}}
	_, api := humatest.New(t)
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(runs, "price_pending", "refresh_stale"))

	resp := api.Get("/api/v1/jobs/price_pending")
	require.Equal(t, http.StatusOK, resp.Code)

	got := decodeRuns(t, resp.Body.Bytes())
	require.Len(t, got, 1)
	require.NotNil(t, got[0].RowsAffected)
	assert.Equal(t, 12, *got[0].RowsAffected)
	assert.Equal(t, "price_pending", runs.gotJob)
	assert.Equal(t, 20, runs.gotLimit)
}

func TestGetJobHistory_Limit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query     string
		wantCode  int
		wantLimit int
	}{
		{query: "?limit=5", wantCode: http.StatusOK, wantLimit: 5},
		{query: "?limit=200", wantCode: http.StatusOK, wantLimit: 200},
		{query: "?limit=0", wantCode: http.StatusUnprocessableEntity},
		{query: "?limit=500", wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()

			runs := &fakeRuns{}
			_, api := humatest.New(t)
			handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(runs))

			resp := api.Get("/api/v1/jobs/refresh_stale" + tt.query)
			require.Equal(t, tt.wantCode, resp.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantLimit, runs.gotLimit)
			}
		})
	}
}

func TestGetJobHistory_UnknownJob(t *testing.T) {
	t.Parallel()

	runs := &fakeRuns{}
	_, api := humatest.New(t)
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(runs, "price_pending"))

	resp := api.Get("/api/v1/jobs/rescore")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Empty(t, runs.gotJob)
}

func TestGetJobHistory_Error(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(&fakeRuns{err: errors.New("db down")}))

	resp := api.Get("/api/v1/jobs/price_pending")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "fetching job history failed")
}
