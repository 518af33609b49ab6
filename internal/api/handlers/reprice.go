package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Repricer runs pricing batches on demand.
type Repricer interface {
	RunPending(ctx context.Context) (int, error)
	RunRefresh(ctx context.Context) (int, error)
}

// RepriceHandler triggers pricing batches outside the schedule.
type RepriceHandler struct {
	engine Repricer
}

// NewRepriceHandler creates a new RepriceHandler.
func NewRepriceHandler(r Repricer) *RepriceHandler {
	return &RepriceHandler{engine: r}
}

// RepriceInput selects which batch to run.
type RepriceInput struct {
	Body struct {
		Job string `json:"job,omitempty" doc:"Batch to run" enum:"pending,refresh" default:"pending"`
	}
}

// RepriceOutput reports how many items the batch priced.
type RepriceOutput struct {
	Body struct {
		Job    string `json:"job"`
		Priced int    `json:"priced"`
	}
}

// Reprice runs the requested batch synchronously.
func (h *RepriceHandler) Reprice(ctx context.Context, input *RepriceInput) (*RepriceOutput, error) {
	job := input.Body.Job
	if job == "" {
		job = "pending"
	}

	var (
		n   int
		err error
	)
	switch job {
	case "pending":
		n, err = h.engine.RunPending(ctx)
	case "refresh":
		n, err = h.engine.RunRefresh(ctx)
	default:
		return nil, huma.Error400BadRequest("unknown job " + job)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError(job + " run failed: " + err.Error())
	}

	resp := &RepriceOutput{}
	resp.Body.Job = job
	resp.Body.Priced = n
	return resp, nil
}

// RegisterRepriceRoutes registers the reprice endpoint with the Huma API.
func RegisterRepriceRoutes(api huma.API, h *RepriceHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "reprice",
		Method:      http.MethodPost,
		Path:        "/api/v1/reprice",
		Summary:     "Run a pricing batch now",
		Description: "Prices pending items, or refreshes items whose pricing is stale.",
		Tags:        []string{"pricing"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Reprice)
}
