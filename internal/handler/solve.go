package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/theatreops/rota-backend/internal/boundary"
	"github.com/theatreops/rota-backend/internal/domain"
	"github.com/theatreops/rota-backend/internal/scheduler"
)

type solveRequest struct {
	TeamCSV string             `json:"teamCSV" validate:"required"`
	Config  domain.SolveConfig `json:"config"`
}

type solveResponse struct {
	Status      domain.Status       `json:"status"`
	Score       float64             `json:"score"`
	SeedUsed    uint64              `json:"seedUsed"`
	ScheduleCSV string              `json:"scheduleCSV,omitempty"`
	Diagnostics *domain.Diagnostics `json:"diagnostics,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// decodeSolveRequest reads the request body into a solveRequest whose
// Config starts from domain.DefaultSolveConfig so a caller may omit any
// field it doesn't care to override.
func (h *Handler) decodeSolveRequest(r *http.Request) (solveRequest, error) {
	req := solveRequest{Config: domain.DefaultSolveConfig()}
	if err := h.readJSON(r, &req); err != nil {
		return solveRequest{}, err
	}
	return req, nil
}

func toSolveResponse(result domain.SolveResult) solveResponse {
	resp := solveResponse{
		Status:      result.Status,
		Score:       result.Score,
		SeedUsed:    result.SeedUsed,
		Diagnostics: result.Diagnostics,
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	if result.Schedule != nil && result.Schedule.StaffingPlan != nil {
		var buf bytes.Buffer
		if err := boundary.WriteScheduleCSV(&buf, result.Schedule, result.Schedule.StaffingPlan); err == nil {
			resp.ScheduleCSV = buf.String()
		}
	}
	return resp
}

// Solve runs the engine synchronously and returns the full result inline.
// Meant for small teams/short horizons; larger runs should go through
// POST /solve-jobs instead so the caller isn't left holding an open
// connection for the duration of the search.
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeSolveRequest(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	team, err := boundary.ParseTeamCSV(strings.NewReader(req.TeamCSV))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	result := scheduler.Solve(r.Context(), team, req.Config)
	h.successResponse(w, r, "求解完成", toSolveResponse(result))
}
