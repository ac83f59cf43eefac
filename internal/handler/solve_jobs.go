package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/theatreops/rota-backend/internal/boundary"
	"github.com/theatreops/rota-backend/internal/domain"
	"github.com/theatreops/rota-backend/internal/scheduler"
)

// CreateSolveJob persists a queued job and publishes it to the solve_jobs
// queue for cmd/worker to pick up, returning the job id immediately
// instead of blocking on the search.
func (h *Handler) CreateSolveJob(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeSolveRequest(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := boundary.ParseTeamCSV(strings.NewReader(req.TeamCSV)); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := req.Config.Validate(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	subString := r.Context().Value(SubCtxKey).(string)
	requestedBy, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	job := &domain.SolveJob{
		RequestedBy: requestedBy,
		TeamCSV:     req.TeamCSV,
		Config:      req.Config,
		Status:      domain.JobQueued,
	}

	if err := h.repository.CreateSolveJob(job); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"solve_jobs",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班任务已提交", job)
}

func (h *Handler) GetSolveJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(SolveJobCtx).(*domain.SolveJob)
	h.successResponse(w, r, "获取排班任务成功", job)
}

// GetSolveJobDiagnostics re-validates the job's persisted schedule and
// returns just the Diagnostics record, for callers that only need the
// violation counts, not the full assignment grid.
func (h *Handler) GetSolveJobDiagnostics(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(SolveJobCtx).(*domain.SolveJob)

	if job.Status != domain.JobSucceeded {
		h.errorResponse(w, r, "排班任务尚未完成")
		return
	}

	team, err := boundary.ParseTeamCSV(strings.NewReader(job.TeamCSV))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sched, err := boundary.ParseScheduleCSV(strings.NewReader(job.ScheduleCSV), job.Config.Weeks, job.SeedUsed)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	edoPlan := scheduler.PlanEDO(team, job.Config.Weeks, job.Config.EdoFixedDayGlobal)
	if !job.Config.EdoEnabled {
		edoPlan = domain.NewEdoPlan()
	}
	staffing := scheduler.DeriveStaffing(team, edoPlan, job.Config.Weeks)

	diag := scheduler.Validate(sched, team, job.Config, staffing)
	h.successResponse(w, r, "获取排班诊断成功", diag)
}
