package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/theatreops/rota-backend/internal/domain"
)

// CreateSolveJob persists a newly queued job with its team/config snapshot.
// The result fields are left at their zero value until the worker (C13)
// calls UpdateSolveJobResult.
func (r *Repository) CreateSolveJob(job *domain.SolveJob) error {
	configJSON, err := json.Marshal(job.Config)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO solve_jobs (requested_by, team_csv, config, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	args := []any{job.RequestedBy, job.TeamCSV, configJSON, job.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.ID, &job.CreatedAt, &job.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSolveJob(id int64) (*domain.SolveJob, error) {
	query := `
		SELECT requested_by, team_csv, config, status, result_status, score, seed_used,
		       schedule_csv, failure_reason, created_at, completed_at, version
		FROM solve_jobs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	job := &domain.SolveJob{ID: id}
	var configJSON []byte
	var resultStatus, failureReason sql.NullString
	var score sql.NullFloat64
	var seedUsed sql.NullInt64
	var scheduleCSV sql.NullString
	var completedAt sql.NullTime

	dst := []any{
		&job.RequestedBy, &job.TeamCSV, &configJSON, &job.Status,
		&resultStatus, &score, &seedUsed, &scheduleCSV, &failureReason,
		&job.CreatedAt, &completedAt, &job.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(configJSON, &job.Config); err != nil {
		return nil, err
	}
	job.ResultStatus = domain.Status(resultStatus.String)
	job.Score = score.Float64
	job.SeedUsed = uint64(seedUsed.Int64)
	job.ScheduleCSV = scheduleCSV.String
	job.FailureReason = failureReason.String
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}

	return job, nil
}

// UpdateSolveJobResult transitions a job to its terminal state, writing
// back whichever result fields the worker produced, under the same
// optimistic version check the teacher uses for every mutable row.
func (r *Repository) UpdateSolveJobResult(job *domain.SolveJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE solve_jobs
		SET status = $1, result_status = $2, score = $3, seed_used = $4,
		    schedule_csv = $5, failure_reason = $6, completed_at = $7,
		    version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version
	`

	args := []any{
		job.Status, string(job.ResultStatus), job.Score, job.SeedUsed,
		job.ScheduleCSV, job.FailureReason, job.CompletedAt,
		job.ID, job.Version,
	}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.Version)
}

// ClaimNextQueuedSolveJob atomically marks the oldest queued job as
// running and returns it, so two worker instances never process the same
// job twice.
func (r *Repository) ClaimNextQueuedSolveJob() (*domain.SolveJob, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE solve_jobs
		SET status = $1, version = version + 1
		WHERE id = (
			SELECT id FROM solve_jobs WHERE status = $2 ORDER BY created_at ASC LIMIT 1 FOR UPDATE SKIP LOCKED
		)
		RETURNING id, requested_by, team_csv, config, created_at, version
	`

	job := &domain.SolveJob{Status: domain.JobRunning}
	var configJSON []byte
	if err := r.dbpool.QueryRowContext(ctx, query, domain.JobRunning, domain.JobQueued).Scan(
		&job.ID, &job.RequestedBy, &job.TeamCSV, &configJSON, &job.CreatedAt, &job.Version,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(configJSON, &job.Config); err != nil {
		return nil, err
	}
	return job, nil
}
