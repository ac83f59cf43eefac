package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/theatreops/rota-backend/internal/boundary"
	"github.com/theatreops/rota-backend/internal/config"
	"github.com/theatreops/rota-backend/internal/domain"
	"github.com/theatreops/rota-backend/internal/repository"
	"github.com/theatreops/rota-backend/internal/scheduler"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", slog.String("error", err.Error()))
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("无法连接到数据库", slog.String("error", err.Error()))
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"solve_jobs",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// A job's row is written before it's published; if the process died
	// between those two steps the row is stuck in "queued" with nothing
	// left to redeliver it. Sweep those up before taking new work.
	recoverStuckJobs(logger, repo, ch, cfg)

	ctx, cancelWorker := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				handleSolveJobMessage(ctx, logger, cfg, repo, ch, msg)
			}
		}
	}()

	logger.Info("等待排班任务...（按 CTRL+C 退出）")
	<-sigChan

	logger.Info("正在关闭 worker...")
	cancelWorker()
	wg.Wait()
	logger.Info("worker 已成功关闭")
}

// handleSolveJobMessage runs one queued job end to end: reload it from the
// database (the message only carries its id and snapshot, the database row
// is the source of truth for the optimistic version), solve, persist the
// result, and notify the requester by email.
func handleSolveJobMessage(ctx context.Context, logger *slog.Logger, cfg *config.Config, repo *repository.Repository, ch *amqp.Channel, msg amqp.Delivery) {
	var published domain.SolveJob
	if err := json.Unmarshal(msg.Body, &published); err != nil {
		logger.Error("排班任务反序列化失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	job, err := repo.GetSolveJob(published.ID)
	if err != nil {
		logger.Error("无法获取排班任务", slog.String("error", err.Error()), slog.Int64("job_id", published.ID))
		_ = msg.Nack(false, false)
		return
	}

	if !runSolveJob(ctx, logger, cfg, repo, ch, job) {
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}

// recoverStuckJobs drains any job rows a prior worker process left in
// "queued" after committing but before it managed to publish (or after a
// publish that never got consumed), running them in place rather than
// waiting for a message that will never arrive.
func recoverStuckJobs(logger *slog.Logger, repo *repository.Repository, ch *amqp.Channel, cfg *config.Config) {
	ctx := context.Background()
	for {
		job, err := repo.ClaimNextQueuedSolveJob()
		if err != nil {
			if err != sql.ErrNoRows {
				logger.Error("无法扫描滞留的排班任务", slog.String("error", err.Error()))
			}
			return
		}
		logger.Info("恢复滞留的排班任务", slog.Int64("job_id", job.ID))
		runSolveJob(ctx, logger, cfg, repo, ch, job)
	}
}

// runSolveJob parses the job's team snapshot, runs the engine, persists the
// outcome, and notifies the requester. Returns false on a failure the
// caller should retry (e.g. the database update itself failing).
func runSolveJob(ctx context.Context, logger *slog.Logger, cfg *config.Config, repo *repository.Repository, ch *amqp.Channel, job *domain.SolveJob) bool {
	team, err := boundary.ParseTeamCSV(strings.NewReader(job.TeamCSV))
	if err != nil {
		finishFailed(logger, repo, job, err)
		notifyCompletion(logger, cfg, ch, repo, job)
		return true
	}

	result := scheduler.Solve(ctx, team, job.Config)

	if result.Status == domain.StatusError || result.Status == domain.StatusTimeout {
		job.Status = domain.JobFailed
	} else {
		job.Status = domain.JobSucceeded
	}
	job.ResultStatus = result.Status
	job.Score = result.Score
	job.SeedUsed = result.SeedUsed
	if result.Err != nil {
		job.FailureReason = result.Err.Error()
	}
	if result.Schedule != nil && result.Schedule.StaffingPlan != nil {
		var buf strings.Builder
		if err := boundary.WriteScheduleCSV(&buf, result.Schedule, result.Schedule.StaffingPlan); err != nil {
			job.Status = domain.JobFailed
			job.FailureReason = err.Error()
		} else {
			job.ScheduleCSV = buf.String()
		}
	}
	now := time.Now()
	job.CompletedAt = &now

	if err := repo.UpdateSolveJobResult(job); err != nil {
		logger.Error("无法保存排班任务结果", slog.String("error", err.Error()), slog.Int64("job_id", job.ID))
		return false
	}

	notifyCompletion(logger, cfg, ch, repo, job)
	return true
}

func finishFailed(logger *slog.Logger, repo *repository.Repository, job *domain.SolveJob, cause error) {
	job.Status = domain.JobFailed
	job.FailureReason = cause.Error()
	now := time.Now()
	job.CompletedAt = &now
	if err := repo.UpdateSolveJobResult(job); err != nil {
		logger.Error("无法保存排班任务失败结果", slog.String("error", err.Error()), slog.Int64("job_id", job.ID))
	}
}

// notifyCompletion publishes a mail request to email_queue for cmd/mailer
// to render and send, the same handoff the API uses for account mail.
func notifyCompletion(logger *slog.Logger, cfg *config.Config, ch *amqp.Channel, repo *repository.Repository, job *domain.SolveJob) {
	requester, err := repo.GetUserByID(job.RequestedBy)
	if err != nil {
		logger.Error("无法获取排班任务的请求者", slog.String("error", err.Error()), slog.Int64("job_id", job.ID))
		return
	}

	mailMessage := domain.MailMessage{
		Type: "solve_completed",
		To:   requester.Email,
		Data: domain.SolveCompletedMailData{
			FullName: requester.FullName,
			JobID:    job.ID,
			Status:   string(job.Status),
			Score:    job.Score,
			SeedUsed: job.SeedUsed,
			FailureOf: job.FailureReason,
		},
	}
	payload, err := json.Marshal(mailMessage)
	if err != nil {
		logger.Error("无法序列化邮件信息", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()
	if err := ch.PublishWithContext(
		ctx, "", "email_queue", true, false,
		amqp.Publishing{ContentType: "application/json", Body: payload},
	); err != nil {
		logger.Error("无法发布邮件信息", slog.String("error", err.Error()))
	}
}
