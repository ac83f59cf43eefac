package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/theatreops/rota-backend/internal/boundary"
	"github.com/theatreops/rota-backend/internal/domain"
	"github.com/theatreops/rota-backend/internal/scheduler"
)

func main() {
	var teamPath string
	var configPath string
	var outPath string
	var weekend bool
	var weekendOutPath string

	flag.StringVar(&teamPath, "team", "", "团队 CSV 文件路径（必填）")
	flag.StringVar(&configPath, "config", "", "求解配置 JSON 文件路径（留空使用默认配置）")
	flag.StringVar(&outPath, "out", "", "排班结果 CSV 文件路径（留空输出到标准输出）")
	flag.BoolVar(&weekend, "weekend", false, "额外运行独立的周末排班规划器")
	flag.StringVar(&weekendOutPath, "weekend-out", "", "周末排班结果 CSV 文件路径（留空输出到标准输出）")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if teamPath == "" {
		logger.Error("必须指定 -team 参数")
		os.Exit(5)
	}

	teamFile, err := os.Open(teamPath)
	if err != nil {
		logger.Error("无法打开团队 CSV 文件", slog.String("error", err.Error()))
		os.Exit(5)
	}
	defer teamFile.Close()

	team, err := boundary.ParseTeamCSV(teamFile)
	if err != nil {
		logger.Error("团队 CSV 文件格式错误", slog.String("error", err.Error()))
		os.Exit(5)
	}

	config := domain.DefaultSolveConfig()
	if configPath != "" {
		configFile, err := os.Open(configPath)
		if err != nil {
			logger.Error("无法打开求解配置文件", slog.String("error", err.Error()))
			os.Exit(5)
		}
		defer configFile.Close()
		if err := json.NewDecoder(configFile).Decode(&config); err != nil {
			logger.Error("求解配置文件格式错误", slog.String("error", err.Error()))
			os.Exit(5)
		}
	}

	result := scheduler.Solve(context.Background(), team, config)

	hasSoftViolations := result.Diagnostics != nil && result.Diagnostics.HasSoftViolations()
	exitCode := result.Status.ExitCode(hasSoftViolations)

	if result.Err != nil {
		logger.Error("求解未能产生可用排班", slog.String("status", string(result.Status)), slog.String("error", result.Err.Error()))
	} else {
		logger.Info("求解完成", slog.String("status", string(result.Status)), slog.Float64("score", result.Score), slog.Uint64("seed_used", result.SeedUsed))
	}

	if result.Schedule != nil && result.Schedule.StaffingPlan != nil {
		out := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				logger.Error("无法创建输出文件", slog.String("error", err.Error()))
				os.Exit(5)
			}
			out = f
		}
		writeErr := boundary.WriteScheduleCSV(out, result.Schedule, result.Schedule.StaffingPlan)
		if out != os.Stdout {
			_ = out.Close()
		}
		if writeErr != nil {
			logger.Error("无法写出排班结果", slog.String("error", writeErr.Error()))
			os.Exit(5)
		}
	}

	if weekend {
		weekendResult := scheduler.SolveWeekend(context.Background(), team, config)
		logger.Info("周末排班完成",
			slog.Float64("cost", weekendResult.Cost),
			slog.Uint64("seed_used", weekendResult.SeedUsed),
			slog.Any("vacant_slots", weekendResult.Diagnostics.VacantSlots),
		)

		out := os.Stdout
		if weekendOutPath != "" {
			f, err := os.Create(weekendOutPath)
			if err != nil {
				logger.Error("无法创建周末排班输出文件", slog.String("error", err.Error()))
				os.Exit(5)
			}
			out = f
		}
		writeErr := boundary.WriteWeekendCSV(out, weekendResult.Schedule)
		if out != os.Stdout {
			_ = out.Close()
		}
		if writeErr != nil {
			logger.Error("无法写出周末排班结果", slog.String("error", writeErr.Error()))
			os.Exit(5)
		}
	}

	if exitCode != 0 {
		fmt.Fprintf(os.Stderr, "exit status: %d\n", exitCode)
	}
	os.Exit(exitCode)
}
