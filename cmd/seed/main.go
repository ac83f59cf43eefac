package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/theatreops/rota-backend/internal/boundary"
	"github.com/theatreops/rota-backend/internal/config"
	"github.com/theatreops/rota-backend/internal/repository"
	"github.com/theatreops/rota-backend/internal/seed"
	"github.com/theatreops/rota-backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var weeks int
	var teamCSVPath string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 生成随机团队 CSV 文件)")
	flag.IntVar(&n, "n", 5, "要插入/生成的记录数量")
	flag.IntVar(&weeks, "weeks", 2, "记录到日志中的排班周数（生成的团队 CSV 不包含周数）")
	flag.StringVar(&teamCSVPath, "out", "./team.csv", "生成团队 CSV 文件的输出路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}
		count := seed.Users(repo, n, cfg.Seed.User.Password, cfg.Email.UserDomain)
		slog.Info("插入用户成功", slog.Int("count", count))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的团队人数")
			return
		}
		team := utils.GenerateRandomTeam(n)

		file, err := os.Create(teamCSVPath)
		if err != nil {
			slog.Error("无法创建团队 CSV 文件", slog.String("error", err.Error()))
			return
		}
		defer file.Close()

		if err := boundary.WriteTeamCSV(file, team); err != nil {
			slog.Error("无法写入团队 CSV 文件", slog.String("error", err.Error()))
			return
		}

		slog.Info("生成团队 CSV 文件成功", slog.String("path", teamCSVPath), slog.Int("count", len(team.People)), slog.Int("weeks", weeks))
	default:
		slog.Error("指定的操作非法")
	}
}
