package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/seed"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var rosterPath string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机班次, 3: 插入随机班次申请, 4: 导入花名册)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&rosterPath, "roster", "./internal/seed/data/roster.csv", "花名册 CSV 路径")
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

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入用户成功", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的班次数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			shift := utils.GenerateRandomShift()
			if err := repo.CreateShift(shift); err != nil {
				slog.Error("无法插入班次", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入班次成功", slog.Int("count", n-cnt))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的申请数量")
			return
		}

		// 只对还有空余名额的开放班次生成申请
		shifts, approved, err := repo.GetOpenCandidateShifts()
		if err != nil {
			slog.Error("无法获取开放班次", slog.String("error", err.Error()))
			return
		}

		open := make([]*domain.Shift, 0, len(shifts))
		for _, shift := range shifts {
			if domain.Requestable(shift, approved[shift.ID]) {
				open = append(open, shift)
			}
		}
		if len(open) == 0 {
			slog.Error("没有可申请的开放班次")
			return
		}

		staff, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取用户列表", slog.String("error", err.Error()))
			return
		}
		if len(staff) == 0 {
			slog.Error("没有可用的用户")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			request := utils.GenerateRandomShiftRequest(
				open[rand.Intn(len(open))],
				staff[rand.Intn(len(staff))],
			)

			if err := repo.CreateShiftRequest(request); err != nil {
				switch {
				case errors.Is(err, domain.ErrDuplicateRequest),
					errors.Is(err, domain.ErrShiftNotAvailable):
					// 随机碰撞，跳过即可
				default:
					slog.Error("无法插入班次申请", slog.String("error", err.Error()))
				}
				continue
			}

			cnt++
		}

		slog.Info("插入班次申请成功", slog.Int("count", cnt))
	case 4:
		seed.SeedStaffRoster(repo, rosterPath)
	default:
		slog.Error("指定的操作非法")
	}
}
