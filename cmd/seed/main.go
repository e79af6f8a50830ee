package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/config"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/repository"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/seed"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var companyID int64
	var workScheduleID int64
	var csvPath string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机公司, 2: 插入随机用户, 3: 插入随机项目, 4: 插入随机班表, 5: 为公司的所有用户指派班表, 6: 从 CSV 导入员工)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&companyID, "company-id", 0, "目标公司 ID")
	flag.Int64Var(&workScheduleID, "work-schedule-id", 0, "要指派的班表 ID")
	flag.StringVar(&csvPath, "csv", "./internal/seed/data/employees.csv", "员工 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

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
			slog.Error("请输入合法的公司数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			company := utils.GenerateRandomCompany()
			if err := repo.CreateCompany(company); err != nil {
				slog.Error("无法插入公司", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入公司成功", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}
		if companyID <= 0 {
			slog.Error("请输入合法的公司 ID")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain, companyID)
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
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的项目数量")
			return
		}
		if companyID <= 0 {
			slog.Error("请输入合法的公司 ID")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			project := utils.GenerateRandomProject(companyID)
			if err := repo.CreateProject(project); err != nil {
				slog.Error("无法插入项目", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入项目成功", slog.Int("count", n-cnt))
	case 4:
		if n <= 0 {
			slog.Error("请输入合法的班表数量")
			return
		}
		if companyID <= 0 {
			slog.Error("请输入合法的公司 ID")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			ws := utils.GenerateRandomWorkSchedule(companyID, time.Now())
			if err := repo.CreateWorkSchedule(ws); err != nil {
				slog.Error("无法插入班表", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入班表成功", slog.Int("count", n-cnt))
	case 5:
		if workScheduleID <= 0 {
			slog.Error("请输入合法的班表 ID")
			return
		}

		// 获取对应的班表
		ws, err := repo.GetWorkScheduleByID(workScheduleID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的班表不存在", slog.Int64("work_schedule_id", workScheduleID))
			default:
				slog.Error("无法获取班表", slog.String("error", err.Error()))
			}
			return
		}

		// 获取所有用户，为班表所属公司的在职用户都创建一条指派
		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取所有用户", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for _, user := range users {
			if user.CompanyID != ws.CompanyID || !user.IsActive {
				continue
			}

			assignment := &domain.UserWorkSchedule{
				UserID:         user.ID,
				WorkScheduleID: ws.ID,
				StartDate:      ws.StartDate,
				EndDate:        ws.EndDate,
			}
			if err := repo.CreateUserWorkSchedule(assignment); err != nil {
				slog.Error("无法插入班表指派", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入班表指派成功", slog.Int("count", cnt))
	case 6:
		if companyID <= 0 {
			slog.Error("请输入合法的公司 ID")
			return
		}

		seed.SeedEmployeesFromCSV(repo, cfg, companyID, csvPath)
	default:
		slog.Error("指定的操作非法")
	}
}
