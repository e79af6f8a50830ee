package seed

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/config"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// SeedEmployeesFromCSV 从 CSV 文件中导入员工，
// 文件第一行为表头，必须包含 姓名、用户名、邮箱 三列
func SeedEmployeesFromCSV(r *repository.Repository, cfg *config.Config, companyID int64, path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	columns := make(map[string]int)
	for i, header := range headers {
		columns[header] = i
	}
	for _, required := range []string{"姓名", "用户名", "邮箱"} {
		if _, ok := columns[required]; !ok {
			slog.Error("没有找到所需的列", "column", required)
			return
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.User.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("无法生成密码哈希", "error", err)
		return
	}

	cnt := 0
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		user := &domain.User{
			Username:     row[columns["用户名"]],
			PasswordHash: string(passwordHash),
			FullName:     row[columns["姓名"]],
			Email:        row[columns["邮箱"]],
			Role:         domain.RoleEmployee,
			CompanyID:    companyID,
		}

		if user.Username == "" {
			slog.Error("跳过用户名为空的行", "row", row)
			continue
		}

		if err := r.CreateUser(user); err != nil {
			slog.Error("无法插入员工", "username", user.Username, "error", err)
			continue
		}

		cnt++
	}

	slog.Info("导入员工成功", "count", cnt)
}
