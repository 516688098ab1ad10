package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/repository"
)

// SeedStaffRoster 从花名册 CSV 导入员工，
// 列为 用户名、姓名、邮箱、角色，已存在的用户跳过
func SeedStaffRoster(r *repository.Repository, path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	col := make(map[string]int)
	for i, header := range headers {
		col[header] = i
	}
	for _, required := range []string{"用户名", "姓名", "邮箱", "角色"} {
		if _, ok := col[required]; !ok {
			slog.Error("缺少必要的列", "column", required)
			return
		}
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

		username := row[col["用户名"]]
		if username == "" {
			slog.Error("该行缺少用户名", "row", row)
			continue
		}

		if _, err := r.GetUserByUsername(username); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("获取用户失败", "error", err)
			continue
		}

		role := domain.Role(row[col["角色"]])
		if role != domain.RoleStaff && role != domain.RoleManager {
			slog.Error("该行的角色非法", "username", username, "role", role)
			continue
		}

		user := &domain.User{
			Username:     username,
			PasswordHash: "$2a$10$aUTaWl3vmXuQFocBkb9Qx.YJPAzNoaAcj2VC5tI45l1Roh24meCgO", // ecnc@test8403
			FullName:     row[col["姓名"]],
			Email:        row[col["邮箱"]],
			Role:         role,
		}

		if err := r.CreateUser(user); err != nil {
			slog.Error("插入用户失败", "error", err)
			continue
		}

		cnt++
	}

	slog.Info("导入花名册完成", "count", cnt)
}
