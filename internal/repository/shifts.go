package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/period"
)

func (r *Repository) CreateShift(shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (title, location, start_time, end_time, required_staff, assignee_id, color, tasks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_active, created_at, version
	`

	tasks, err := json.Marshal(shift.Tasks)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{shift.Title, shift.Location, shift.StartTime, shift.EndTime, shift.RequiredStaff, shift.AssigneeID, shift.Color, tasks}
	dst := []any{&shift.ID, &shift.IsActive, &shift.CreatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftByID(id int64) (*domain.Shift, error) {
	query := `
		SELECT title, location, start_time, end_time, required_staff, assignee_id, color, tasks, is_active, created_at, version
		FROM shifts WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	shift := &domain.Shift{
		ID: id,
	}

	var tasks []byte
	dst := []any{&shift.Title, &shift.Location, &shift.StartTime, &shift.EndTime, &shift.RequiredStaff, &shift.AssigneeID, &shift.Color, &tasks, &shift.IsActive, &shift.CreatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tasks, &shift.Tasks); err != nil {
		return nil, err
	}

	return shift, nil
}

func (r *Repository) GetShiftsByRange(start time.Time, end time.Time) ([]*domain.Shift, error) {
	query := `
		SELECT id, title, location, start_time, end_time, required_staff, assignee_id, color, tasks, is_active, created_at, version
		FROM shifts
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift := &domain.Shift{}
		var tasks []byte
		dst := []any{&shift.ID, &shift.Title, &shift.Location, &shift.StartTime, &shift.EndTime, &shift.RequiredStaff, &shift.AssigneeID, &shift.Color, &tasks, &shift.IsActive, &shift.CreatedAt, &shift.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tasks, &shift.Tasks); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

// GetOpenCandidateShifts 返回所有未被直接指派的启用班次，以及每个班次当前
// 已批准的申请数，容量过滤和排序交给 lifecycle 包在内存中完成
func (r *Repository) GetOpenCandidateShifts() ([]*domain.Shift, map[int64]int32, error) {
	query := `
		SELECT
			s.id, s.title, s.location, s.start_time, s.end_time, s.required_staff, s.assignee_id, s.color, s.tasks, s.is_active, s.created_at, s.version,
			COUNT(sr.id) FILTER (WHERE sr.status = 'approved') AS approved_count
		FROM shifts s
		LEFT JOIN shift_requests sr ON sr.shift_id = s.id
		WHERE s.assignee_id IS NULL AND s.is_active = true
		GROUP BY s.id
		ORDER BY s.start_time
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	approved := make(map[int64]int32)
	for rows.Next() {
		shift := &domain.Shift{}
		var tasks []byte
		var approvedCount int32
		dst := []any{&shift.ID, &shift.Title, &shift.Location, &shift.StartTime, &shift.EndTime, &shift.RequiredStaff, &shift.AssigneeID, &shift.Color, &tasks, &shift.IsActive, &shift.CreatedAt, &shift.Version, &approvedCount}
		if err := rows.Scan(dst...); err != nil {
			return nil, nil, err
		}
		if err := json.Unmarshal(tasks, &shift.Tasks); err != nil {
			return nil, nil, err
		}
		shifts = append(shifts, shift)
		approved[shift.ID] = approvedCount
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return shifts, approved, nil
}

func (r *Repository) CountApprovedRequests(shiftID int64) (int32, error) {
	query := `
		SELECT COUNT(*) FROM shift_requests WHERE shift_id = $1 AND status = 'approved'
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var count int32
	if err := r.dbpool.QueryRowContext(ctx, query, shiftID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) UpdateShift(shift *domain.Shift) error {
	query := `
		UPDATE shifts
		SET
			title = $1,
			location = $2,
			start_time = $3,
			end_time = $4,
			required_staff = $5,
			assignee_id = $6,
			color = $7,
			tasks = $8,
			is_active = $9,
			version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING created_at, version
	`

	tasks, err := json.Marshal(shift.Tasks)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{shift.Title, shift.Location, shift.StartTime, shift.EndTime, shift.RequiredStaff, shift.AssigneeID, shift.Color, tasks, shift.IsActive, shift.ID, shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.CreatedAt, &shift.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShift(id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// BulkDeleteShifts 按删除条件批量删除班次并返回删除数量。
// Force 为 false 且范围内存在已开始的班次时返回 ErrShiftsInProgress，
// 此时不会删除任何班次
func (r *Repository) BulkDeleteShifts(criteria *domain.DeletionCriteria) (int64, error) {
	start, end, err := period.CriteriaRange(criteria, time.Local)
	if err != nil {
		return 0, err
	}

	conds := "start_time >= $1 AND start_time < $2"
	args := []any{start, end}

	if criteria.AssigneeID != nil {
		args = append(args, *criteria.AssigneeID)
		conds += fmt.Sprintf(" AND assignee_id = $%d", len(args))
	}
	switch criteria.Type {
	case "open":
		conds += " AND assignee_id IS NULL"
	case "assigned":
		conds += " AND assignee_id IS NOT NULL"
	}
	switch criteria.Status {
	case "active":
		conds += " AND is_active = true"
	case "inactive":
		conds += " AND is_active = false"
	}

	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if !criteria.Force {
		var inProgress bool
		query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM shifts WHERE %s AND start_time <= NOW())`, conds)
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&inProgress); err != nil {
			return 0, err
		}
		if inProgress {
			return 0, domain.ErrShiftsInProgress
		}
	}

	result, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM shifts WHERE %s`, conds), args...)
	if err != nil {
		return 0, err
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return deleted, nil
}

// lockShift 在事务中锁住班次行，申请和批准都要先拿到这把锁再检查容量
func lockShift(ctx context.Context, tx *sql.Tx, shiftID int64) (*domain.Shift, error) {
	query := `
		SELECT title, location, start_time, end_time, required_staff, assignee_id, color, tasks, is_active, created_at, version
		FROM shifts WHERE id = $1
		FOR UPDATE
	`

	shift := &domain.Shift{
		ID: shiftID,
	}

	var tasks []byte
	dst := []any{&shift.Title, &shift.Location, &shift.StartTime, &shift.EndTime, &shift.RequiredStaff, &shift.AssigneeID, &shift.Color, &tasks, &shift.IsActive, &shift.CreatedAt, &shift.Version}
	if err := tx.QueryRowContext(ctx, query, shiftID).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tasks, &shift.Tasks); err != nil {
		return nil, err
	}

	return shift, nil
}

func countApprovedInTx(ctx context.Context, tx *sql.Tx, shiftID int64) (int32, error) {
	var count int32
	query := `SELECT COUNT(*) FROM shift_requests WHERE shift_id = $1 AND status = 'approved'`
	if err := tx.QueryRowContext(ctx, query, shiftID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
