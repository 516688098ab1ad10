package repository

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/lifecycle"
)

// CreateShiftRequest 提交一个开放班次申请。
// 容量检查和重复检查都在锁住班次行的事务中进行，
// 唯一索引 shift_requests_shift_id_staff_id_key 兜底并发的重复提交
func (r *Repository) CreateShiftRequest(request *domain.ShiftRequest) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	shift, err := lockShift(ctx, tx, request.ShiftID)
	if err != nil {
		return err
	}

	approved, err := countApprovedInTx(ctx, tx, request.ShiftID)
	if err != nil {
		return err
	}

	if !domain.Requestable(shift, approved) {
		return domain.ErrShiftNotAvailable
	}

	var exists bool
	dupQuery := `
		SELECT EXISTS (
			SELECT 1 FROM shift_requests
			WHERE shift_id = $1 AND staff_id = $2 AND status <> 'rejected'
		)
	`
	if err := tx.QueryRowContext(ctx, dupQuery, request.ShiftID, request.StaffID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateRequest
	}

	insertQuery := `
		INSERT INTO shift_requests (shift_id, staff_id, staff_note)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at, version
	`
	dst := []any{&request.ID, &request.Status, &request.CreatedAt, &request.Version}
	if err := tx.QueryRowContext(ctx, insertQuery, request.ShiftID, request.StaffID, request.StaffNote).Scan(dst...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_requests_shift_id_staff_id_key" {
			return domain.ErrDuplicateRequest
		}
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetShiftRequestByID(id int64) (*domain.ShiftRequest, error) {
	query := `
		SELECT shift_id, staff_id, status, staff_note, admin_note, responder_id, responded_at, created_at, version
		FROM shift_requests WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	request := &domain.ShiftRequest{
		ID: id,
	}

	dst := []any{&request.ShiftID, &request.StaffID, &request.Status, &request.StaffNote, &request.AdminNote, &request.ResponderID, &request.RespondedAt, &request.CreatedAt, &request.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

func (r *Repository) getShiftRequests(query string, args ...any) ([]*domain.ShiftRequest, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.ShiftRequest, 0)
	for rows.Next() {
		request := &domain.ShiftRequest{}
		dst := []any{&request.ID, &request.ShiftID, &request.StaffID, &request.Status, &request.StaffNote, &request.AdminNote, &request.ResponderID, &request.RespondedAt, &request.CreatedAt, &request.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

const shiftRequestColumns = `
	SELECT id, shift_id, staff_id, status, staff_note, admin_note, responder_id, responded_at, created_at, version
	FROM shift_requests
`

// GetShiftRequests 返回指定状态的申请，status 为空字符串时返回全部
func (r *Repository) GetShiftRequests(status domain.RequestStatus) ([]*domain.ShiftRequest, error) {
	if status == "" {
		return r.getShiftRequests(shiftRequestColumns + ` ORDER BY created_at`)
	}
	return r.getShiftRequests(shiftRequestColumns+` WHERE status = $1 ORDER BY created_at`, status)
}

func (r *Repository) GetShiftRequestsByStaff(staffID int64, status domain.RequestStatus) ([]*domain.ShiftRequest, error) {
	if status == "" {
		return r.getShiftRequests(shiftRequestColumns+` WHERE staff_id = $1 ORDER BY created_at`, staffID)
	}
	return r.getShiftRequests(shiftRequestColumns+` WHERE staff_id = $1 AND status = $2 ORDER BY created_at`, staffID, status)
}

func (r *Repository) GetShiftRequestsByShift(shiftID int64) ([]*domain.ShiftRequest, error) {
	return r.getShiftRequests(shiftRequestColumns+` WHERE shift_id = $1 ORDER BY created_at`, shiftID)
}

// ApproveShiftRequest 批准一个申请。批准前在事务里重新锁班次、数容量，
// 两个管理员并发批准同一班次时后到的会拿到 ErrShiftFull，
// 调用方必须把这个错误当作权威结果并重新拉取申请列表。
// 返回批准后班次上剩余的 pending 申请，供管理员处理容量冲突
func (r *Repository) ApproveShiftRequest(request *domain.ShiftRequest, responderID int64, note string) ([]*domain.ShiftRequest, error) {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 先锁申请行，确认还是 pending
	var status domain.RequestStatus
	statusQuery := `SELECT status FROM shift_requests WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, statusQuery, request.ID).Scan(&status); err != nil {
		return nil, err
	}
	if status != domain.RequestPending {
		return nil, domain.ErrAlreadyResolved
	}

	shift, err := lockShift(ctx, tx, request.ShiftID)
	if err != nil {
		return nil, err
	}

	approved, err := countApprovedInTx(ctx, tx, request.ShiftID)
	if err != nil {
		return nil, err
	}
	if approved >= shift.RequiredStaff {
		return nil, domain.ErrShiftFull
	}

	updateQuery := `
		UPDATE shift_requests
		SET
			status = 'approved',
			admin_note = $1,
			responder_id = $2,
			responded_at = NOW(),
			version = version + 1
		WHERE id = $3
		RETURNING status, admin_note, responder_id, responded_at, version
	`
	dst := []any{&request.Status, &request.AdminNote, &request.ResponderID, &request.RespondedAt, &request.Version}
	if err := tx.QueryRowContext(ctx, updateQuery, note, responderID, request.ID).Scan(dst...); err != nil {
		return nil, err
	}

	// 批准后把同一班次上已经放不下的 pending 申请一并取出，
	// 这些申请不会被自动拒绝，由管理员逐个处理
	pendingQuery := shiftRequestColumns + ` WHERE shift_id = $1 AND status = 'pending' ORDER BY created_at`
	rows, err := tx.QueryContext(ctx, pendingQuery, request.ShiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]*domain.ShiftRequest, 0)
	for rows.Next() {
		req := &domain.ShiftRequest{}
		scan := []any{&req.ID, &req.ShiftID, &req.StaffID, &req.Status, &req.StaffNote, &req.AdminNote, &req.ResponderID, &req.RespondedAt, &req.CreatedAt, &req.Version}
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		pending = append(pending, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return lifecycle.ExcessPending(shift, pending, approved+1), nil
}

// RejectShiftRequest 拒绝一个申请，备注必填（由 handler 校验）
func (r *Repository) RejectShiftRequest(request *domain.ShiftRequest, responderID int64, note string) error {
	query := `
		UPDATE shift_requests
		SET
			status = 'rejected',
			admin_note = $1,
			responder_id = $2,
			responded_at = NOW(),
			version = version + 1
		WHERE id = $3 AND status = 'pending'
		RETURNING status, admin_note, responder_id, responded_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var respondedAt time.Time
	dst := []any{&request.Status, &request.AdminNote, &request.ResponderID, &respondedAt, &request.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, note, responderID, request.ID).Scan(dst...); err != nil {
		return err
	}
	request.RespondedAt = &respondedAt

	return nil
}
