package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
)

var now = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.Local)

func ptr(id int64) *int64 { return &id }

func openShift(id int64, start time.Time, duration time.Duration, required int32) *domain.Shift {
	return &domain.Shift{
		ID:            id,
		Title:         "前台值班",
		StartTime:     start,
		EndTime:       start.Add(duration),
		RequiredStaff: required,
		IsActive:      true,
	}
}

func TestOpenShiftsFiltering(t *testing.T) {
	shifts := []*domain.Shift{
		openShift(1, now.Add(2*time.Hour), 2*time.Hour, 1),               // 今天
		openShift(2, now.AddDate(0, 0, 2), 2*time.Hour, 1),               // 本周五
		openShift(3, now.AddDate(0, 0, 10), 2*time.Hour, 1),              // 下周（仍在本月）
		openShift(4, now.AddDate(0, 2, 0), 2*time.Hour, 1),               // 两个月后
		{ID: 5, StartTime: now.Add(time.Hour), EndTime: now.Add(3 * time.Hour), RequiredStaff: 1, AssigneeID: ptr(9)}, // 已指派
		openShift(6, now.Add(3*time.Hour), 2*time.Hour, 2),               // 今天，但名额已满
	}
	approved := map[int64]int32{6: 2}

	tests := []struct {
		name   string
		filter RangeFilter
		want   []int64
	}{
		{"today", RangeToday, []int64{1}},
		{"week", RangeWeek, []int64{1, 2}},
		{"month", RangeMonth, []int64{1, 2, 3}},
		{"all", RangeAll, []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open := OpenShifts(shifts, approved, OpenShiftFilter{Range: tt.filter, Sort: SortByStartAsc}, now)

			if len(open) != len(tt.want) {
				t.Fatalf("开放班次数量 = %d, want %d", len(open), len(tt.want))
			}
			for i, s := range open {
				if s.ID != tt.want[i] {
					t.Errorf("第 %d 个班次 = %d, want %d", i, s.ID, tt.want[i])
				}
			}
		})
	}
}

func TestOpenShiftsSortByDuration(t *testing.T) {
	shifts := []*domain.Shift{
		openShift(1, now.Add(time.Hour), 2*time.Hour, 1),
		openShift(2, now.Add(2*time.Hour), 8*time.Hour, 1),
		openShift(3, now.Add(3*time.Hour), 4*time.Hour, 1),
	}

	open := OpenShifts(shifts, nil, OpenShiftFilter{Range: RangeAll, Sort: SortByDurationDesc}, now)

	want := []int64{2, 3, 1}
	for i, s := range open {
		if s.ID != want[i] {
			t.Fatalf("按时长降序排序错误，第 %d 个是 %d", i, s.ID)
		}
	}
}

func TestCheckSubmit(t *testing.T) {
	shift := openShift(1, now.Add(time.Hour), 2*time.Hour, 2)

	if err := CheckSubmit(shift, 0, nil, 100); err != nil {
		t.Fatalf("首次申请应该成功: %v", err)
	}

	// 同一员工已有 pending 申请时重复申请被拒
	pending := []*domain.ShiftRequest{{ID: 1, ShiftID: 1, StaffID: 100, Status: domain.RequestPending}}
	if err := CheckSubmit(shift, 0, pending, 100); !errors.Is(err, domain.ErrDuplicateRequest) {
		t.Errorf("重复申请应返回 ErrDuplicateRequest，实际 %v", err)
	}

	// 上一次申请被拒绝后允许重新申请
	rejected := []*domain.ShiftRequest{{ID: 1, ShiftID: 1, StaffID: 100, Status: domain.RequestRejected}}
	if err := CheckSubmit(shift, 0, rejected, 100); err != nil {
		t.Errorf("被拒绝后的再次申请应该成功: %v", err)
	}

	// 名额已满的班次不可申请
	if err := CheckSubmit(shift, 2, nil, 100); !errors.Is(err, domain.ErrShiftNotAvailable) {
		t.Errorf("名额已满应返回 ErrShiftNotAvailable，实际 %v", err)
	}

	// 已被直接指派的班次不可申请
	assigned := openShift(2, now.Add(time.Hour), 2*time.Hour, 2)
	assigned.AssigneeID = ptr(9)
	if err := CheckSubmit(assigned, 0, nil, 100); !errors.Is(err, domain.ErrShiftNotAvailable) {
		t.Errorf("已指派班次应返回 ErrShiftNotAvailable，实际 %v", err)
	}
}

func TestCheckApprove(t *testing.T) {
	pending := &domain.ShiftRequest{ID: 1, ShiftID: 1, Status: domain.RequestPending}

	if err := CheckApprove(pending, 0, 1); err != nil {
		t.Fatalf("批准 pending 申请应该成功: %v", err)
	}
	if err := CheckApprove(pending, 1, 1); !errors.Is(err, domain.ErrShiftFull) {
		t.Errorf("名额已满应返回 ErrShiftFull，实际 %v", err)
	}

	resolved := &domain.ShiftRequest{ID: 2, ShiftID: 1, Status: domain.RequestApproved}
	if err := CheckApprove(resolved, 0, 2); !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Errorf("已处理的申请应返回 ErrAlreadyResolved，实际 %v", err)
	}
}

func TestCheckReject(t *testing.T) {
	pending := &domain.ShiftRequest{ID: 1, Status: domain.RequestPending}

	if err := CheckReject(pending, "人员已满"); err != nil {
		t.Fatalf("拒绝 pending 申请应该成功: %v", err)
	}
	if err := CheckReject(pending, ""); !errors.Is(err, domain.ErrEmptyRejectionNote) {
		t.Errorf("空备注应返回 ErrEmptyRejectionNote，实际 %v", err)
	}

	rejected := &domain.ShiftRequest{ID: 2, Status: domain.RequestRejected}
	if err := CheckReject(rejected, "备注"); !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Errorf("已处理的申请应返回 ErrAlreadyResolved，实际 %v", err)
	}
}

func TestExcessPending(t *testing.T) {
	shift := openShift(1, now, 2*time.Hour, 2)
	requests := []*domain.ShiftRequest{
		{ID: 1, ShiftID: 1, Status: domain.RequestApproved},
		{ID: 2, ShiftID: 1, Status: domain.RequestPending},
		{ID: 3, ShiftID: 1, Status: domain.RequestPending},
		{ID: 4, ShiftID: 2, Status: domain.RequestPending}, // 其他班次
	}

	// 还有空余名额时没有冲突
	if excess := ExcessPending(shift, requests, 1); excess != nil {
		t.Fatalf("还有名额时不应产生冲突: %v", excess)
	}

	excess := ExcessPending(shift, requests, 2)
	if len(excess) != 2 {
		t.Fatalf("应有 2 个待处理冲突，实际 %d 个", len(excess))
	}
	if excess[0].ID != 2 || excess[1].ID != 3 {
		t.Errorf("冲突申请错误: %d, %d", excess[0].ID, excess[1].ID)
	}
}

func TestCountByStatus(t *testing.T) {
	requests := []*domain.ShiftRequest{
		{Status: domain.RequestPending},
		{Status: domain.RequestPending},
		{Status: domain.RequestApproved},
		{Status: domain.RequestRejected},
	}

	counts := CountByStatus(requests)
	if counts.Pending != 2 || counts.Approved != 1 || counts.Rejected != 1 {
		t.Errorf("计数错误: %+v", counts)
	}
}

// 对应完整的准入流程：required_staff = 1 的班次，A 和 B 都提交了申请，
// 批准 A 后再批准 B 必须失败，随后 B 被带备注拒绝
func TestAdmissionScenario(t *testing.T) {
	shift := openShift(1, now.Add(24*time.Hour), 4*time.Hour, 1)

	reqA := &domain.ShiftRequest{ID: 1, ShiftID: 1, StaffID: 100, Status: domain.RequestPending}
	reqB := &domain.ShiftRequest{ID: 2, ShiftID: 1, StaffID: 200, Status: domain.RequestPending}
	requests := []*domain.ShiftRequest{reqA, reqB}

	// 两人先后提交申请
	if err := CheckSubmit(shift, 0, nil, 100); err != nil {
		t.Fatalf("A 提交申请失败: %v", err)
	}
	if err := CheckSubmit(shift, 0, []*domain.ShiftRequest{reqA}, 200); err != nil {
		t.Fatalf("B 提交申请失败: %v", err)
	}

	// 批准 A
	if err := CheckApprove(reqA, 0, shift.RequiredStaff); err != nil {
		t.Fatalf("批准 A 失败: %v", err)
	}
	reqA.Status = domain.RequestApproved
	approved := int32(1)

	// 班次满员后，B 的申请浮出为待处理冲突
	excess := ExcessPending(shift, requests, approved)
	if len(excess) != 1 || excess[0].ID != reqB.ID {
		t.Fatalf("冲突列表应只包含 B 的申请: %v", excess)
	}

	// 再批准 B 必须失败
	if err := CheckApprove(reqB, approved, shift.RequiredStaff); !errors.Is(err, domain.ErrShiftFull) {
		t.Fatalf("批准 B 应返回 ErrShiftFull，实际 %v", err)
	}

	// 拒绝 B 必须带备注
	if err := CheckReject(reqB, ""); !errors.Is(err, domain.ErrEmptyRejectionNote) {
		t.Fatalf("空备注拒绝应失败，实际 %v", err)
	}
	if err := CheckReject(reqB, "人员已满"); err != nil {
		t.Fatalf("拒绝 B 失败: %v", err)
	}
	reqB.Status = domain.RequestRejected

	// 两个终态都不可再变更
	if err := CheckApprove(reqA, approved, shift.RequiredStaff); !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Errorf("已批准的申请不应再被处理")
	}
	if err := CheckReject(reqB, "再次拒绝"); !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Errorf("已拒绝的申请不应再被处理")
	}

	counts := CountByStatus(requests)
	if counts.Pending != 0 || counts.Approved != 1 || counts.Rejected != 1 {
		t.Errorf("最终计数错误: %+v", counts)
	}
}
