// Package lifecycle 实现开放班次申请的准入控制：
// 申请只能从 pending 转移到 approved 或 rejected，两个终态都不可再变更。
// 这里只做纯校验和派生计算，持久化和并发控制由 repository 负责
package lifecycle

import (
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/timegrid"
)

type RangeFilter string

const (
	RangeToday RangeFilter = "today"
	RangeWeek  RangeFilter = "week"
	RangeMonth RangeFilter = "month"
	RangeAll   RangeFilter = "all"
)

type SortOrder string

const (
	SortByStartAsc     SortOrder = "startAsc"
	SortByDurationDesc SortOrder = "durationDesc"
)

type OpenShiftFilter struct {
	Range RangeFilter
	Sort  SortOrder
}

func inRange(start time.Time, f RangeFilter, now time.Time) bool {
	switch f {
	case RangeToday:
		dayStart, dayEnd := timegrid.DayRange(now)
		return !start.Before(dayStart) && start.Before(dayEnd)
	case RangeWeek:
		weekStart := timegrid.WeekStart(now)
		return !start.Before(weekStart) && start.Before(weekStart.AddDate(0, 0, 7))
	case RangeMonth:
		monthStart, monthEnd := timegrid.MonthRange(now.Year(), now.Month(), now.Location())
		return !start.Before(monthStart) && start.Before(monthEnd)
	default:
		return true
	}
}

// OpenShifts 过滤出还可以被申请的班次：未被直接指派且已批准的申请数未达到
// 所需人数。approved 是每个班次当前已批准的申请数，缺省视为 0
func OpenShifts(shifts []*domain.Shift, approved map[int64]int32, filter OpenShiftFilter, now time.Time) []*domain.Shift {
	open := make([]*domain.Shift, 0)

	for _, s := range shifts {
		if !domain.Requestable(s, approved[s.ID]) {
			continue
		}
		if !inRange(s.StartTime, filter.Range, now) {
			continue
		}
		open = append(open, s)
	}

	switch filter.Sort {
	case SortByDurationDesc:
		sort.SliceStable(open, func(i, j int) bool {
			return open[i].Duration() > open[j].Duration()
		})
	default:
		sort.SliceStable(open, func(i, j int) bool {
			return open[i].StartTime.Before(open[j].StartTime)
		})
	}

	return open
}

// CheckSubmit 校验员工是否可以申请某个班次。
// 同一员工在同一班次上已有未被拒绝的申请时视为重复申请
func CheckSubmit(shift *domain.Shift, approved int32, requests []*domain.ShiftRequest, staffID int64) error {
	if !domain.Requestable(shift, approved) {
		return domain.ErrShiftNotAvailable
	}

	for _, req := range requests {
		if req.ShiftID != shift.ID || req.StaffID != staffID {
			continue
		}
		if req.Status != domain.RequestRejected {
			return domain.ErrDuplicateRequest
		}
	}

	return nil
}

// CheckApprove 校验某个申请是否可以被批准。
// 已批准数达到所需人数时返回 ErrShiftFull，
// 并发批准的场景下这个校验最终由 repository 在事务里重做一次
func CheckApprove(req *domain.ShiftRequest, approved int32, required int32) error {
	if req.Resolved() {
		return domain.ErrAlreadyResolved
	}
	if approved >= required {
		return domain.ErrShiftFull
	}
	return nil
}

// CheckReject 校验某个申请是否可以被拒绝，拒绝时必须填写备注
func CheckReject(req *domain.ShiftRequest, note string) error {
	if req.Resolved() {
		return domain.ErrAlreadyResolved
	}
	if note == "" {
		return domain.ErrEmptyRejectionNote
	}
	return nil
}

// ExcessPending 返回某个班次上已经不可能再被批准的 pending 申请。
// 这些申请不会被自动拒绝，而是交给管理员显式处理
func ExcessPending(shift *domain.Shift, requests []*domain.ShiftRequest, approved int32) []*domain.ShiftRequest {
	remaining := shift.RequiredStaff - approved
	if remaining > 0 {
		return nil
	}

	excess := make([]*domain.ShiftRequest, 0)
	for _, req := range requests {
		if req.ShiftID == shift.ID && req.Status == domain.RequestPending {
			excess = append(excess, req)
		}
	}

	if len(excess) == 0 {
		return nil
	}
	return excess
}

type Counts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// CountByStatus 对实时申请列表逐条统计，不单独缓存计数，避免和列表产生偏差
func CountByStatus(requests []*domain.ShiftRequest) Counts {
	var counts Counts
	for _, req := range requests {
		switch req.Status {
		case domain.RequestPending:
			counts.Pending++
		case domain.RequestApproved:
			counts.Approved++
		case domain.RequestRejected:
			counts.Rejected++
		}
	}
	return counts
}

// FilterByStatus 返回指定状态的申请，status 为空时返回全部
func FilterByStatus(requests []*domain.ShiftRequest, status domain.RequestStatus) []*domain.ShiftRequest {
	if status == "" {
		return requests
	}

	filtered := make([]*domain.ShiftRequest, 0)
	for _, req := range requests {
		if req.Status == status {
			filtered = append(filtered, req)
		}
	}
	return filtered
}

// SortByCreated 按提交时间升序返回申请列表，不修改输入
func SortByCreated(requests []*domain.ShiftRequest) []*domain.ShiftRequest {
	ordered := make([]*domain.ShiftRequest, len(requests))
	copy(ordered, requests)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	return ordered
}
