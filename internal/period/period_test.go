package period

import (
	"errors"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
)

func ptr(id int64) *int64 { return &id }

func TestResolveToday(t *testing.T) {
	now := time.Date(2025, time.March, 1, 15, 30, 0, 0, time.Local)

	criteria, err := Resolve(&Selection{Period: PeriodToday}, now)
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if criteria.Day != "2025-03-01" {
		t.Errorf("Day = %q, want 2025-03-01", criteria.Day)
	}
	if criteria.Week != "" || criteria.Month != "" || criteria.StartDate != "" {
		t.Errorf("其他周期字段应为空: %+v", criteria)
	}
}

func TestResolveWeek(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"年中", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local), "2025-W03"},
		// 2024-12-31 属于 2025 年的第 1 周
		{"跨年", time.Date(2024, time.December, 31, 0, 0, 0, 0, time.Local), "2025-W01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria, err := Resolve(&Selection{Period: PeriodWeek}, tt.now)
			if err != nil {
				t.Fatalf("Resolve 失败: %v", err)
			}
			if criteria.Week != tt.want {
				t.Errorf("Week = %q, want %q", criteria.Week, tt.want)
			}
		})
	}
}

func TestResolveMonth(t *testing.T) {
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)

	criteria, err := Resolve(&Selection{Period: PeriodMonth}, now)
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if criteria.Month != "2025-03" {
		t.Errorf("Month = %q, want 2025-03", criteria.Month)
	}
}

func TestResolveCustom(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		sel     Selection
		wantErr bool
	}{
		{"单独的日", Selection{Period: PeriodCustom, Day: "2025-02-14"}, false},
		{"单独的周", Selection{Period: PeriodCustom, Week: "2025-W07"}, false},
		{"单独的月", Selection{Period: PeriodCustom, Month: "2025-02"}, false},
		{"显式区间", Selection{Period: PeriodCustom, StartDate: "2025-02-01", EndDate: "2025-02-14"}, false},
		{"什么都没选", Selection{Period: PeriodCustom}, true},
		{"同时选了日和周", Selection{Period: PeriodCustom, Day: "2025-02-14", Week: "2025-W07"}, true},
		{"只有起点", Selection{Period: PeriodCustom, StartDate: "2025-02-01"}, true},
		{"区间颠倒", Selection{Period: PeriodCustom, StartDate: "2025-02-14", EndDate: "2025-02-01"}, true},
		{"日期格式错误", Selection{Period: PeriodCustom, Day: "02/14/2025"}, true},
		{"周标记格式错误", Selection{Period: PeriodCustom, Week: "2025-07"}, true},
		{"周数超界", Selection{Period: PeriodCustom, Week: "2025-W54"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(&tt.sel, now)
			if tt.wantErr && !errors.Is(err, domain.ErrInvalidPeriod) {
				t.Errorf("应返回 ErrInvalidPeriod，实际 %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("不应失败: %v", err)
			}
		})
	}
}

func TestResolveCopiesFilters(t *testing.T) {
	now := time.Now()
	sel := &Selection{
		Period:     PeriodToday,
		AssigneeID: ptr(42),
		Status:     "active",
		Type:       "open",
		Force:      true,
	}

	criteria, err := Resolve(sel, now)
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}

	if criteria.AssigneeID == nil || *criteria.AssigneeID != 42 {
		t.Errorf("AssigneeID 未被透传")
	}
	if criteria.Status != "active" || criteria.Type != "open" || !criteria.Force {
		t.Errorf("过滤条件未被透传: %+v", criteria)
	}
}

func TestCriteriaRange(t *testing.T) {
	loc := time.Local

	tests := []struct {
		name      string
		criteria  domain.DeletionCriteria
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			"日",
			domain.DeletionCriteria{Day: "2025-03-01"},
			time.Date(2025, time.March, 1, 0, 0, 0, 0, loc),
			time.Date(2025, time.March, 2, 0, 0, 0, 0, loc),
		},
		{
			"ISO 周",
			domain.DeletionCriteria{Week: "2025-W03"},
			time.Date(2025, time.January, 13, 0, 0, 0, 0, loc),
			time.Date(2025, time.January, 20, 0, 0, 0, 0, loc),
		},
		{
			"月",
			domain.DeletionCriteria{Month: "2025-02"},
			time.Date(2025, time.February, 1, 0, 0, 0, 0, loc),
			time.Date(2025, time.March, 1, 0, 0, 0, 0, loc),
		},
		{
			"显式区间含终点当天",
			domain.DeletionCriteria{StartDate: "2025-02-01", EndDate: "2025-02-14"},
			time.Date(2025, time.February, 1, 0, 0, 0, 0, loc),
			time.Date(2025, time.February, 15, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := CriteriaRange(&tt.criteria, loc)
			if err != nil {
				t.Fatalf("CriteriaRange 失败: %v", err)
			}
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("区间 = [%v, %v), want [%v, %v)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}

	if _, _, err := CriteriaRange(&domain.DeletionCriteria{}, loc); !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Errorf("空条件应返回 ErrInvalidPeriod，实际 %v", err)
	}
}
