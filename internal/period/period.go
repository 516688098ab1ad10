// Package period 把用户选择的批量删除范围换算成具体的删除条件
package period

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/timegrid"
)

type Period string

const (
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"
)

const dateLayout = "2006-01-02"

// Selection 用户在删除界面上的选择。custom 时 Day / Week / Month /
// (StartDate, EndDate) 互斥，界面上选中一个会清空其他几个，
// 这里仍然会校验互斥性，传入矛盾的组合属于调用方错误
type Selection struct {
	Period    Period `json:"period" validate:"required,oneof=today week month custom"`
	Day       string `json:"day,omitempty"`
	Week      string `json:"week,omitempty"`
	Month     string `json:"month,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`

	AssigneeID *int64 `json:"assigneeID,omitempty"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Type       string `json:"type,omitempty" validate:"omitempty,oneof=open assigned"`
	Force      bool   `json:"force"`
}

// Resolve 把删除范围选择换算成一个完整且无歧义的删除条件。
// 矛盾的输入返回 ErrInvalidPeriod，而不是挑一个字段静默处理
func Resolve(sel *Selection, now time.Time) (*domain.DeletionCriteria, error) {
	criteria := &domain.DeletionCriteria{
		AssigneeID: sel.AssigneeID,
		Status:     sel.Status,
		Type:       sel.Type,
		Force:      sel.Force,
	}

	switch sel.Period {
	case PeriodToday:
		criteria.Day = now.Format(dateLayout)
	case PeriodWeek:
		criteria.Week = fmt.Sprintf("%d-W%02d", timegrid.ISOWeekYear(now), timegrid.ISOWeekNumber(now))
	case PeriodMonth:
		criteria.Month = now.Format("2006-01")
	case PeriodCustom:
		if err := resolveCustom(sel, criteria); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrInvalidPeriod
	}

	return criteria, nil
}

func resolveCustom(sel *Selection, criteria *domain.DeletionCriteria) error {
	populated := 0
	if sel.Day != "" {
		populated++
	}
	if sel.Week != "" {
		populated++
	}
	if sel.Month != "" {
		populated++
	}
	if sel.StartDate != "" || sel.EndDate != "" {
		// 显式区间必须同时给出两端
		if sel.StartDate == "" || sel.EndDate == "" {
			return domain.ErrInvalidPeriod
		}
		populated++
	}

	if populated != 1 {
		return domain.ErrInvalidPeriod
	}

	switch {
	case sel.Day != "":
		if _, err := time.Parse(dateLayout, sel.Day); err != nil {
			return domain.ErrInvalidPeriod
		}
		criteria.Day = sel.Day
	case sel.Week != "":
		if _, _, err := ParseWeekToken(sel.Week); err != nil {
			return domain.ErrInvalidPeriod
		}
		criteria.Week = sel.Week
	case sel.Month != "":
		if _, err := time.Parse("2006-01", sel.Month); err != nil {
			return domain.ErrInvalidPeriod
		}
		criteria.Month = sel.Month
	default:
		start, err := time.Parse(dateLayout, sel.StartDate)
		if err != nil {
			return domain.ErrInvalidPeriod
		}
		end, err := time.Parse(dateLayout, sel.EndDate)
		if err != nil {
			return domain.ErrInvalidPeriod
		}
		if end.Before(start) {
			return domain.ErrInvalidPeriod
		}
		criteria.StartDate = sel.StartDate
		criteria.EndDate = sel.EndDate
	}

	return nil
}

// ParseWeekToken 解析 YYYY-Www 形式的 ISO 周标记
func ParseWeekToken(token string) (int, int, error) {
	var year, week int
	if _, err := fmt.Sscanf(token, "%d-W%d", &year, &week); err != nil {
		return 0, 0, domain.ErrInvalidPeriod
	}
	if week < 1 || week > 53 {
		return 0, 0, domain.ErrInvalidPeriod
	}
	return year, week, nil
}

// CriteriaRange 把删除条件中的周期部分换算成 [start, end) 时间区间，
// repository 在拼删除语句时使用
func CriteriaRange(criteria *domain.DeletionCriteria, loc *time.Location) (time.Time, time.Time, error) {
	switch {
	case criteria.Day != "":
		day, err := time.ParseInLocation(dateLayout, criteria.Day, loc)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidPeriod
		}
		start, end := timegrid.DayRange(day)
		return start, end, nil
	case criteria.Week != "":
		year, week, err := ParseWeekToken(criteria.Week)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start, end := timegrid.ISOWeekRange(year, week, loc)
		return start, end, nil
	case criteria.Month != "":
		month, err := time.ParseInLocation("2006-01", criteria.Month, loc)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidPeriod
		}
		start, end := timegrid.MonthRange(month.Year(), month.Month(), loc)
		return start, end, nil
	case criteria.StartDate != "" && criteria.EndDate != "":
		start, err := time.ParseInLocation(dateLayout, criteria.StartDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidPeriod
		}
		end, err := time.ParseInLocation(dateLayout, criteria.EndDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidPeriod
		}
		// 终点日期是闭区间，换算成半开区间要加一天
		return start, end.AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, domain.ErrInvalidPeriod
	}
}
