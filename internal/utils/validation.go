package utils

import (
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/timegrid"
)

func ValidateShiftTime(shift *domain.Shift) error {
	if !shift.EndTime.After(shift.StartTime) {
		return errors.New("班次的结束时间必须晚于开始时间")
	}

	// 超长班次基本都是录入错误
	if shift.Duration() > 7*24*time.Hour {
		return errors.New("班次时长不能超过 7 天")
	}

	return nil
}

// ParseDateRange 解析 YYYY-MM-DD 格式的起止日期，两者都缺省时返回当前周。
// 结束日期是含当天的，所以返回的右边界为其后一天的零点
func ParseDateRange(startStr string, endStr string) (time.Time, time.Time, error) {
	if startStr == "" && endStr == "" {
		weekStart := timegrid.WeekStart(time.Now())
		return weekStart, weekStart.AddDate(0, 0, 7), nil
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("开始日期格式错误")
	}

	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("结束日期格式错误")
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("结束日期不能早于开始日期")
	}

	return start, end.AddDate(0, 0, 1), nil
}
