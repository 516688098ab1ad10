// Package timegrid 提供排班网格所需的纯时间计算：
// 周起点、网格坐标和 ISO 周相关的换算，所有函数都不依赖外部状态
package timegrid

import (
	"math"
	"time"
)

// WeekStart 返回 t 所在周的周一 00:00（使用 t 自身的时区）
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		// time.Sunday 为 0，按 ISO 惯例周日算第 7 天
		weekday = 7
	}

	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -(weekday - 1))
}

// RawDayIndex 返回 t 与 weekStart 之间相差的日历日数，不做范围限制，
// 调用方可以据此丢弃不在本周内的班次
func RawDayIndex(t time.Time, weekStart time.Time) int {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	// 用四舍五入消除夏令时造成的 ±1 小时偏差
	return int(math.Round(day.Sub(weekStart).Hours() / 24))
}

// DayIndexInWeek 返回 t 在周网格中的列下标，超出本周的时间会被收敛到 [0, 6]
func DayIndexInWeek(t time.Time, weekStart time.Time) int {
	index := RawDayIndex(t, weekStart)
	if index < 0 {
		return 0
	}
	if index > 6 {
		return 6
	}
	return index
}

// ISOWeekNumber 返回 t 的 ISO-8601 周数，范围 [1, 53]
func ISOWeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// ISOWeekYear 返回 t 的 ISO 周所属的年份，
// 跨年周（例如 2024-12-31 属于 2025-W01）会返回相邻年份
func ISOWeekYear(t time.Time) int {
	year, _ := t.ISOWeek()
	return year
}

// ISOWeekRange 返回指定 ISO 周对应的 [周一 00:00, 下周一 00:00) 区间，
// 是 ISOWeekNumber 的逆运算，批量删除时用来把周标记换算成具体日期范围
func ISOWeekRange(year int, week int, loc *time.Location) (time.Time, time.Time) {
	// 1 月 4 日总是落在第 1 周
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	start := WeekStart(jan4).AddDate(0, 0, (week-1)*7)
	return start, start.AddDate(0, 0, 7)
}

// MonthRange 返回 [本月 1 日 00:00, 下月 1 日 00:00) 区间
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// DayRange 返回 t 所在日历日的 [00:00, 次日 00:00) 区间
func DayRange(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
