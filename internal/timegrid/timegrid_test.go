package timegrid

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.Local)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"周三", date(2025, time.January, 15, 10), date(2025, time.January, 13, 0)},
		{"周一当天", date(2025, time.January, 13, 0), date(2025, time.January, 13, 0)},
		{"周日", date(2025, time.January, 19, 23), date(2025, time.January, 13, 0)},
		{"跨年周", date(2025, time.January, 1, 8), date(2024, time.December, 30, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekStartProperties(t *testing.T) {
	// 任意时间的 WeekStart 都应该是周一 00:00，且与原时间相差不超过 7 天
	ref := date(2024, time.March, 1, 0)
	for i := 0; i < 400; i++ {
		d := ref.AddDate(0, 0, i).Add(13 * time.Hour)
		ws := WeekStart(d)

		if ws.Weekday() != time.Monday {
			t.Fatalf("WeekStart(%v) = %v，不是周一", d, ws)
		}
		if h, m, s := ws.Clock(); h != 0 || m != 0 || s != 0 {
			t.Fatalf("WeekStart(%v) = %v，不是 00:00", d, ws)
		}
		if d.Before(ws) || d.Sub(ws) >= 7*24*time.Hour+time.Hour {
			t.Fatalf("WeekStart(%v) = %v，超出一周范围", d, ws)
		}
	}
}

func TestDayIndexInWeek(t *testing.T) {
	weekStart := date(2025, time.January, 13, 0)

	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{"周一", date(2025, time.January, 13, 9), 0},
		{"周三", date(2025, time.January, 15, 0), 2},
		{"周日深夜", date(2025, time.January, 19, 23), 6},
		{"上一周收敛到 0", date(2025, time.January, 10, 12), 0},
		{"下一周收敛到 6", date(2025, time.January, 25, 12), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayIndexInWeek(tt.in, weekStart); got != tt.want {
				t.Errorf("DayIndexInWeek(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDayIndexInWeekMonotonic(t *testing.T) {
	weekStart := date(2025, time.January, 13, 0)
	prev := -1
	for h := 0; h < 7*24; h++ {
		idx := DayIndexInWeek(weekStart.Add(time.Duration(h)*time.Hour), weekStart)
		if idx < prev {
			t.Fatalf("第 %d 小时的下标 %d 小于前一个值 %d", h, idx, prev)
		}
		if idx < 0 || idx > 6 {
			t.Fatalf("第 %d 小时的下标 %d 超出 [0, 6]", h, idx)
		}
		prev = idx
	}
}

func TestRawDayIndex(t *testing.T) {
	weekStart := date(2025, time.January, 13, 0)

	if got := RawDayIndex(date(2025, time.January, 10, 12), weekStart); got != -3 {
		t.Errorf("上一周的 RawDayIndex = %d, want -3", got)
	}
	if got := RawDayIndex(date(2025, time.January, 21, 12), weekStart); got != 8 {
		t.Errorf("下一周的 RawDayIndex = %d, want 8", got)
	}
}

func TestISOWeekNumber(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Time
		wantYear int
		wantWeek int
	}{
		// 2025-01-01 是周三，属于 2025 年第 1 周
		{"年初", date(2025, time.January, 1, 0), 2025, 1},
		// 2024-12-31 属于下一年第一个周四所在的 ISO 周
		{"跨年", date(2024, time.December, 31, 0), 2025, 1},
		{"年中", date(2025, time.January, 15, 0), 2025, 3},
		{"周日仍在同一 ISO 周", date(2025, time.January, 19, 0), 2025, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ISOWeekNumber(tt.in); got != tt.wantWeek {
				t.Errorf("ISOWeekNumber(%v) = %d, want %d", tt.in, got, tt.wantWeek)
			}
			if got := ISOWeekYear(tt.in); got != tt.wantYear {
				t.Errorf("ISOWeekYear(%v) = %d, want %d", tt.in, got, tt.wantYear)
			}
		})
	}
}

func TestISOWeekRange(t *testing.T) {
	start, end := ISOWeekRange(2025, 3, time.Local)

	if want := date(2025, time.January, 13, 0); !start.Equal(want) {
		t.Errorf("ISOWeekRange(2025, 3) 起点 = %v, want %v", start, want)
	}
	if want := date(2025, time.January, 20, 0); !end.Equal(want) {
		t.Errorf("ISOWeekRange(2025, 3) 终点 = %v, want %v", end, want)
	}
}

func TestISOWeekRangeRoundTrip(t *testing.T) {
	// ISOWeekRange 应该是 ISOWeekNumber 的逆运算
	for week := 1; week <= 52; week++ {
		start, end := ISOWeekRange(2025, week, time.Local)

		if ISOWeekNumber(start) != week || ISOWeekYear(start) != 2025 {
			t.Fatalf("第 %d 周起点 %v 换算回来是 %d-W%d", week, start, ISOWeekYear(start), ISOWeekNumber(start))
		}
		mid := start.AddDate(0, 0, 3)
		if ISOWeekNumber(mid) != week {
			t.Fatalf("第 %d 周中间 %v 换算回来是第 %d 周", week, mid, ISOWeekNumber(mid))
		}
		if !end.Equal(start.AddDate(0, 0, 7)) {
			t.Fatalf("第 %d 周的区间长度不是 7 天", week)
		}
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2025, time.February, time.Local)

	if want := date(2025, time.February, 1, 0); !start.Equal(want) {
		t.Errorf("MonthRange 起点 = %v, want %v", start, want)
	}
	if want := date(2025, time.March, 1, 0); !end.Equal(want) {
		t.Errorf("MonthRange 终点 = %v, want %v", end, want)
	}
}

func TestDayRange(t *testing.T) {
	start, end := DayRange(date(2025, time.March, 1, 15))

	if want := date(2025, time.March, 1, 0); !start.Equal(want) {
		t.Errorf("DayRange 起点 = %v, want %v", start, want)
	}
	if want := date(2025, time.March, 2, 0); !end.Equal(want) {
		t.Errorf("DayRange 终点 = %v, want %v", end, want)
	}
}
