package layout

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
)

var weekStart = time.Date(2025, time.January, 13, 0, 0, 0, 0, time.Local)

func newShift(id int64, day int, hour int, duration time.Duration, assigneeID *int64) *domain.Shift {
	start := weekStart.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
	return &domain.Shift{
		ID:            id,
		Title:         "测试班次",
		StartTime:     start,
		EndTime:       start.Add(duration),
		RequiredStaff: 1,
		AssigneeID:    assigneeID,
		IsActive:      true,
	}
}

func ptr(id int64) *int64 { return &id }

func TestCalendarPlacement(t *testing.T) {
	shifts := []*domain.Shift{
		newShift(1, 2, 9, 90*time.Minute, nil),
		newShift(2, 2, 9, 30*time.Minute, nil),
		newShift(3, 6, 23, 2*time.Hour, nil), // 周日深夜，跨到下周一
	}

	grid := Calendar(shifts, weekStart)

	blocks := grid[2][9]
	if len(blocks) != 2 {
		t.Fatalf("周三 9 点槽位应有 2 个块，实际 %d 个", len(blocks))
	}

	// 同一槽位按到达顺序堆叠
	if blocks[0].ShiftID != 1 || blocks[1].ShiftID != 2 {
		t.Errorf("堆叠顺序错误: %d, %d", blocks[0].ShiftID, blocks[1].ShiftID)
	}

	// 90 分钟的班次宽度收敛到 1.0
	if blocks[0].WidthFrac != 1.0 {
		t.Errorf("90 分钟班次的宽度 = %v, want 1.0", blocks[0].WidthFrac)
	}
	if blocks[1].WidthFrac != 0.5 {
		t.Errorf("30 分钟班次的宽度 = %v, want 0.5", blocks[1].WidthFrac)
	}

	// 班次只出现在开始的小时槽位中，不会重复出现在后续小时
	if len(grid[2][10]) != 0 {
		t.Errorf("周三 10 点槽位不应有块")
	}

	// 跨夜班次要带上紧凑结束标签
	night := grid[6][23]
	if len(night) != 1 || !night[0].MultiDay {
		t.Fatalf("跨夜班次缺少 MultiDay 标记: %+v", night)
	}
	if night[0].EndLabel != "01-20 01:00" {
		t.Errorf("跨夜班次的结束标签 = %q", night[0].EndLabel)
	}
}

func TestCalendarDropsOutOfWeekShifts(t *testing.T) {
	shifts := []*domain.Shift{
		newShift(1, -1, 9, time.Hour, nil), // 上周日
		newShift(2, 7, 9, time.Hour, nil),  // 下周一
		newShift(3, 0, 9, time.Hour, nil),
	}

	grid := Calendar(shifts, weekStart)

	total := 0
	for day := 0; day < DaysPerWeek; day++ {
		for hour := 0; hour < HoursPerDay; hour++ {
			total += len(grid[day][hour])
		}
	}

	// 不在本周的班次被丢弃，而不是收敛到边界列
	if total != 1 {
		t.Fatalf("网格中应只剩 1 个块，实际 %d 个", total)
	}
	if len(grid[0][9]) != 1 || grid[0][9][0].ShiftID != 3 {
		t.Errorf("本周内的班次放置错误")
	}
}

func TestUserGridWidths(t *testing.T) {
	shifts := []*domain.Shift{
		newShift(1, 0, 8, 6*time.Hour, ptr(42)),
		newShift(2, 1, 8, time.Hour, ptr(42)),
		newShift(3, 2, 8, 30*time.Hour, ptr(42)),
	}

	rows := UserGrid(shifts, weekStart)

	// 一行员工 + 末尾的未指派行
	if len(rows) != 2 {
		t.Fatalf("应有 2 行，实际 %d 行", len(rows))
	}

	row := rows[0]
	if row.AssigneeID == nil || *row.AssigneeID != 42 {
		t.Fatalf("第一行应属于员工 42")
	}

	// 6 小时按整天折算为 0.25
	if got := row.Cells[0][0].WidthFrac; got != 0.25 {
		t.Errorf("6 小时班次的宽度 = %v, want 0.25", got)
	}
	// 1 小时不足下限，收敛到 0.40
	if got := row.Cells[1][0].WidthFrac; got != 0.40 {
		t.Errorf("1 小时班次的宽度 = %v, want 0.40", got)
	}
	// 30 小时超过整天，收敛到 1.0
	if got := row.Cells[2][0].WidthFrac; got != 1.0 {
		t.Errorf("30 小时班次的宽度 = %v, want 1.0", got)
	}
}

func TestUserGridUnassignedRow(t *testing.T) {
	shifts := []*domain.Shift{
		newShift(1, 0, 8, 2*time.Hour, ptr(1)),
		newShift(2, 0, 10, 2*time.Hour, nil),
		newShift(3, 4, 10, 2*time.Hour, nil),
		newShift(4, 1, 9, 2*time.Hour, ptr(2)),
	}

	rows := UserGrid(shifts, weekStart)

	if len(rows) != 3 {
		t.Fatalf("应有 3 行，实际 %d 行", len(rows))
	}

	// 行序与员工首次出现的顺序一致
	if *rows[0].AssigneeID != 1 || *rows[1].AssigneeID != 2 {
		t.Errorf("员工行顺序错误")
	}

	last := rows[len(rows)-1]
	if last.AssigneeID != nil {
		t.Fatalf("末尾应是未指派行")
	}
	if len(last.Cells[0]) != 1 || len(last.Cells[4]) != 1 {
		t.Errorf("未指派行应收集全部开放班次: %+v", last.Cells)
	}
}

func TestListStableSort(t *testing.T) {
	sameStart := weekStart.Add(9 * time.Hour)
	shifts := []*domain.Shift{
		{ID: 1, StartTime: weekStart.Add(12 * time.Hour), EndTime: weekStart.Add(14 * time.Hour)},
		{ID: 2, StartTime: sameStart, EndTime: sameStart.Add(time.Hour)},
		{ID: 3, StartTime: sameStart, EndTime: sameStart.Add(2 * time.Hour)},
		{ID: 4, StartTime: weekStart.Add(8 * time.Hour), EndTime: weekStart.Add(9 * time.Hour)},
	}

	ordered := List(shifts)

	want := []int64{4, 2, 3, 1}
	for i, shift := range ordered {
		if shift.ID != want[i] {
			t.Fatalf("排序结果 = %v, want %v", ids(ordered), want)
		}
	}

	// 原切片不应被改动
	if shifts[0].ID != 1 {
		t.Errorf("List 修改了输入切片")
	}
}

func ids(shifts []*domain.Shift) []int64 {
	out := make([]int64, len(shifts))
	for i, s := range shifts {
		out[i] = s.ID
	}
	return out
}

func TestMatrix(t *testing.T) {
	shifts := []*domain.Shift{
		newShift(1, 0, 22, 4*time.Hour, ptr(7)), // 跨夜
		newShift(2, 3, 9, 3*time.Hour, nil),
		newShift(3, 9, 9, 3*time.Hour, ptr(7)), // 不在本周
	}

	view := Matrix(shifts, weekStart)

	if !view.WeekStart.Equal(weekStart) {
		t.Errorf("WeekStart = %v", view.WeekStart)
	}
	if len(view.Rows) != 2 {
		t.Fatalf("应有 2 行，实际 %d 行", len(view.Rows))
	}

	cell := view.Rows[0].Cells[0][0]
	if cell.StartLabel != "22:00" || !cell.MultiDay {
		t.Errorf("跨夜单元格错误: %+v", cell)
	}
	if cell.EndLabel != "01-14 02:00" {
		t.Errorf("跨夜单元格的结束标签 = %q", cell.EndLabel)
	}

	unassigned := view.Rows[1]
	if unassigned.AssigneeID != nil || len(unassigned.Cells[3]) != 1 {
		t.Errorf("未指派行错误: %+v", unassigned)
	}
}
