// Package layout 把班次列表换算成各个视图的渲染描述，
// 只做纯计算，不关心具体的展示框架
package layout

import (
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/timegrid"
)

const (
	DaysPerWeek = 7
	HoursPerDay = 24

	// 员工视图中的最小宽度占比，保证短班次仍然可见
	minUserGridWidth = 0.40
)

// Block 单个班次在网格中的渲染描述
type Block struct {
	ShiftID int64  `json:"shiftID"`
	Title   string `json:"title"`
	Color   string `json:"color"`
	Day     int    `json:"day"`  // 周内列下标，周一为 0
	Hour    int    `json:"hour"` // 开始小时
	// WidthFrac 按时长折算出的宽度占比，含义随视图不同
	WidthFrac float64 `json:"widthFrac"`
	// MultiDay 为 true 时展示层应改用「结束日期 + 结束时间」的紧凑标签
	MultiDay bool   `json:"multiDay"`
	EndLabel string `json:"endLabel"`
}

// CalendarGrid 日历视图：每个 (日, 小时) 槽位内按到达顺序堆叠的块
type CalendarGrid [DaysPerWeek][HoursPerDay][]Block

func newBlock(s *domain.Shift, day int, widthFrac float64) Block {
	b := Block{
		ShiftID:   s.ID,
		Title:     s.Title,
		Color:     s.Color,
		Day:       day,
		Hour:      s.StartTime.Hour(),
		WidthFrac: widthFrac,
		MultiDay:  s.IsMultiDay(),
	}

	if b.MultiDay {
		b.EndLabel = s.EndTime.Format("01-02 15:04")
	} else {
		b.EndLabel = s.EndTime.Format("15:04")
	}

	return b
}

// weekDay 返回班次开始时间在本周内的列下标，
// 不在 [weekStart, weekStart+7d) 内的班次返回 false 并被调用方丢弃，
// 而不是被收敛到边界列上渲染成错位的残块
func weekDay(s *domain.Shift, weekStart time.Time) (int, bool) {
	day := timegrid.RawDayIndex(s.StartTime, weekStart)
	if day < 0 || day >= DaysPerWeek {
		return 0, false
	}
	return day, true
}

// Calendar 生成按小时划分的日历视图，每个班次只出现在它开始的小时槽位中，
// 宽度占比为 min(1, 时长分钟数 / 60)
func Calendar(shifts []*domain.Shift, weekStart time.Time) CalendarGrid {
	var grid CalendarGrid

	for _, s := range shifts {
		day, ok := weekDay(s, weekStart)
		if !ok {
			continue
		}

		frac := s.Duration().Minutes() / 60
		if frac > 1 {
			frac = 1
		}

		block := newBlock(s, day, frac)
		grid[day][block.Hour] = append(grid[day][block.Hour], block)
	}

	return grid
}

// UserRow 员工视图中的一行，AssigneeID 为 nil 时表示收集所有开放班次的「未指派」行
type UserRow struct {
	AssigneeID *int64               `json:"assigneeID"`
	Cells      [DaysPerWeek][]Block `json:"cells"`
}

// UserGrid 生成按员工分行的周视图，行序与班次列表中首次出现的员工顺序一致，
// 末尾固定追加未指派行。宽度占比按整天折算（时长小时数 / 24），
// 下限收敛到 0.40，上限收敛到 1.0
func UserGrid(shifts []*domain.Shift, weekStart time.Time) []UserRow {
	rows := make([]UserRow, 0)
	rowIndex := make(map[int64]int)
	unassigned := UserRow{}

	for _, s := range shifts {
		day, ok := weekDay(s, weekStart)
		if !ok {
			continue
		}

		frac := s.Duration().Hours() / HoursPerDay
		if frac < minUserGridWidth {
			frac = minUserGridWidth
		}
		if frac > 1 {
			frac = 1
		}

		block := newBlock(s, day, frac)

		if s.AssigneeID == nil {
			unassigned.Cells[day] = append(unassigned.Cells[day], block)
			continue
		}

		idx, exists := rowIndex[*s.AssigneeID]
		if !exists {
			assigneeID := *s.AssigneeID
			rows = append(rows, UserRow{AssigneeID: &assigneeID})
			idx = len(rows) - 1
			rowIndex[assigneeID] = idx
		}
		rows[idx].Cells[day] = append(rows[idx].Cells[day], block)
	}

	return append(rows, unassigned)
}

// List 返回按开始时间升序排列的班次列表，
// 开始时间相同的班次保持输入顺序（稳定排序）
func List(shifts []*domain.Shift) []*domain.Shift {
	ordered := make([]*domain.Shift, len(shifts))
	copy(ordered, shifts)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	return ordered
}

// MatrixCell 矩阵视图中的单元格条目，单元格等宽，不携带宽度占比
type MatrixCell struct {
	ShiftID    int64  `json:"shiftID"`
	Title      string `json:"title"`
	Color      string `json:"color"`
	StartLabel string `json:"startLabel"`
	EndLabel   string `json:"endLabel"`
	MultiDay   bool   `json:"multiDay"`
}

type MatrixRow struct {
	AssigneeID *int64                    `json:"assigneeID"`
	Cells      [DaysPerWeek][]MatrixCell `json:"cells"`
}

type MatrixView struct {
	WeekStart time.Time   `json:"weekStart"`
	Rows      []MatrixRow `json:"rows"`
}

// Matrix 生成员工 × 星期的矩阵视图，行序规则与 UserGrid 一致
func Matrix(shifts []*domain.Shift, weekStart time.Time) MatrixView {
	rows := make([]MatrixRow, 0)
	rowIndex := make(map[int64]int)
	unassigned := MatrixRow{}

	for _, s := range shifts {
		day, ok := weekDay(s, weekStart)
		if !ok {
			continue
		}

		cell := MatrixCell{
			ShiftID:    s.ID,
			Title:      s.Title,
			Color:      s.Color,
			StartLabel: s.StartTime.Format("15:04"),
			MultiDay:   s.IsMultiDay(),
		}
		if cell.MultiDay {
			cell.EndLabel = s.EndTime.Format("01-02 15:04")
		} else {
			cell.EndLabel = s.EndTime.Format("15:04")
		}

		if s.AssigneeID == nil {
			unassigned.Cells[day] = append(unassigned.Cells[day], cell)
			continue
		}

		idx, exists := rowIndex[*s.AssigneeID]
		if !exists {
			assigneeID := *s.AssigneeID
			rows = append(rows, MatrixRow{AssigneeID: &assigneeID})
			idx = len(rows) - 1
			rowIndex[assigneeID] = idx
		}
		rows[idx].Cells[day] = append(rows[idx].Cells[day], cell)
	}

	return MatrixView{
		WeekStart: weekStart,
		Rows:      append(rows, unassigned),
	}
}
