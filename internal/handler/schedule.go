package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/layout"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/timegrid"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/utils"
)

// weekShifts 取出 week 参数所在周的班次，week 为该周内任意一天（YYYY-MM-DD），
// 缺省为当前周。出错时直接写响应并返回 false
func (h *Handler) weekShifts(w http.ResponseWriter, r *http.Request) ([]*domain.Shift, time.Time, bool) {
	reference := time.Now()

	if param := r.URL.Query().Get("week"); param != "" {
		parsed, err := time.ParseInLocation("2006-01-02", param, time.Local)
		if err != nil {
			h.errorResponse(w, r, "周参数无效")
			return nil, time.Time{}, false
		}
		reference = parsed
	}

	weekStart := timegrid.WeekStart(reference)
	shifts, err := h.repository.GetShiftsByRange(weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		h.internalServerError(w, r, err)
		return nil, time.Time{}, false
	}

	return shifts, weekStart, true
}

func (h *Handler) GetCalendarView(w http.ResponseWriter, r *http.Request) {
	shifts, weekStart, ok := h.weekShifts(w, r)
	if !ok {
		return
	}

	h.successResponse(w, r, "获取日历视图成功", struct {
		WeekStart time.Time           `json:"weekStart"`
		Grid      layout.CalendarGrid `json:"grid"`
	}{
		WeekStart: weekStart,
		Grid:      layout.Calendar(shifts, weekStart),
	})
}

func (h *Handler) GetUserGridView(w http.ResponseWriter, r *http.Request) {
	shifts, weekStart, ok := h.weekShifts(w, r)
	if !ok {
		return
	}

	h.successResponse(w, r, "获取员工视图成功", struct {
		WeekStart time.Time        `json:"weekStart"`
		Rows      []layout.UserRow `json:"rows"`
	}{
		WeekStart: weekStart,
		Rows:      layout.UserGrid(shifts, weekStart),
	})
}

// GetListView 返回按开始时间升序的班次列表，start / end 为 YYYY-MM-DD
func (h *Handler) GetListView(w http.ResponseWriter, r *http.Request) {
	start, end, err := utils.ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		h.errorResponse(w, r, "时间范围无效")
		return
	}

	shifts, err := h.repository.GetShiftsByRange(start, end)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取列表视图成功", layout.List(shifts))
}

func (h *Handler) GetMatrixView(w http.ResponseWriter, r *http.Request) {
	shifts, weekStart, ok := h.weekShifts(w, r)
	if !ok {
		return
	}

	h.successResponse(w, r, "获取矩阵视图成功", layout.Matrix(shifts, weekStart))
}
