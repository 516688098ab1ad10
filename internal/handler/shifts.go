package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/lifecycle"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/period"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/utils"
)

type shiftPayload struct {
	Title         string             `json:"title" validate:"required"`
	Location      string             `json:"location" validate:"required"`
	StartTime     time.Time          `json:"startTime" validate:"required"`
	EndTime       time.Time          `json:"endTime" validate:"required"`
	RequiredStaff int32              `json:"requiredStaff" validate:"required,min=1"`
	AssigneeID    *int64             `json:"assigneeID"`
	Color         string             `json:"color"`
	Tasks         []domain.ShiftTask `json:"tasks"`
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shiftPayload

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := &domain.Shift{
		Title:         req.Title,
		Location:      req.Location,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		RequiredStaff: req.RequiredStaff,
		AssigneeID:    req.AssigneeID,
		Color:         req.Color,
		Tasks:         req.Tasks,
	}
	if shift.Tasks == nil {
		shift.Tasks = []domain.ShiftTask{}
	}

	if err := utils.ValidateShiftTime(shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShift(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次成功", shift)
}

// GetShifts 按时间范围获取班次，start 和 end 为 YYYY-MM-DD，
// 不传时默认返回本周
func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
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

	h.successResponse(w, r, "获取班次列表成功", shifts)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	approved, err := h.repository.CountApprovedRequests(shift.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次成功", struct {
		Shift           *domain.Shift          `json:"shift"`
		AssignmentState domain.AssignmentState `json:"assignmentState"`
	}{
		Shift:           shift,
		AssignmentState: domain.ResolveAssignmentState(shift, approved),
	})
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		Title         *string             `json:"title"`
		Location      *string             `json:"location"`
		StartTime     *time.Time          `json:"startTime"`
		EndTime       *time.Time          `json:"endTime"`
		RequiredStaff *int32              `json:"requiredStaff"`
		AssigneeID    *int64              `json:"assigneeID"`
		Color         *string             `json:"color"`
		Tasks         *[]domain.ShiftTask `json:"tasks"`
		IsActive      *bool               `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Title != nil {
		shift.Title = *req.Title
	}
	if req.Location != nil {
		shift.Location = *req.Location
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.RequiredStaff != nil {
		if *req.RequiredStaff < 1 {
			h.errorResponse(w, r, "所需人数至少为 1")
			return
		}
		shift.RequiredStaff = *req.RequiredStaff
	}
	if req.AssigneeID != nil {
		shift.AssigneeID = req.AssigneeID
	}
	if req.Color != nil {
		shift.Color = *req.Color
	}
	if req.Tasks != nil {
		shift.Tasks = *req.Tasks
	}
	if req.IsActive != nil {
		shift.IsActive = *req.IsActive
	}

	if err := utils.ValidateShiftTime(shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateShift(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班次成功", shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if err := h.repository.DeleteShift(shift.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次成功", nil)
}

// GetOpenShifts 获取当前可申请的开放班次，
// range 参数支持 today / week / month / all，sort 支持 startAsc / durationDesc
func (h *Handler) GetOpenShifts(w http.ResponseWriter, r *http.Request) {
	filter := lifecycle.OpenShiftFilter{
		Range: lifecycle.RangeFilter(r.URL.Query().Get("range")),
		Sort:  lifecycle.SortOrder(r.URL.Query().Get("sort")),
	}
	if filter.Range == "" {
		filter.Range = lifecycle.RangeAll
	}

	shifts, approved, err := h.repository.GetOpenCandidateShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	open := lifecycle.OpenShifts(shifts, approved, filter, time.Now())

	h.successResponse(w, r, "获取开放班次成功", open)
}

// BulkDeleteShifts 按用户选择的删除范围批量删除班次
func (h *Handler) BulkDeleteShifts(w http.ResponseWriter, r *http.Request) {
	var sel period.Selection

	if err := h.readJSON(r, &sel); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(sel); err != nil {
		h.badRequest(w, r, err)
		return
	}

	criteria, err := period.Resolve(&sel, time.Now())
	if err != nil {
		h.businessError(w, r, err)
		return
	}

	deleted, err := h.repository.BulkDeleteShifts(criteria)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShiftsInProgress):
			h.errorResponse(w, r, "所选范围内存在已开始的班次，如确认删除请使用强制删除")
		default:
			h.businessError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "批量删除班次成功", struct {
		Deleted int64 `json:"deleted"`
	}{Deleted: deleted})
}
