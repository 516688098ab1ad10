package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/lifecycle"
)

// SubmitShiftRequest 员工申请一个开放班次
func (h *Handler) SubmitShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		ShiftID int64  `json:"shiftID" validate:"required"`
		Note    string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request := &domain.ShiftRequest{
		ShiftID:   req.ShiftID,
		StaffID:   myInfo.ID,
		StaffNote: req.Note,
	}

	if err := h.repository.CreateShiftRequest(request); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次不存在")
		default:
			h.businessError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "提交申请成功", request)
}

// GetShiftRequests 获取班次申请列表，status 参数可选。
// 管理员能看到全部申请，员工只能看到自己的
func (h *Handler) GetShiftRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	status := domain.RequestStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.RequestPending, domain.RequestApproved, domain.RequestRejected:
	default:
		h.errorResponse(w, r, "无效的申请状态")
		return
	}

	var (
		requests []*domain.ShiftRequest
		err      error
	)
	if myInfo.Role == domain.RoleManager {
		requests, err = h.repository.GetShiftRequests(status)
	} else {
		requests, err = h.repository.GetShiftRequestsByStaff(myInfo.ID, status)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取申请列表成功", requests)
}

func (h *Handler) GetShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(ShiftRequestCtx).(*domain.ShiftRequest)

	if myInfo.Role != domain.RoleManager && request.StaffID != myInfo.ID {
		h.errorResponse(w, r, "权限不足")
		return
	}

	h.successResponse(w, r, "获取申请成功", request)
}

// GetShiftRequestSummary 返回各状态的申请数量，
// 数量总是对实时列表统计，不单独缓存
func (h *Handler) GetShiftRequestSummary(w http.ResponseWriter, r *http.Request) {
	requests, err := h.repository.GetShiftRequests("")
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取申请统计成功", lifecycle.CountByStatus(requests))
}

// ApproveShiftRequest 批准一个申请。并发批准同一班次时后到的请求会
// 收到「班次人数已满」，此时管理员必须重新拉取申请列表再操作
func (h *Handler) ApproveShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(ShiftRequestCtx).(*domain.ShiftRequest)

	var req struct {
		Note string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if request.Resolved() {
		h.errorResponse(w, r, domain.ErrAlreadyResolved.Error())
		return
	}

	conflicts, err := h.repository.ApproveShiftRequest(request, myInfo.ID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShiftFull):
			h.errorResponse(w, r, "班次人数已满，请刷新后重新查看申请列表")
		default:
			h.businessError(w, r, err)
		}
		return
	}

	// 异步通知申请人，邮件发送失败不影响批准结果
	h.notifyRequester(r, request, "request_approved")

	h.successResponse(w, r, "批准申请成功", struct {
		Request *domain.ShiftRequest `json:"request"`
		// 批准后已经放不下的 pending 申请，交由管理员显式处理
		Conflicts []*domain.ShiftRequest `json:"conflicts"`
	}{
		Request:   request,
		Conflicts: conflicts,
	})
}

// RejectShiftRequest 拒绝一个申请，备注必填
func (h *Handler) RejectShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(ShiftRequestCtx).(*domain.ShiftRequest)

	var req struct {
		Note string `json:"note" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := lifecycle.CheckReject(request, req.Note); err != nil {
		h.businessError(w, r, err)
		return
	}

	if err := h.repository.RejectShiftRequest(request, myInfo.ID, req.Note); err != nil {
		switch {
		// 更新不到行说明申请在这期间被并发处理了
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrAlreadyResolved.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyRequester(r, request, "request_rejected")

	h.successResponse(w, r, "拒绝申请成功", request)
}

// notifyRequester 给申请人发送处理结果邮件，失败只记日志
func (h *Handler) notifyRequester(r *http.Request, request *domain.ShiftRequest, mailType string) {
	staff, err := h.repository.GetUserByID(request.StaffID)
	if err != nil {
		h.logInternalServerError(r, err)
		return
	}

	shift, err := h.repository.GetShiftByID(request.ShiftID)
	if err != nil {
		h.logInternalServerError(r, err)
		return
	}

	var data any
	switch mailType {
	case "request_approved":
		data = domain.RequestApprovedMailData{
			FullName:   staff.FullName,
			ShiftTitle: shift.Title,
			StartTime:  shift.StartTime.Format("2006-01-02 15:04"),
			EndTime:    shift.EndTime.Format("2006-01-02 15:04"),
			AdminNote:  request.AdminNote,
		}
	case "request_rejected":
		data = domain.RequestRejectedMailData{
			FullName:   staff.FullName,
			ShiftTitle: shift.Title,
			StartTime:  shift.StartTime.Format("2006-01-02 15:04"),
			AdminNote:  request.AdminNote,
		}
	}

	if err := h.publishMail(mailType, staff.Email, data); err != nil {
		h.logInternalServerError(r, err)
	}
}
