package domain

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type ShiftRequest struct {
	ID          int64         `json:"id"`
	ShiftID     int64         `json:"shiftID"`
	StaffID     int64         `json:"staffID"`
	Status      RequestStatus `json:"status"`
	StaffNote   string        `json:"staffNote"`
	AdminNote   string        `json:"adminNote"`
	ResponderID *int64        `json:"responderID"` // 处理前为 nil
	RespondedAt *time.Time    `json:"respondedAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	Version     int32         `json:"-"`
}

// Resolved 申请一旦离开 pending 状态就不允许再变更
func (r *ShiftRequest) Resolved() bool {
	return r.Status != RequestPending
}
