package domain

import "time"

type ShiftTask struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

type Shift struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Location      string      `json:"location"`
	StartTime     time.Time   `json:"startTime"`
	EndTime       time.Time   `json:"endTime"` // 结束时间允许落在开始时间之后的日历日（跨夜班次）
	RequiredStaff int32       `json:"requiredStaff"`
	AssigneeID    *int64      `json:"assigneeID"` // 为 nil 时表示开放班次
	Color         string      `json:"color"`
	Tasks         []ShiftTask `json:"tasks"`
	IsActive      bool        `json:"isActive"`
	CreatedAt     time.Time   `json:"createdAt"`
	Version       int32       `json:"-"`
}

func (s *Shift) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// IsMultiDay 判断班次是否跨夜，即结束时间是否落在开始时间之后的日历日
func (s *Shift) IsMultiDay() bool {
	sy, sm, sd := s.StartTime.Date()
	ey, em, ed := s.EndTime.Date()
	return sy != ey || sm != em || sd != ed
}

type AssignmentStatus string

const (
	AssignmentOpen     AssignmentStatus = "open"
	AssignmentAssigned AssignmentStatus = "assigned"
	AssignmentFilled   AssignmentStatus = "filled"
)

type AssignmentState struct {
	Status        AssignmentStatus `json:"status"`
	AssigneeID    *int64           `json:"assigneeID"`
	ApprovedCount int32            `json:"approvedCount"`
}

// ResolveAssignmentState 根据权威字段一次性计算出班次的指派状态，
// 调用方不应该再各自从可选字段里临时推断
func ResolveAssignmentState(s *Shift, approvedCount int32) AssignmentState {
	state := AssignmentState{
		AssigneeID:    s.AssigneeID,
		ApprovedCount: approvedCount,
	}

	switch {
	case approvedCount >= s.RequiredStaff:
		state.Status = AssignmentFilled
	case s.AssigneeID != nil || approvedCount > 0:
		state.Status = AssignmentAssigned
	default:
		state.Status = AssignmentOpen
	}

	return state
}

// Requestable 只有未被直接指派且还有空余名额的班次才可以被申请
func Requestable(s *Shift, approvedCount int32) bool {
	return s.AssigneeID == nil && approvedCount < s.RequiredStaff
}
