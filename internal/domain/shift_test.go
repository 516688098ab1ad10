package domain

import (
	"testing"
	"time"
)

func ptr(v int64) *int64 { return &v }

func TestResolveAssignmentState(t *testing.T) {
	tests := []struct {
		name     string
		shift    *Shift
		approved int32
		want     AssignmentStatus
	}{
		{"无人申请的开放班次", &Shift{RequiredStaff: 2}, 0, AssignmentOpen},
		{"部分批准", &Shift{RequiredStaff: 2}, 1, AssignmentAssigned},
		{"名额已满", &Shift{RequiredStaff: 2}, 2, AssignmentFilled},
		{"直接指派", &Shift{RequiredStaff: 1, AssigneeID: ptr(42)}, 0, AssignmentAssigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := ResolveAssignmentState(tt.shift, tt.approved)
			if state.Status != tt.want {
				t.Errorf("status = %v, want %v", state.Status, tt.want)
			}
			if state.ApprovedCount != tt.approved {
				t.Errorf("approvedCount = %d, want %d", state.ApprovedCount, tt.approved)
			}
		})
	}
}

func TestRequestable(t *testing.T) {
	if Requestable(&Shift{RequiredStaff: 1, AssigneeID: ptr(42)}, 0) {
		t.Error("直接指派的班次不应该可以申请")
	}
	if Requestable(&Shift{RequiredStaff: 2}, 2) {
		t.Error("名额已满的班次不应该可以申请")
	}
	if !Requestable(&Shift{RequiredStaff: 2}, 1) {
		t.Error("还有空余名额的开放班次应该可以申请")
	}
}

func TestIsMultiDay(t *testing.T) {
	start := time.Date(2025, 1, 19, 22, 0, 0, 0, time.Local)

	overnight := &Shift{StartTime: start, EndTime: start.Add(4 * time.Hour)}
	if !overnight.IsMultiDay() {
		t.Error("跨过午夜的班次应该是跨夜班次")
	}

	sameDay := &Shift{StartTime: start, EndTime: start.Add(time.Hour)}
	if sameDay.IsMultiDay() {
		t.Error("当天结束的班次不应该是跨夜班次")
	}
}
