package domain

// DeletionCriteria 批量删除班次的条件，由 period.Resolve 根据用户选择的
// 删除范围生成，不做持久化。Day / Week / Month / (StartDate, EndDate)
// 互斥，生成时保证只有一个被填充
type DeletionCriteria struct {
	Day       string `json:"day,omitempty"`   // YYYY-MM-DD
	Week      string `json:"week,omitempty"`  // ISO 周，YYYY-Www
	Month     string `json:"month,omitempty"` // YYYY-MM
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`

	AssigneeID *int64 `json:"assigneeID,omitempty"`
	Status     string `json:"status,omitempty"` // active / inactive
	Type       string `json:"type,omitempty"`   // open / assigned

	// Force 为 false 时，如果删除范围内存在已经开始的班次，整个删除操作会被拒绝
	Force bool `json:"force"`
}
