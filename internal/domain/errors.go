package domain

import "errors"

// 业务错误，由 repository 和 lifecycle 返回，handler 统一映射为响应消息
var (
	ErrShiftNotAvailable  = errors.New("班次不可申请")
	ErrDuplicateRequest   = errors.New("已经申请过该班次")
	ErrAlreadyResolved    = errors.New("该申请已被处理")
	ErrShiftFull          = errors.New("班次人数已满")
	ErrEmptyRejectionNote = errors.New("拒绝申请时必须填写备注")
	ErrInvalidPeriod      = errors.New("无效的删除范围")
	ErrShiftsInProgress   = errors.New("所选范围内存在已开始的班次")
)
