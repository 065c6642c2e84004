package dto

// ── 审核模块 DTO ──

// RejectComplaintRequest 驳回投诉请求
type RejectComplaintRequest struct {
	Reason string `json:"reason" binding:"required,min=2,max=1000"`
}

// WarnUserRequest 警告用户请求
type WarnUserRequest struct {
	Reason      string  `json:"reason"       binding:"required,min=2,max=1000"`
	ComplaintID *string `json:"complaint_id" binding:"omitempty,uuid"`
}

// WarnUserResponse 警告结果响应
// Sanction 为本次触发的处置档位
type WarnUserResponse struct {
	WarningID    string  `json:"warning_id"`
	WarningCount int     `json:"warning_count"`
	Sanction     string  `json:"sanction"`
	BannedUntil  *string `json:"banned_until,omitempty"`
}

// WarningResponse 警告记录响应
type WarningResponse struct {
	ID          string     `json:"id"`
	Reason      string     `json:"reason"`
	ComplaintID *string    `json:"complaint_id,omitempty"`
	IssuedBy    *UserBrief `json:"issued_by,omitempty"`
	CreatedAt   string     `json:"created_at"`
}
