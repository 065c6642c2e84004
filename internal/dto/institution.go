package dto

// ── 机构模块 DTO ──

// InstitutionResponse 机构公开信息响应
type InstitutionResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type,omitempty"`
	City          string `json:"city,omitempty"`
	ContactEmail  string `json:"contact_email,omitempty"`
	ContactPhone  string `json:"contact_phone,omitempty"`
	Address       string `json:"address,omitempty"`
	ComplaintStat *InstitutionStat `json:"complaint_stat,omitempty"`
}

// InstitutionStat 机构处理统计
type InstitutionStat struct {
	Total       int64   `json:"total"`
	Resolved    int64   `json:"resolved"`
	ResolveRate float64 `json:"resolve_rate"`
}

// InstitutionListRequest 机构列表查询参数
type InstitutionListRequest struct {
	PaginationRequest
	City    string `form:"city"    binding:"omitempty,max=100"`
	Type    string `form:"type"    binding:"omitempty,max=100"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// UpdateInstitutionRequest 机构代表编辑本机构信息
type UpdateInstitutionRequest struct {
	ContactEmail *string `json:"contact_email" binding:"omitempty,email,max=255"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=20"`
	Address      *string `json:"address"       binding:"omitempty,max=500"`
	Description  *string `json:"description"   binding:"omitempty,max=2000"`
}
