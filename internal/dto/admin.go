package dto

// ── 管理模块 DTO ──

// DashboardResponse 管理面板总览
type DashboardResponse struct {
	TotalUsers          int64             `json:"total_users"`
	TotalComplaints     int64             `json:"total_complaints"`
	PendingModeration   int64             `json:"pending_moderation"`
	ResolvedComplaints  int64             `json:"resolved_complaints"`
	BannedUsers         int64             `json:"banned_users"`
	ComplaintsByStatus  map[string]int64  `json:"complaints_by_status"`
	ComplaintsByType    map[string]int64  `json:"complaints_by_type"`
	RecentComplaints    []ComplaintResponse `json:"recent_complaints,omitempty"`
}

// BanUserRequest 封禁用户请求
type BanUserRequest struct {
	Reason string `json:"reason" binding:"required,min=2,max=1000"`
	Days   int    `json:"days"   binding:"omitempty,min=1,max=3650"`
}

// AssignModeratorRequest 指派审核员请求
type AssignModeratorRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// ReportRequest 统计报表查询参数
type ReportRequest struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// MonthlyCount 月度统计项
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// InstitutionReportRow 机构维度报表行
type InstitutionReportRow struct {
	InstitutionName string  `json:"institution_name"`
	Total           int64   `json:"total"`
	Resolved        int64   `json:"resolved"`
	ResolveRate     float64 `json:"resolve_rate"`
	AvgResolveDays  float64 `json:"avg_resolve_days"`
}

// CategoryCount 类别统计项
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// TopCitizenRow 活跃市民榜行
type TopCitizenRow struct {
	UserID          string `json:"user_id"`
	FullName        string `json:"full_name"`
	ComplaintCount  int64  `json:"complaint_count"`
	ReputationScore int    `json:"reputation_score"`
	Level           string `json:"level"`
}

// ReportResponse 统计报表响应
type ReportResponse struct {
	Monthly      []MonthlyCount         `json:"monthly"`
	Institutions []InstitutionReportRow `json:"institutions"`
	Categories   []CategoryCount        `json:"categories"`
	TopCitizens  []TopCitizenRow        `json:"top_citizens"`
}

// AuditLogResponse 审计日志响应
type AuditLogResponse struct {
	ID         string     `json:"id"`
	Action     string     `json:"action"`
	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id,omitempty"`
	Detail     string     `json:"detail,omitempty"`
	Actor      *UserBrief `json:"actor,omitempty"`
	CreatedAt  string     `json:"created_at"`
}

// AuditLogListRequest 审计日志查询参数
type AuditLogListRequest struct {
	PaginationRequest
	Action     string `form:"action"      binding:"omitempty,max=100"`
	EntityType string `form:"entity_type" binding:"omitempty,max=100"`
	ActorID    string `form:"actor_id"    binding:"omitempty,uuid"`
}
