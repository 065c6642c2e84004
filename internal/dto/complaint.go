package dto

// ── 投诉模块 DTO ──

// MediaInput 附件元数据输入（文件内容另行存储，不经过本服务）
type MediaInput struct {
	Type          string `json:"type"            binding:"required,oneof=image video document"`
	FileName      string `json:"file_name"       binding:"required,max=255"`
	FilePath      string `json:"file_path"       binding:"required,max=500"`
	FileSizeBytes int64  `json:"file_size_bytes" binding:"omitempty,min=0"`
}

// CreateComplaintRequest 创建投诉请求
type CreateComplaintRequest struct {
	Title         string       `json:"title"          binding:"required,min=5,max=200"`
	Description   string       `json:"description"    binding:"required,min=20"`
	Type          string       `json:"type"           binding:"required,oneof=crime religion health education transportation infrastructure environment social_services other"`
	Category      string       `json:"category"       binding:"omitempty,max=100"`
	InstitutionID string       `json:"institution_id" binding:"required,uuid"`
	IsAnonymous   bool         `json:"is_anonymous"`
	Location      string       `json:"location"       binding:"omitempty,max=255"`
	Latitude      *float64     `json:"latitude"       binding:"omitempty,min=-90,max=90"`
	Longitude     *float64     `json:"longitude"      binding:"omitempty,min=-180,max=180"`
	Media         []MediaInput `json:"media"          binding:"omitempty,max=10,dive"`
}

// EditComplaintRequest 编辑投诉请求（仅待审核状态允许）
type EditComplaintRequest struct {
	Title       *string  `json:"title"       binding:"omitempty,min=5,max=200"`
	Description *string  `json:"description" binding:"omitempty,min=20"`
	Category    *string  `json:"category"    binding:"omitempty,max=100"`
	Location    *string  `json:"location"    binding:"omitempty,max=255"`
	Latitude    *float64 `json:"latitude"    binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude"   binding:"omitempty,min=-180,max=180"`
}

// ComplaintListRequest 投诉列表查询参数
type ComplaintListRequest struct {
	PaginationRequest
	Status        string `form:"status"         binding:"omitempty,oneof=pending_moderation rejected new viewed in_progress resolved closed"`
	Type          string `form:"type"           binding:"omitempty,oneof=crime religion health education transportation infrastructure environment social_services other"`
	Category      string `form:"category"       binding:"omitempty,max=100"`
	Keyword       string `form:"keyword"        binding:"omitempty,max=100"`
	InstitutionID string `form:"institution_id" binding:"omitempty,uuid"`
	StartDate     string `form:"start_date"     binding:"omitempty,datetime=2006-01-02"`
	EndDate       string `form:"end_date"       binding:"omitempty,datetime=2006-01-02"`
}

// UpdateStatusRequest 机构侧状态更新请求
type UpdateStatusRequest struct {
	NewStatus string `json:"new_status" binding:"required,oneof=viewed in_progress resolved closed"`
	Message   string `json:"message"    binding:"required,min=2,max=2000"`
}

// ── 投诉模块响应 ──

// MediaResponse 附件元数据响应
type MediaResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	FileName      string `json:"file_name"`
	FilePath      string `json:"file_path"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// ComplaintUpdateResponse 处理记录响应
type ComplaintUpdateResponse struct {
	ID        string     `json:"id"`
	Message   string     `json:"message"`
	NewStatus string     `json:"new_status"`
	UpdatedBy *UserBrief `json:"updated_by,omitempty"`
	CreatedAt string     `json:"created_at"`
}

// ComplaintResponse 投诉列表项响应
// 匿名投诉对外隐藏提交者
type ComplaintResponse struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Type            string            `json:"type"`
	Category        string            `json:"category,omitempty"`
	Status          string            `json:"status"`
	IsAnonymous     bool              `json:"is_anonymous"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	Location        string            `json:"location,omitempty"`
	Institution     *InstitutionBrief `json:"institution,omitempty"`
	Submitter       *UserBrief        `json:"submitter,omitempty"`
	MediaCount      int               `json:"media_count"`
	CreatedAt       string            `json:"created_at"`
	ResolvedAt      *string           `json:"resolved_at,omitempty"`
}

// ComplaintDetailResponse 投诉详情响应
type ComplaintDetailResponse struct {
	ComplaintResponse
	Description string                    `json:"description"`
	Latitude    *float64                  `json:"latitude,omitempty"`
	Longitude   *float64                  `json:"longitude,omitempty"`
	MediaFiles  []MediaResponse           `json:"media_files,omitempty"`
	Updates     []ComplaintUpdateResponse `json:"updates,omitempty"`
}
