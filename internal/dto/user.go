package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID              string            `json:"id"`
	FullName        string            `json:"full_name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone,omitempty"`
	Role            string            `json:"role"`
	Level           string            `json:"level"`
	ReputationScore int               `json:"reputation_score"`
	IsApproved      bool              `json:"is_approved"`
	IsBanned        bool              `json:"is_banned"`
	Institution     *InstitutionBrief `json:"institution,omitempty"`
	CreatedAt       string            `json:"created_at,omitempty"`
}

// ProfileResponse 用户资料响应
type ProfileResponse struct {
	User              UserResponse `json:"user"`
	Bio               string       `json:"bio,omitempty"`
	City              string       `json:"city,omitempty"`
	District          string       `json:"district,omitempty"`
	ProfilePictureURL string       `json:"profile_picture_url,omitempty"`
}

// UpdateProfileRequest 编辑资料请求（仅更新非 nil 字段）
type UpdateProfileRequest struct {
	FullName          *string `json:"full_name"           binding:"omitempty,min=2,max=100"`
	Phone             *string `json:"phone"               binding:"omitempty,tr_phone"`
	Bio               *string `json:"bio"                 binding:"omitempty,max=1000"`
	City              *string `json:"city"                binding:"omitempty,max=100"`
	District          *string `json:"district"            binding:"omitempty,max=100"`
	ProfilePictureURL *string `json:"profile_picture_url" binding:"omitempty,max=255"`
}

// UserListRequest 用户列表查询参数（管理员）
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=citizen institution_rep moderator admin"`
	Status  string `form:"status"  binding:"omitempty,oneof=active banned pending_approval"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}
