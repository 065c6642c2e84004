package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
// 机构代表注册需额外提供 institution_id + institution_code，且需管理员审核
type RegisterRequest struct {
	FullName        string `json:"full_name"        binding:"required,min=2,max=100"`
	Email           string `json:"email"            binding:"required,email"`
	Phone           string `json:"phone"            binding:"omitempty,tr_phone"`
	Password        string `json:"password"         binding:"required,min=8,max=64"`
	Role            string `json:"role"             binding:"required,oneof=citizen institution_rep"`
	InstitutionID   string `json:"institution_id"   binding:"omitempty,uuid"`
	InstitutionCode string `json:"institution_code" binding:"omitempty,max=20"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email      string `json:"email"    binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	PendingApproval bool   `json:"pending_approval"` // 机构代表需等待管理员审核
}
