package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/service"
	"kamu-koprusu/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc       service.UserService
	moderationSvc service.ModerationService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, moderationSvc service.ModerationService) *UserHandler {
	return &UserHandler{userSvc: userSvc, moderationSvc: moderationSvc}
}

// GetMyProfile 获取当前用户资料
// GET /api/v1/users/me
func (h *UserHandler) GetMyProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.userSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, profile)
}

// UpdateMyProfile 编辑当前用户资料
// PUT /api/v1/users/me
func (h *UserHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	profile, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, profile)
}

// ListMyWarnings 查看本人的警告记录
// GET /api/v1/users/me/warnings
func (h *UserHandler) ListMyWarnings(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	warnings, total, err := h.moderationSvc.ListWarnings(c.Request.Context(), userID, &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, warnings, total, page.GetPage(), page.GetPageSize())
}
