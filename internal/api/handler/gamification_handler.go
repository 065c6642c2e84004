package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"kamu-koprusu/backend/internal/service"
	"kamu-koprusu/backend/pkg/response"
)

// GamificationHandler 激励模块 HTTP 处理器
type GamificationHandler struct {
	gamificationSvc service.GamificationService
}

// NewGamificationHandler 创建 GamificationHandler
func NewGamificationHandler(gamificationSvc service.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationSvc: gamificationSvc}
}

// ListBadges 勋章目录（公开）
// GET /api/v1/badges
func (h *GamificationHandler) ListBadges(c *gin.Context) {
	badges, err := h.gamificationSvc.ListBadges(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, badges)
}

// GetMyAchievements 当前用户成就总览
// GET /api/v1/users/me/achievements
func (h *GamificationHandler) GetMyAchievements(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	achievements, err := h.gamificationSvc.GetAchievements(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, achievements)
}
