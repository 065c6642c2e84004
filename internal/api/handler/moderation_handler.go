package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/service"
	"kamu-koprusu/backend/pkg/response"
)

// ModerationHandler 审核模块 HTTP 处理器
type ModerationHandler struct {
	moderationSvc service.ModerationService
}

// NewModerationHandler 创建 ModerationHandler
func NewModerationHandler(moderationSvc service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationSvc: moderationSvc}
}

// ListPending 待审核队列
// GET /api/v1/moderation/pending
func (h *ModerationHandler) ListPending(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	complaints, total, err := h.moderationSvc.ListPending(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, complaints, total, page.GetPage(), page.GetPageSize())
}

// Approve 审核通过
// POST /api/v1/moderation/complaints/:id/approve
func (h *ModerationHandler) Approve(c *gin.Context) {
	moderatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.moderationSvc.Approve(c.Request.Context(), moderatorID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrComplaintNotFound):
			response.NotFound(c, 30001, "投诉不存在")
		case errors.Is(err, service.ErrComplaintNotPending):
			response.Conflict(c, 30003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// Reject 驳回投诉
// POST /api/v1/moderation/complaints/:id/reject
func (h *ModerationHandler) Reject(c *gin.Context) {
	moderatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RejectComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.moderationSvc.Reject(c.Request.Context(), moderatorID, c.Param("id"), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrComplaintNotFound):
			response.NotFound(c, 30001, "投诉不存在")
		case errors.Is(err, service.ErrComplaintNotPending):
			response.Conflict(c, 30003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// WarnUser 警告用户（触发升级阶梯）
// POST /api/v1/moderation/users/:id/warn
func (h *ModerationHandler) WarnUser(c *gin.Context) {
	moderatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.WarnUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.moderationSvc.IssueWarning(c.Request.Context(), moderatorID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "用户不存在")
		case errors.Is(err, service.ErrCannotWarnPrivileged):
			response.Forbidden(c, 10003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ListUserWarnings 查看指定用户的警告记录
// GET /api/v1/moderation/users/:id/warnings
func (h *ModerationHandler) ListUserWarnings(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	warnings, total, err := h.moderationSvc.ListWarnings(c.Request.Context(), c.Param("id"), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, warnings, total, page.GetPage(), page.GetPageSize())
}
