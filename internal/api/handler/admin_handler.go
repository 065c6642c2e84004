package handler

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/service"
	"kamu-koprusu/backend/pkg/response"
)

// AdminHandler 管理模块 HTTP 处理器
type AdminHandler struct {
	adminSvc  service.AdminService
	auditSvc  service.AuditService
	exportSvc service.ExportService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(adminSvc service.AdminService, auditSvc service.AuditService, exportSvc service.ExportService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, auditSvc: auditSvc, exportSvc: exportSvc}
}

// Dashboard 管理面板总览
// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	result, err := h.adminSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListUsers 用户列表
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, total, err := h.adminSvc.ListUsers(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// ApproveUser 审核通过机构代表
// POST /api/v1/admin/users/:id/approve
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.ApproveUser(c.Request.Context(), adminID, c.Param("id")); err != nil {
		h.writeUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// BanUser 封禁用户
// POST /api/v1/admin/users/:id/ban
func (h *AdminHandler) BanUser(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.BanUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.adminSvc.BanUser(c.Request.Context(), adminID, c.Param("id"), &req); err != nil {
		h.writeUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// UnbanUser 解封用户
// POST /api/v1/admin/users/:id/unban
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.UnbanUser(c.Request.Context(), adminID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrUserNotBanned) {
			response.Conflict(c, 20004, err.Error())
			return
		}
		h.writeUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeleteUser 注销用户（匿名化 + 永久封禁快照）
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.DeleteUser(c.Request.Context(), adminID, c.Param("id")); err != nil {
		h.writeUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignModerator 指派审核员
// POST /api/v1/admin/moderators
func (h *AdminHandler) AssignModerator(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignModeratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.adminSvc.AssignModerator(c.Request.Context(), adminID, req.UserID); err != nil {
		if errors.Is(err, service.ErrNotCitizenRole) {
			response.Conflict(c, 20005, err.Error())
			return
		}
		h.writeUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// RemoveModerator 撤销审核员
// DELETE /api/v1/admin/moderators/:id
func (h *AdminHandler) RemoveModerator(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.RemoveModerator(c.Request.Context(), adminID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotModeratorRole) {
			response.Conflict(c, 20006, err.Error())
			return
		}
		h.writeUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeleteComplaint 删除投诉
// DELETE /api/v1/admin/complaints/:id
func (h *AdminHandler) DeleteComplaint(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.DeleteComplaint(c.Request.Context(), adminID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrComplaintNotFound) {
			response.NotFound(c, 30001, "投诉不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// Report 统计报表
// GET /api/v1/admin/reports
func (h *AdminHandler) Report(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.adminSvc.Report(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ExportReport 导出统计报表 (.xlsx)
// GET /api/v1/admin/reports/export
func (h *AdminHandler) ExportReport(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportReport(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrExportNoData) {
			response.NotFound(c, 50001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ListAuditLogs 审计日志
// GET /api/v1/admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	var req dto.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	logs, total, err := h.auditSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}

// writeUserError 用户操作的通用错误映射
func (h *AdminHandler) writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "用户不存在")
	case errors.Is(err, service.ErrCannotModifyAdmin):
		response.Forbidden(c, 10003, err.Error())
	default:
		response.InternalError(c)
	}
}
