package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/service"
	"kamu-koprusu/backend/pkg/response"
)

// ComplaintHandler 投诉模块 HTTP 处理器
type ComplaintHandler struct {
	complaintSvc service.ComplaintService
}

// NewComplaintHandler 创建 ComplaintHandler
func NewComplaintHandler(complaintSvc service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintSvc: complaintSvc}
}

// Create 创建投诉
// POST /api/v1/complaints
func (h *ComplaintHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.complaintSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInstitutionNotFound):
			response.BadRequest(c, 10001, err.Error())
		case errors.Is(err, service.ErrSubmitterBanned):
			response.Forbidden(c, 10003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ListMine 本人投诉列表
// GET /api/v1/complaints/my
func (h *ComplaintHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ComplaintListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	complaints, total, err := h.complaintSvc.ListMine(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, complaints, total, req.GetPage(), req.GetPageSize())
}

// ListPublic 公开投诉列表（仅审核通过）
// GET /api/v1/complaints
func (h *ComplaintHandler) ListPublic(c *gin.Context) {
	var req dto.ComplaintListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	complaints, total, err := h.complaintSvc.ListPublic(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, complaints, total, req.GetPage(), req.GetPageSize())
}

// GetDetail 投诉详情
// GET /api/v1/complaints/:id
// 登录用户按身份放宽可见范围，未登录仅可见审核通过的投诉
func (h *ComplaintHandler) GetDetail(c *gin.Context) {
	var viewer *service.Viewer
	if userID, exists := c.Get("user_id"); exists {
		role, _ := c.Get("role")
		instID, _ := c.Get("institution_id")
		viewer = &service.Viewer{
			UserID:        userID.(string),
			Role:          model.UserRole(role.(string)),
			InstitutionID: instID.(string),
		}
	}

	result, err := h.complaintSvc.GetDetail(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrComplaintNotFound):
			response.NotFound(c, 30001, "投诉不存在")
		case errors.Is(err, service.ErrComplaintNotVisible):
			response.Forbidden(c, 10003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Edit 编辑投诉（仅待审核状态）
// PUT /api/v1/complaints/:id
func (h *ComplaintHandler) Edit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EditComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.complaintSvc.Edit(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrComplaintNotFound):
			response.NotFound(c, 30001, "投诉不存在")
		case errors.Is(err, service.ErrNotComplaintOwner):
			response.Forbidden(c, 10003, err.Error())
		case errors.Is(err, service.ErrComplaintNotEditable):
			response.Conflict(c, 30002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Cancel 撤回投诉（仅待审核状态）
// DELETE /api/v1/complaints/:id
func (h *ComplaintHandler) Cancel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.complaintSvc.Cancel(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrComplaintNotFound):
			response.NotFound(c, 30001, "投诉不存在")
		case errors.Is(err, service.ErrNotComplaintOwner):
			response.Forbidden(c, 10003, err.Error())
		case errors.Is(err, service.ErrComplaintNotEditable):
			response.Conflict(c, 30002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// ListTypes 投诉类型列表（公开）
// GET /api/v1/complaints/types
func (h *ComplaintHandler) ListTypes(c *gin.Context) {
	response.OK(c, model.AllComplaintTypes())
}
