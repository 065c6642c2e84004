package handler

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/service"
	pkgerrors "kamu-koprusu/backend/pkg/errors"
	"kamu-koprusu/backend/pkg/response"
)

// InstitutionHandler 机构模块 HTTP 处理器
type InstitutionHandler struct {
	institutionSvc service.InstitutionService
	exportSvc      service.ExportService
}

// NewInstitutionHandler 创建 InstitutionHandler
func NewInstitutionHandler(institutionSvc service.InstitutionService, exportSvc service.ExportService) *InstitutionHandler {
	return &InstitutionHandler{institutionSvc: institutionSvc, exportSvc: exportSvc}
}

// ListInstitutions 机构目录（公开）
// GET /api/v1/institutions
func (h *InstitutionHandler) ListInstitutions(c *gin.Context) {
	var req dto.InstitutionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	insts, total, err := h.institutionSvc.ListPublic(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, insts, total, req.GetPage(), req.GetPageSize())
}

// GetInstitution 机构详情（公开，附处理统计）
// GET /api/v1/institutions/:id
func (h *InstitutionHandler) GetInstitution(c *gin.Context) {
	inst, err := h.institutionSvc.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrInstitutionNotFound) {
			response.NotFound(c, 40001, "机构不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, inst)
}

// UpdateMyInstitution 机构代表编辑本机构信息
// PUT /api/v1/institution/profile
func (h *InstitutionHandler) UpdateMyInstitution(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	instID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	var req dto.UpdateInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.institutionSvc.UpdateInfo(c.Request.Context(), userID, instID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrNoInstitutionBound):
			response.Forbidden(c, 10003, err.Error())
		case errors.Is(err, service.ErrInstitutionNotFound):
			response.NotFound(c, 40001, "机构不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// ListAssigned 本机构收到的投诉列表
// GET /api/v1/institution/complaints
func (h *InstitutionHandler) ListAssigned(c *gin.Context) {
	instID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	var req dto.ComplaintListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	complaints, total, err := h.institutionSvc.ListAssigned(c.Request.Context(), instID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNoInstitutionBound) {
			response.Forbidden(c, 10003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, complaints, total, req.GetPage(), req.GetPageSize())
}

// UpdateStatus 推进投诉状态
// PUT /api/v1/institution/complaints/:id/status
func (h *InstitutionHandler) UpdateStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	instID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.institutionSvc.UpdateStatus(c.Request.Context(), userID, instID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrComplaintNotFound):
			response.NotFound(c, 30001, "投诉不存在")
		case errors.Is(err, service.ErrNotInstitutionComplaint),
			errors.Is(err, service.ErrNoInstitutionBound):
			response.Forbidden(c, 10003, err.Error())
		case errors.Is(err, service.ErrInvalidStatusTransition):
			response.Conflict(c, 30004, err.Error())
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 30005, "投诉已被其他操作更新，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ExportFollowUpCalendar 导出在办投诉跟进日历 (.ics)
// GET /api/v1/institution/complaints/calendar
func (h *InstitutionHandler) ExportFollowUpCalendar(c *gin.Context) {
	instID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportFollowUpCalendar(c.Request.Context(), instID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExportNoData):
			response.NotFound(c, 50001, err.Error())
		case errors.Is(err, service.ErrNoInstitutionBound):
			response.Forbidden(c, 10003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(200, "text/calendar; charset=utf-8", buf.Bytes())
}
