package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
)

var (
	ErrNotInstitutionComplaint = errors.New("投诉不属于该机构")
	ErrInvalidStatusTransition = errors.New("非法的状态流转")
	ErrNoInstitutionBound      = errors.New("账号未绑定机构")
)

// InstitutionService 机构业务接口
type InstitutionService interface {
	ListPublic(ctx context.Context, req *dto.InstitutionListRequest) ([]dto.InstitutionResponse, int64, error)
	GetPublic(ctx context.Context, institutionID string) (*dto.InstitutionResponse, error)
	UpdateInfo(ctx context.Context, repUserID, institutionID string, req *dto.UpdateInstitutionRequest) error
	ListAssigned(ctx context.Context, institutionID string, req *dto.ComplaintListRequest) ([]dto.ComplaintResponse, int64, error)
	UpdateStatus(ctx context.Context, repUserID, institutionID, complaintID string, req *dto.UpdateStatusRequest) (*dto.ComplaintDetailResponse, error)
}

type institutionService struct {
	repo         *repository.Repository
	gamification GamificationService
	audit        AuditService
	logger       *zap.Logger
}

// NewInstitutionService 创建 InstitutionService 实例
func NewInstitutionService(
	repo *repository.Repository,
	gamification GamificationService,
	audit AuditService,
	logger *zap.Logger,
) InstitutionService {
	return &institutionService{
		repo:         repo,
		gamification: gamification,
		audit:        audit,
		logger:       logger,
	}
}

func (s *institutionService) ListPublic(ctx context.Context, req *dto.InstitutionListRequest) ([]dto.InstitutionResponse, int64, error) {
	filter := repository.InstitutionFilter{
		City:    req.City,
		Type:    req.Type,
		Keyword: req.Keyword,
	}

	insts, total, err := s.repo.Institution.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询机构列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.InstitutionResponse, 0, len(insts))
	for i := range insts {
		resp = append(resp, toInstitutionResponse(&insts[i], nil))
	}
	return resp, total, nil
}

func (s *institutionService) GetPublic(ctx context.Context, institutionID string) (*dto.InstitutionResponse, error) {
	inst, err := s.repo.Institution.GetByID(ctx, institutionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstitutionNotFound
		}
		s.logger.Error("查询机构失败", zap.Error(err))
		return nil, err
	}

	// 附带处理统计
	stat, err := s.institutionStat(ctx, institutionID)
	if err != nil {
		s.logger.Warn("统计机构处理数据失败", zap.Error(err))
	}

	resp := toInstitutionResponse(inst, stat)
	return &resp, nil
}

func (s *institutionService) UpdateInfo(ctx context.Context, repUserID, institutionID string, req *dto.UpdateInstitutionRequest) error {
	if institutionID == "" {
		return ErrNoInstitutionBound
	}

	inst, err := s.repo.Institution.GetByID(ctx, institutionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInstitutionNotFound
		}
		s.logger.Error("查询机构失败", zap.Error(err))
		return err
	}

	if req.ContactEmail != nil {
		inst.Email = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		inst.Phone = *req.ContactPhone
	}
	if req.Address != nil {
		inst.Address = *req.Address
	}
	if req.Description != nil {
		inst.About = *req.Description
	}

	if err := s.repo.Institution.Update(ctx, inst); err != nil {
		s.logger.Error("更新机构失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &repUserID, "institution_updated", "institution", &institutionID, "")
	return nil
}

func (s *institutionService) ListAssigned(ctx context.Context, institutionID string, req *dto.ComplaintListRequest) ([]dto.ComplaintResponse, int64, error) {
	if institutionID == "" {
		return nil, 0, ErrNoInstitutionBound
	}

	filter := listFilter(req)
	filter.InstitutionID = institutionID
	filter.ApprovedOnly = true

	complaints, total, err := s.repo.Complaint.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询机构投诉失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		resp = append(resp, toComplaintResponse(&complaints[i]))
	}
	return resp, total, nil
}

// UpdateStatus 机构代表推进投诉状态
// 乐观锁保护：并发更新时版本不匹配返回 ErrOptimisticLock，由调用方重试
func (s *institutionService) UpdateStatus(ctx context.Context, repUserID, institutionID, complaintID string, req *dto.UpdateStatusRequest) (*dto.ComplaintDetailResponse, error) {
	if institutionID == "" {
		return nil, ErrNoInstitutionBound
	}

	complaint, err := s.repo.Complaint.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		s.logger.Error("查询投诉失败", zap.Error(err))
		return nil, err
	}
	if complaint.InstitutionID != institutionID {
		return nil, ErrNotInstitutionComplaint
	}

	newStatus := model.ComplaintStatus(req.NewStatus)
	if !complaint.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidStatusTransition, complaint.Status, newStatus)
	}

	complaint.Status = newStatus
	if newStatus == model.StatusResolved {
		now := time.Now()
		complaint.ResolvedAt = &now
	}

	if err := s.repo.Complaint.Update(ctx, complaint); err != nil {
		s.logger.Error("更新投诉状态失败", zap.Error(err))
		return nil, err
	}

	update := &model.ComplaintUpdate{
		ComplaintID:     complaintID,
		Message:         req.Message,
		NewStatus:       newStatus,
		UpdatedByUserID: &repUserID,
	}
	if err := s.repo.ComplaintUpdate.Create(ctx, update); err != nil {
		s.logger.Error("写入处理记录失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("投诉状态更新",
		zap.String("complaint_id", complaintID),
		zap.String("status", string(newStatus)))
	s.audit.Record(ctx, &repUserID, "complaint_status_updated", "complaint", &complaintID,
		"new_status="+string(newStatus))

	// 解决后触发提交者的勋章检查与声望重算
	if newStatus == model.StatusResolved {
		if _, err := s.gamification.CheckAndAwardBadges(ctx, complaint.UserID); err != nil {
			s.logger.Warn("激励检查失败", zap.String("user_id", complaint.UserID), zap.Error(err))
		}
	}

	detail, err := s.repo.Complaint.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	return toComplaintDetailResponse(detail), nil
}

// ── 内部辅助 ──

func (s *institutionService) institutionStat(ctx context.Context, institutionID string) (*dto.InstitutionStat, error) {
	total, resolved, err := s.repo.Complaint.CountByInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	stat := &dto.InstitutionStat{Total: total, Resolved: resolved}
	if total > 0 {
		stat.ResolveRate = float64(resolved) / float64(total)
	}
	return stat, nil
}

func toInstitutionResponse(inst *model.Institution, stat *dto.InstitutionStat) dto.InstitutionResponse {
	return dto.InstitutionResponse{
		ID:            inst.InstitutionID,
		Name:          inst.Name,
		Type:          inst.Type,
		ContactEmail:  inst.Email,
		ContactPhone:  inst.Phone,
		Address:       inst.Address,
		ComplaintStat: stat,
	}
}
