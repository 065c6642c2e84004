package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
)

var (
	ErrInstitutionNotFound  = errors.New("机构不存在")
	ErrNotComplaintOwner    = errors.New("只能操作自己的投诉")
	ErrComplaintNotEditable = errors.New("投诉已进入审核流程，无法修改")
	ErrComplaintNotVisible  = errors.New("无权查看该投诉")
	ErrSubmitterBanned      = errors.New("封禁账号不能提交投诉")
)

// Viewer 请求方身份，用于详情可见性判断
type Viewer struct {
	UserID        string
	Role          model.UserRole
	InstitutionID string
}

// ComplaintService 投诉业务接口
type ComplaintService interface {
	Create(ctx context.Context, userID string, req *dto.CreateComplaintRequest) (*dto.ComplaintDetailResponse, error)
	Edit(ctx context.Context, userID, complaintID string, req *dto.EditComplaintRequest) (*dto.ComplaintDetailResponse, error)
	Cancel(ctx context.Context, userID, complaintID string) error
	ListMine(ctx context.Context, userID string, req *dto.ComplaintListRequest) ([]dto.ComplaintResponse, int64, error)
	ListPublic(ctx context.Context, req *dto.ComplaintListRequest) ([]dto.ComplaintResponse, int64, error)
	GetDetail(ctx context.Context, viewer *Viewer, complaintID string) (*dto.ComplaintDetailResponse, error)
}

type complaintService struct {
	repo         *repository.Repository
	gamification GamificationService
	audit        AuditService
	logger       *zap.Logger
}

// NewComplaintService 创建 ComplaintService 实例
func NewComplaintService(
	repo *repository.Repository,
	gamification GamificationService,
	audit AuditService,
	logger *zap.Logger,
) ComplaintService {
	return &complaintService{
		repo:         repo,
		gamification: gamification,
		audit:        audit,
		logger:       logger,
	}
}

func (s *complaintService) Create(ctx context.Context, userID string, req *dto.CreateComplaintRequest) (*dto.ComplaintDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if user.IsBanned {
		return nil, ErrSubmitterBanned
	}

	if _, err := s.repo.Institution.GetByID(ctx, req.InstitutionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstitutionNotFound
		}
		s.logger.Error("查询机构失败", zap.Error(err))
		return nil, err
	}

	complaint := &model.Complaint{
		Title:         req.Title,
		Description:   req.Description,
		Type:          model.ComplaintType(req.Type),
		Category:      req.Category,
		Status:        model.StatusPendingModeration,
		IsAnonymous:   req.IsAnonymous,
		Location:      req.Location,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		UserID:        userID,
		InstitutionID: req.InstitutionID,
	}

	if err := s.repo.Complaint.Create(ctx, complaint); err != nil {
		s.logger.Error("创建投诉失败", zap.Error(err))
		return nil, err
	}

	if len(req.Media) > 0 {
		media := make([]model.Media, 0, len(req.Media))
		for _, m := range req.Media {
			media = append(media, model.Media{
				Type:          model.MediaType(m.Type),
				FileName:      m.FileName,
				FilePath:      m.FilePath,
				FileSizeBytes: m.FileSizeBytes,
				ComplaintID:   &complaint.ComplaintID,
			})
		}
		if err := s.repo.Media.CreateBatch(ctx, media); err != nil {
			s.logger.Error("保存附件元数据失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("创建投诉",
		zap.String("complaint_id", complaint.ComplaintID),
		zap.String("user_id", userID))
	s.audit.Record(ctx, &userID, "complaint_created", "complaint", &complaint.ComplaintID, "")

	// 提交即触发勋章检查
	if _, err := s.gamification.CheckAndAwardBadges(ctx, userID); err != nil {
		s.logger.Warn("激励检查失败", zap.String("user_id", userID), zap.Error(err))
	}

	created, err := s.repo.Complaint.GetByID(ctx, complaint.ComplaintID)
	if err != nil {
		return nil, err
	}
	return toComplaintDetailResponse(created), nil
}

// Edit 仅待审核状态的投诉允许提交者修改
func (s *complaintService) Edit(ctx context.Context, userID, complaintID string, req *dto.EditComplaintRequest) (*dto.ComplaintDetailResponse, error) {
	complaint, err := s.repo.Complaint.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		s.logger.Error("查询投诉失败", zap.Error(err))
		return nil, err
	}
	if complaint.UserID != userID {
		return nil, ErrNotComplaintOwner
	}
	if complaint.Status != model.StatusPendingModeration {
		return nil, ErrComplaintNotEditable
	}

	if req.Title != nil {
		complaint.Title = *req.Title
	}
	if req.Description != nil {
		complaint.Description = *req.Description
	}
	if req.Category != nil {
		complaint.Category = *req.Category
	}
	if req.Location != nil {
		complaint.Location = *req.Location
	}
	if req.Latitude != nil {
		complaint.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		complaint.Longitude = req.Longitude
	}

	if err := s.repo.Complaint.Update(ctx, complaint); err != nil {
		s.logger.Error("更新投诉失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, &userID, "complaint_edited", "complaint", &complaintID, "")
	return toComplaintDetailResponse(complaint), nil
}

// Cancel 待审核状态的投诉允许提交者撤回删除
func (s *complaintService) Cancel(ctx context.Context, userID, complaintID string) error {
	complaint, err := s.repo.Complaint.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplaintNotFound
		}
		s.logger.Error("查询投诉失败", zap.Error(err))
		return err
	}
	if complaint.UserID != userID {
		return ErrNotComplaintOwner
	}
	if complaint.Status != model.StatusPendingModeration {
		return ErrComplaintNotEditable
	}

	if err := s.repo.Media.DeleteByComplaint(ctx, complaintID); err != nil {
		s.logger.Error("删除附件元数据失败", zap.Error(err))
		return err
	}
	if err := s.repo.Complaint.Delete(ctx, complaintID); err != nil {
		s.logger.Error("删除投诉失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &userID, "complaint_cancelled", "complaint", &complaintID, "")
	return nil
}

func (s *complaintService) ListMine(ctx context.Context, userID string, req *dto.ComplaintListRequest) ([]dto.ComplaintResponse, int64, error) {
	filter := listFilter(req)
	filter.UserID = userID

	complaints, total, err := s.repo.Complaint.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询投诉列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		item := toComplaintResponse(&complaints[i])
		// 本人列表不隐藏提交者
		item.Submitter = toUserBrief(complaints[i].User)
		resp = append(resp, item)
	}
	return resp, total, nil
}

// ListPublic 公开列表只包含审核通过的投诉
func (s *complaintService) ListPublic(ctx context.Context, req *dto.ComplaintListRequest) ([]dto.ComplaintResponse, int64, error) {
	filter := listFilter(req)
	filter.ApprovedOnly = true

	complaints, total, err := s.repo.Complaint.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询投诉列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		resp = append(resp, toComplaintResponse(&complaints[i]))
	}
	return resp, total, nil
}

// GetDetail 详情可见性：
//	公众（viewer 为 nil）与普通用户只能查看审核通过的投诉；
//	提交者查看自己全部；审核员与管理员查看全部；
//	机构代表查看本机构全部
func (s *complaintService) GetDetail(ctx context.Context, viewer *Viewer, complaintID string) (*dto.ComplaintDetailResponse, error) {
	complaint, err := s.repo.Complaint.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		s.logger.Error("查询投诉失败", zap.Error(err))
		return nil, err
	}

	if !canView(viewer, complaint) {
		return nil, ErrComplaintNotVisible
	}

	detail := toComplaintDetailResponse(complaint)
	if viewer != nil && complaint.IsAnonymous && viewerSeesSubmitter(viewer, complaint) {
		detail.Submitter = toUserBrief(complaint.User)
	}
	return detail, nil
}

// ── 内部辅助 ──

func canView(viewer *Viewer, complaint *model.Complaint) bool {
	if complaint.IsApproved {
		return true
	}
	if viewer == nil {
		return false
	}
	switch {
	case viewer.UserID == complaint.UserID:
		return true
	case viewer.Role == model.RoleModerator || viewer.Role == model.RoleAdmin:
		return true
	case viewer.Role == model.RoleInstitutionRep && viewer.InstitutionID == complaint.InstitutionID:
		return true
	}
	return false
}

// viewerSeesSubmitter 匿名投诉仅本人、审核员、管理员可见提交者
func viewerSeesSubmitter(viewer *Viewer, complaint *model.Complaint) bool {
	return viewer.UserID == complaint.UserID ||
		viewer.Role == model.RoleModerator ||
		viewer.Role == model.RoleAdmin
}

func listFilter(req *dto.ComplaintListRequest) repository.ComplaintFilter {
	filter := repository.ComplaintFilter{
		Status:        model.ComplaintStatus(req.Status),
		Type:          model.ComplaintType(req.Type),
		Category:      req.Category,
		Keyword:       req.Keyword,
		InstitutionID: req.InstitutionID,
	}
	if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
		filter.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", req.EndDate); err == nil {
		end := t.AddDate(0, 0, 1) // 含当日
		filter.EndDate = &end
	}
	return filter
}
