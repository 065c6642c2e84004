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
	ErrComplaintNotFound    = errors.New("投诉不存在")
	ErrComplaintNotPending  = errors.New("投诉不在待审核状态")
	ErrCannotWarnPrivileged = errors.New("不能警告审核员或管理员")
)

// 警告升级阶梯：计数包含本次警告
//	第 1 次 → 仅记录
//	第 2 次 → 临时封禁 7 天
//	第 3 次 → 临时封禁 30 天
//	第 4 次及以上 → 永久封禁（重复触发时幂等）
const (
	tempBan7Days  = 7 * 24 * time.Hour
	tempBan30Days = 30 * 24 * time.Hour
)

// 处置档位标识
const (
	SanctionRecorded  = "warning_recorded"
	SanctionTempBan7  = "temporary_ban_7d"
	SanctionTempBan30 = "temporary_ban_30d"
	SanctionPermanent = "permanent_ban"
)

// ModerationService 内容审核业务接口
type ModerationService interface {
	ListPending(ctx context.Context, page *dto.PaginationRequest) ([]dto.ComplaintResponse, int64, error)
	Approve(ctx context.Context, moderatorID, complaintID string) error
	Reject(ctx context.Context, moderatorID, complaintID string, req *dto.RejectComplaintRequest) error
	IssueWarning(ctx context.Context, moderatorID, targetUserID string, req *dto.WarnUserRequest) (*dto.WarnUserResponse, error)
	ListWarnings(ctx context.Context, targetUserID string, page *dto.PaginationRequest) ([]dto.WarningResponse, int64, error)
}

type moderationService struct {
	repo         *repository.Repository
	gamification GamificationService
	audit        AuditService
	logger       *zap.Logger
}

// NewModerationService 创建 ModerationService 实例
func NewModerationService(
	repo *repository.Repository,
	gamification GamificationService,
	audit AuditService,
	logger *zap.Logger,
) ModerationService {
	return &moderationService{
		repo:         repo,
		gamification: gamification,
		audit:        audit,
		logger:       logger,
	}
}

func (s *moderationService) ListPending(ctx context.Context, page *dto.PaginationRequest) ([]dto.ComplaintResponse, int64, error) {
	filter := repository.ComplaintFilter{Status: model.StatusPendingModeration}
	complaints, total, err := s.repo.Complaint.List(ctx, filter, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询待审核投诉失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		item := toComplaintResponse(&complaints[i])
		// 审核队列对审核员展示真实提交者，匿名仅对公众生效
		item.Submitter = toUserBrief(complaints[i].User)
		resp = append(resp, item)
	}
	return resp, total, nil
}

func (s *moderationService) Approve(ctx context.Context, moderatorID, complaintID string) error {
	complaint, err := s.repo.Complaint.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplaintNotFound
		}
		s.logger.Error("查询投诉失败", zap.Error(err))
		return err
	}
	if complaint.Status != model.StatusPendingModeration {
		return ErrComplaintNotPending
	}

	complaint.Status = model.StatusNew
	complaint.IsApproved = true
	if err := s.repo.Complaint.Update(ctx, complaint); err != nil {
		s.logger.Error("更新投诉失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &moderatorID, "complaint_approved", "complaint", &complaintID, "")

	// 状态变化后重新检查勋章与声望
	if _, err := s.gamification.CheckAndAwardBadges(ctx, complaint.UserID); err != nil {
		s.logger.Warn("激励检查失败", zap.String("user_id", complaint.UserID), zap.Error(err))
	}
	return nil
}

func (s *moderationService) Reject(ctx context.Context, moderatorID, complaintID string, req *dto.RejectComplaintRequest) error {
	complaint, err := s.repo.Complaint.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplaintNotFound
		}
		s.logger.Error("查询投诉失败", zap.Error(err))
		return err
	}
	if complaint.Status != model.StatusPendingModeration {
		return ErrComplaintNotPending
	}

	complaint.Status = model.StatusRejected
	complaint.IsApproved = false
	complaint.RejectionReason = &req.Reason
	if err := s.repo.Complaint.Update(ctx, complaint); err != nil {
		s.logger.Error("更新投诉失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &moderatorID, "complaint_rejected", "complaint", &complaintID, req.Reason)
	return nil
}

// IssueWarning 签发警告并按阶梯升级处置
// 整个读-判-写流程在单个事务内完成，并对用户行加锁，
// 并发签发时计数与处置严格串行
func (s *moderationService) IssueWarning(ctx context.Context, moderatorID, targetUserID string, req *dto.WarnUserRequest) (*dto.WarnUserResponse, error) {
	resp := &dto.WarnUserResponse{}

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		user, err := txRepo.User.GetByIDForUpdate(ctx, targetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			s.logger.Error("锁定用户失败", zap.Error(err))
			return err
		}
		if user.Role == model.RoleModerator || user.Role == model.RoleAdmin {
			return ErrCannotWarnPrivileged
		}

		warning := &model.Warning{
			UserID:         targetUserID,
			Reason:         req.Reason,
			ComplaintID:    req.ComplaintID,
			IssuedByUserID: moderatorID,
		}
		if err := txRepo.Warning.Create(ctx, warning); err != nil {
			s.logger.Error("创建警告失败", zap.Error(err))
			return err
		}

		// 计数包含刚写入的本条警告
		count, err := txRepo.Warning.CountByUser(ctx, targetUserID)
		if err != nil {
			s.logger.Error("统计警告失败", zap.Error(err))
			return err
		}

		resp.WarningID = warning.WarningID
		resp.WarningCount = int(count)

		now := time.Now()
		var ban *model.BannedUser

		switch {
		case count <= 1:
			resp.Sanction = SanctionRecorded
		case count == 2:
			until := now.Add(tempBan7Days)
			ban = s.newBan(user, moderatorID, req.Reason, &until)
			resp.Sanction = SanctionTempBan7
		case count == 3:
			until := now.Add(tempBan30Days)
			ban = s.newBan(user, moderatorID, req.Reason, &until)
			resp.Sanction = SanctionTempBan30
		default:
			ban = s.newBan(user, moderatorID, req.Reason, nil)
			resp.Sanction = SanctionPermanent
		}

		if ban != nil {
			if err := txRepo.BannedUser.Create(ctx, ban); err != nil {
				s.logger.Error("创建封禁记录失败", zap.Error(err))
				return err
			}
			// 封禁标记一经设置不随到期自动清除，解封需管理员显式操作
			user.IsBanned = true
			if err := txRepo.User.Update(ctx, user); err != nil {
				s.logger.Error("更新用户失败", zap.Error(err))
				return err
			}
			if ban.BanExpiresAt != nil {
				until := ban.BanExpiresAt.Format(time.RFC3339)
				resp.BannedUntil = &until
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("签发警告",
		zap.String("user_id", targetUserID),
		zap.Int("warning_count", resp.WarningCount),
		zap.String("sanction", resp.Sanction))

	s.audit.Record(ctx, &moderatorID, "warning_issued", "user", &targetUserID,
		fmt.Sprintf("count=%d sanction=%s", resp.WarningCount, resp.Sanction))

	// 警告扣减声望（每条 −20），事务外重算
	if err := s.gamification.RefreshReputation(ctx, targetUserID); err != nil {
		s.logger.Warn("重算声望失败", zap.String("user_id", targetUserID), zap.Error(err))
	}

	return resp, nil
}

// newBan 构造封禁记录，快照用户当前邮箱与手机号，
// 账号之后即使被删除也能阻止同凭据重新注册
func (s *moderationService) newBan(user *model.User, bannedBy, reason string, expiresAt *time.Time) *model.BannedUser {
	return &model.BannedUser{
		UserID:         user.UserID,
		Reason:         reason,
		BannedByUserID: bannedBy,
		IsPermanent:    expiresAt == nil,
		BanExpiresAt:   expiresAt,
		BannedEmail:    user.Email,
		BannedPhone:    user.Phone,
	}
}

func (s *moderationService) ListWarnings(ctx context.Context, targetUserID string, page *dto.PaginationRequest) ([]dto.WarningResponse, int64, error) {
	warnings, total, err := s.repo.Warning.ListByUser(ctx, targetUserID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询警告记录失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.WarningResponse, 0, len(warnings))
	for i := range warnings {
		w := warnings[i]
		resp = append(resp, dto.WarningResponse{
			ID:          w.WarningID,
			Reason:      w.Reason,
			ComplaintID: w.ComplaintID,
			IssuedBy:    toUserBrief(w.IssuedBy),
			CreatedAt:   w.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, total, nil
}
