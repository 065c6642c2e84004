package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
)

var (
	ErrCannotModifyAdmin = errors.New("不能对管理员账号执行该操作")
	ErrUserNotBanned     = errors.New("用户未处于封禁状态")
	ErrNotCitizenRole    = errors.New("仅市民账号可被指派为审核员")
	ErrNotModeratorRole  = errors.New("该账号不是审核员")
)

// AdminService 平台管理业务接口
type AdminService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	ListUsers(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	ApproveUser(ctx context.Context, adminID, userID string) error
	BanUser(ctx context.Context, adminID, userID string, req *dto.BanUserRequest) error
	UnbanUser(ctx context.Context, adminID, userID string) error
	DeleteUser(ctx context.Context, adminID, userID string) error
	AssignModerator(ctx context.Context, adminID, userID string) error
	RemoveModerator(ctx context.Context, adminID, userID string) error
	DeleteComplaint(ctx context.Context, adminID, complaintID string) error
	Report(ctx context.Context, req *dto.ReportRequest) (*dto.ReportResponse, error)
}

type adminService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, audit AuditService, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, audit: audit, logger: logger}
}

func (s *adminService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	totalUsers, err := s.repo.User.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	bannedUsers, err := s.repo.User.CountBanned(ctx)
	if err != nil {
		return nil, err
	}
	totalComplaints, err := s.repo.Complaint.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.Complaint.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.Complaint.CountByType(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		TotalUsers:         totalUsers,
		TotalComplaints:    totalComplaints,
		PendingModeration:  byStatus[string(model.StatusPendingModeration)],
		ResolvedComplaints: byStatus[string(model.StatusResolved)],
		BannedUsers:        bannedUsers,
		ComplaintsByStatus: byStatus,
		ComplaintsByType:   byType,
	}

	// 最近 10 条投诉
	recent, _, err := s.repo.Complaint.List(ctx, repository.ComplaintFilter{}, 0, 10)
	if err != nil {
		s.logger.Warn("查询最近投诉失败", zap.Error(err))
	} else {
		for i := range recent {
			resp.RecentComplaints = append(resp.RecentComplaints, toComplaintResponse(&recent[i]))
		}
	}
	return resp, nil
}

func (s *adminService) ListUsers(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filter := repository.UserFilter{
		Role:    model.UserRole(req.Role),
		Status:  req.Status,
		Keyword: req.Keyword,
	}

	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	return resp, total, nil
}

// ApproveUser 审核通过机构代表注册
func (s *adminService) ApproveUser(ctx context.Context, adminID, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsApproved {
		return nil // 幂等
	}

	user.IsApproved = true
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &adminID, "user_approved", "user", &userID, "")
	return nil
}

// BanUser 管理员手动封禁
// days 为 0 时为永久封禁
func (s *adminService) BanUser(ctx context.Context, adminID, userID string, req *dto.BanUserRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == model.RoleAdmin {
		return ErrCannotModifyAdmin
	}

	ban := &model.BannedUser{
		UserID:         userID,
		Reason:         req.Reason,
		BannedByUserID: adminID,
		IsPermanent:    req.Days == 0,
		BannedEmail:    user.Email,
		BannedPhone:    user.Phone,
	}
	if req.Days > 0 {
		until := time.Now().AddDate(0, 0, req.Days)
		ban.BanExpiresAt = &until
	}

	if err := s.repo.BannedUser.Create(ctx, ban); err != nil {
		s.logger.Error("创建封禁记录失败", zap.Error(err))
		return err
	}

	user.IsBanned = true
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return err
	}

	s.logger.Info("封禁用户",
		zap.String("user_id", userID),
		zap.Int("days", req.Days))
	s.audit.Record(ctx, &adminID, "user_banned", "user", &userID,
		fmt.Sprintf("days=%d reason=%s", req.Days, req.Reason))
	return nil
}

func (s *adminService) UnbanUser(ctx context.Context, adminID, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsBanned {
		return ErrUserNotBanned
	}

	if err := s.repo.BannedUser.MarkUnbanned(ctx, userID, time.Now()); err != nil {
		s.logger.Error("标记解封失败", zap.Error(err))
		return err
	}

	user.IsBanned = false
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &adminID, "user_unbanned", "user", &userID, "")
	return nil
}

// DeleteUser 注销用户：匿名化账号并写入永久封禁快照
// 不做物理删除，保留投诉与警告等关联数据的完整性
func (s *adminService) DeleteUser(ctx context.Context, adminID, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == model.RoleAdmin {
		return ErrCannotModifyAdmin
	}

	// 封禁快照基于匿名化前的真实凭据
	ban := &model.BannedUser{
		UserID:         userID,
		Reason:         "账号已注销",
		BannedByUserID: adminID,
		IsPermanent:    true,
		BannedEmail:    user.Email,
		BannedPhone:    user.Phone,
	}
	if err := s.repo.BannedUser.Create(ctx, ban); err != nil {
		s.logger.Error("创建封禁记录失败", zap.Error(err))
		return err
	}

	user.FullName = "已注销用户"
	user.Email = fmt.Sprintf("deleted+%s@kamukoprusu.invalid", user.UserID)
	user.Phone = ""
	user.PasswordHash = uuid.New().String() // 不可登录的占位哈希
	user.IsBanned = true
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &adminID, "user_deleted", "user", &userID, "")
	return nil
}

func (s *adminService) AssignModerator(ctx context.Context, adminID, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != model.RoleCitizen {
		return ErrNotCitizenRole
	}

	user.Role = model.RoleModerator
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &adminID, "moderator_assigned", "user", &userID, "")
	return nil
}

func (s *adminService) RemoveModerator(ctx context.Context, adminID, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != model.RoleModerator {
		return ErrNotModeratorRole
	}

	user.Role = model.RoleCitizen
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &adminID, "moderator_removed", "user", &userID, "")
	return nil
}

func (s *adminService) DeleteComplaint(ctx context.Context, adminID, complaintID string) error {
	if _, err := s.repo.Complaint.GetByID(ctx, complaintID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplaintNotFound
		}
		s.logger.Error("查询投诉失败", zap.Error(err))
		return err
	}

	if err := s.repo.Media.DeleteByComplaint(ctx, complaintID); err != nil {
		s.logger.Error("删除附件元数据失败", zap.Error(err))
		return err
	}
	if err := s.repo.Complaint.Delete(ctx, complaintID); err != nil {
		s.logger.Error("删除投诉失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &adminID, "complaint_deleted", "complaint", &complaintID, "")
	return nil
}

func (s *adminService) Report(ctx context.Context, req *dto.ReportRequest) (*dto.ReportResponse, error) {
	start := parseDate(req.StartDate)
	end := parseDateEnd(req.EndDate)

	monthly, err := s.repo.Stats.MonthlyComplaints(ctx, start, end)
	if err != nil {
		s.logger.Error("查询月度统计失败", zap.Error(err))
		return nil, err
	}
	institutions, err := s.repo.Stats.InstitutionPerformance(ctx, start, end)
	if err != nil {
		s.logger.Error("查询机构统计失败", zap.Error(err))
		return nil, err
	}
	categories, err := s.repo.Stats.CategoryDistribution(ctx, start, end)
	if err != nil {
		s.logger.Error("查询类别统计失败", zap.Error(err))
		return nil, err
	}
	topCitizens, err := s.repo.Stats.TopCitizens(ctx, 10)
	if err != nil {
		s.logger.Error("查询活跃市民失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ReportResponse{}
	for _, row := range monthly {
		resp.Monthly = append(resp.Monthly, dto.MonthlyCount{Month: row.Month, Count: row.Count})
	}
	for _, row := range institutions {
		item := dto.InstitutionReportRow{
			InstitutionName: row.InstitutionName,
			Total:           row.Total,
			Resolved:        row.Resolved,
			AvgResolveDays:  row.AvgResolveDays,
		}
		if row.Total > 0 {
			item.ResolveRate = float64(row.Resolved) / float64(row.Total)
		}
		resp.Institutions = append(resp.Institutions, item)
	}
	for _, row := range categories {
		resp.Categories = append(resp.Categories, dto.CategoryCount{Category: row.Category, Count: row.Count})
	}
	for _, row := range topCitizens {
		resp.TopCitizens = append(resp.TopCitizens, dto.TopCitizenRow{
			UserID:          row.UserID,
			FullName:        row.FullName,
			ComplaintCount:  row.ComplaintCount,
			ReputationScore: row.ReputationScore,
			Level:           row.Level,
		})
	}
	return resp, nil
}

// ── 内部辅助 ──

func (s *adminService) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func parseDate(s string) *time.Time {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}

func parseDateEnd(s string) *time.Time {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		end := t.AddDate(0, 0, 1)
		return &end
	}
	return nil
}
