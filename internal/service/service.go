package service

import (
	"go.uber.org/zap"

	"kamu-koprusu/backend/config"
	"kamu-koprusu/backend/internal/repository"
	"kamu-koprusu/backend/pkg/jwt"
	"kamu-koprusu/backend/pkg/redis"
)

// Service 所有业务服务的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Complaint    ComplaintService
	Moderation   ModerationService
	Gamification GamificationService
	Institution  InstitutionService
	Admin        AdminService
	Audit        AuditService
	Export       ExportService
}

// NewService 创建 Service 聚合
// redisClient 允许为 nil：黑名单与限流降级为不可用，其余功能不受影响
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	audit := NewAuditService(repo, logger)
	gamification := NewGamificationService(repo, logger)
	complaint := NewComplaintService(repo, gamification, audit, logger)
	moderation := NewModerationService(repo, gamification, audit, logger)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, redisClient, audit, logger),
		User:         NewUserService(repo, logger),
		Complaint:    complaint,
		Moderation:   moderation,
		Gamification: gamification,
		Institution:  NewInstitutionService(repo, gamification, audit, logger),
		Admin:        NewAdminService(repo, audit, logger),
		Audit:        audit,
		Export:       NewExportService(repo, logger),
	}
}
