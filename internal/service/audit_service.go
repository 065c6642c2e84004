package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
)

// AuditService 审计日志业务接口
type AuditService interface {
	// Record 写入一条审计记录；失败仅记日志，不阻断业务流程
	Record(ctx context.Context, actorID *string, action, entityType string, entityID *string, details string)
	List(ctx context.Context, req *dto.AuditLogListRequest) ([]dto.AuditLogResponse, int64, error)
}

type auditService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditService 创建 AuditService 实例
func NewAuditService(repo *repository.Repository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) Record(ctx context.Context, actorID *string, action, entityType string, entityID *string, details string) {
	log := &model.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if ip, ok := ctx.Value(ctxKeyClientIP{}).(string); ok {
		log.IPAddress = ip
	}

	if err := s.repo.AuditLog.Create(ctx, log); err != nil {
		s.logger.Error("写入审计日志失败",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.Error(err))
	}
}

func (s *auditService) List(ctx context.Context, req *dto.AuditLogListRequest) ([]dto.AuditLogResponse, int64, error) {
	filter := repository.AuditLogFilter{
		Action:     req.Action,
		EntityType: req.EntityType,
		ActorID:    req.ActorID,
	}

	logs, total, err := s.repo.AuditLog.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询审计日志失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		log := logs[i]
		item := dto.AuditLogResponse{
			ID:         log.AuditLogID,
			Action:     log.Action,
			EntityType: log.EntityType,
			Detail:     log.Details,
			CreatedAt:  log.CreatedAt.Format(time.RFC3339),
		}
		if log.EntityID != nil {
			item.EntityID = *log.EntityID
		}
		resp = append(resp, item)
	}
	return resp, total, nil
}

// ctxKeyClientIP 审计用客户端 IP 的 context 键，由 HTTP 层注入
type ctxKeyClientIP struct{}

// WithClientIP 将客户端 IP 写入 context，供审计记录使用
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyClientIP{}, ip)
}
