package repository

import (
	"context"

	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/model"
)

// AuditLogFilter 审计日志过滤条件
type AuditLogFilter struct {
	Action     string
	EntityType string
	ActorID    string
}

// AuditLogRepository 审计日志数据访问接口（仅追加）
type AuditLogRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter, offset, limit int) ([]model.AuditLog, int64, error)
}

// auditLogRepo AuditLogRepository 的 GORM 实现
type auditLogRepo struct {
	db *gorm.DB
}

// NewAuditLogRepo 创建 AuditLogRepository 实例
func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, log *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepo) List(ctx context.Context, filter AuditLogFilter, offset, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		db = db.Where("entity_type = ?", filter.EntityType)
	}
	if filter.ActorID != "" {
		db = db.Where("user_id = ?", filter.ActorID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
