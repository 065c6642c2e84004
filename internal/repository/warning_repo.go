package repository

import (
	"context"

	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/model"
)

// WarningRepository 警告记录数据访问接口（仅追加）
type WarningRepository interface {
	Create(ctx context.Context, warning *model.Warning) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Warning, int64, error)
}

// warningRepo WarningRepository 的 GORM 实现
type warningRepo struct {
	db *gorm.DB
}

// NewWarningRepo 创建 WarningRepository 实例
func NewWarningRepo(db *gorm.DB) WarningRepository {
	return &warningRepo{db: db}
}

func (r *warningRepo) Create(ctx context.Context, warning *model.Warning) error {
	return r.db.WithContext(ctx).Create(warning).Error
}

func (r *warningRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Warning{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

func (r *warningRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Warning, int64, error) {
	var warnings []model.Warning
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Warning{}).
		Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("IssuedBy").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&warnings).Error; err != nil {
		return nil, 0, err
	}

	return warnings, total, nil
}
