package repository

import (
	"context"

	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/model"
)

// MediaRepository 媒体附件元数据访问接口
type MediaRepository interface {
	CreateBatch(ctx context.Context, media []model.Media) error
	ListByComplaint(ctx context.Context, complaintID string) ([]model.Media, error)
	DeleteByComplaint(ctx context.Context, complaintID string) error
}

// mediaRepo MediaRepository 的 GORM 实现
type mediaRepo struct {
	db *gorm.DB
}

// NewMediaRepo 创建 MediaRepository 实例
func NewMediaRepo(db *gorm.DB) MediaRepository {
	return &mediaRepo{db: db}
}

func (r *mediaRepo) CreateBatch(ctx context.Context, media []model.Media) error {
	if len(media) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&media).Error
}

func (r *mediaRepo) ListByComplaint(ctx context.Context, complaintID string) ([]model.Media, error) {
	var media []model.Media
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("uploaded_at ASC").
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

func (r *mediaRepo) DeleteByComplaint(ctx context.Context, complaintID string) error {
	return r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Delete(&model.Media{}).Error
}
