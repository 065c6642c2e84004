package repository

import (
	"context"

	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/model"
)

// ComplaintUpdateRepository 投诉处理记录数据访问接口（仅追加）
type ComplaintUpdateRepository interface {
	Create(ctx context.Context, update *model.ComplaintUpdate) error
	ListByComplaint(ctx context.Context, complaintID string) ([]model.ComplaintUpdate, error)
}

// complaintUpdateRepo ComplaintUpdateRepository 的 GORM 实现
type complaintUpdateRepo struct {
	db *gorm.DB
}

// NewComplaintUpdateRepo 创建 ComplaintUpdateRepository 实例
func NewComplaintUpdateRepo(db *gorm.DB) ComplaintUpdateRepository {
	return &complaintUpdateRepo{db: db}
}

func (r *complaintUpdateRepo) Create(ctx context.Context, update *model.ComplaintUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

func (r *complaintUpdateRepo) ListByComplaint(ctx context.Context, complaintID string) ([]model.ComplaintUpdate, error) {
	var updates []model.ComplaintUpdate
	err := r.db.WithContext(ctx).
		Preload("UpdatedBy").
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&updates).Error
	if err != nil {
		return nil, err
	}
	return updates, nil
}
