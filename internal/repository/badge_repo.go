package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/model"
)

// BadgeRepository 勋章目录与用户勋章数据访问接口
type BadgeRepository interface {
	Create(ctx context.Context, badge *model.Badge) error
	GetByName(ctx context.Context, name string) (*model.Badge, error)
	ListAll(ctx context.Context) ([]model.Badge, error)

	AwardToUser(ctx context.Context, userBadge *model.UserBadge) error
	ListByUser(ctx context.Context, userID string) ([]model.UserBadge, error)
	HasBadge(ctx context.Context, userID, badgeID string) (bool, error)
}

// badgeRepo BadgeRepository 的 GORM 实现
type badgeRepo struct {
	db *gorm.DB
}

// NewBadgeRepo 创建 BadgeRepository 实例
func NewBadgeRepo(db *gorm.DB) BadgeRepository {
	return &badgeRepo{db: db}
}

func (r *badgeRepo) Create(ctx context.Context, badge *model.Badge) error {
	return r.db.WithContext(ctx).Create(badge).Error
}

func (r *badgeRepo) GetByName(ctx context.Context, name string) (*model.Badge, error) {
	var badge model.Badge
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&badge).Error
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *badgeRepo) ListAll(ctx context.Context) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.db.WithContext(ctx).
		Order("criteria_type ASC, required_count ASC").
		Find(&badges).Error
	if err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *badgeRepo) AwardToUser(ctx context.Context, userBadge *model.UserBadge) error {
	return r.db.WithContext(ctx).Create(userBadge).Error
}

func (r *badgeRepo) ListByUser(ctx context.Context, userID string) ([]model.UserBadge, error) {
	var userBadges []model.UserBadge
	err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&userBadges).Error
	if err != nil {
		return nil, err
	}
	return userBadges, nil
}

func (r *badgeRepo) HasBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	var userBadge model.UserBadge
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		First(&userBadge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
