package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/model"
)

// BannedUserRepository 封禁记录数据访问接口
type BannedUserRepository interface {
	Create(ctx context.Context, ban *model.BannedUser) error
	GetActiveByUser(ctx context.Context, userID string) (*model.BannedUser, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	MarkUnbanned(ctx context.Context, userID string, at time.Time) error
	ListByUser(ctx context.Context, userID string) ([]model.BannedUser, error)
}

// bannedUserRepo BannedUserRepository 的 GORM 实现
type bannedUserRepo struct {
	db *gorm.DB
}

// NewBannedUserRepo 创建 BannedUserRepository 实例
func NewBannedUserRepo(db *gorm.DB) BannedUserRepository {
	return &bannedUserRepo{db: db}
}

func (r *bannedUserRepo) Create(ctx context.Context, ban *model.BannedUser) error {
	return r.db.WithContext(ctx).Create(ban).Error
}

// GetActiveByUser 读取用户当前生效的封禁记录（未解禁的最新一条）
func (r *bannedUserRepo) GetActiveByUser(ctx context.Context, userID string) (*model.BannedUser, error) {
	var ban model.BannedUser
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND unbanned_at IS NULL", userID).
		Order("banned_at DESC").
		First(&ban).Error
	if err != nil {
		return nil, err
	}
	return &ban, nil
}

// ExistsByEmailOrPhone 检查凭据是否命中未解禁的封禁快照，用于阻止重新注册
func (r *bannedUserRepo) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	db := r.db.WithContext(ctx).Model(&model.BannedUser{}).
		Where("unbanned_at IS NULL").
		Where("is_permanent = ? OR ban_expires_at > ?", true, time.Now())

	if phone != "" {
		db = db.Where("banned_email = ? OR banned_phone = ?", email, phone)
	} else {
		db = db.Where("banned_email = ?", email)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// MarkUnbanned 将用户所有未解禁记录标记为已解禁
func (r *bannedUserRepo) MarkUnbanned(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.BannedUser{}).
		Where("user_id = ? AND unbanned_at IS NULL", userID).
		Update("unbanned_at", at).Error
}

func (r *bannedUserRepo) ListByUser(ctx context.Context, userID string) ([]model.BannedUser, error) {
	var bans []model.BannedUser
	err := r.db.WithContext(ctx).
		Preload("BannedBy").
		Where("user_id = ?", userID).
		Order("banned_at DESC").
		Find(&bans).Error
	if err != nil {
		return nil, err
	}
	return bans, nil
}
