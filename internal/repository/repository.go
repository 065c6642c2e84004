package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User            UserRepository
	Profile         ProfileRepository
	Institution     InstitutionRepository
	Complaint       ComplaintRepository
	ComplaintUpdate ComplaintUpdateRepository
	Media           MediaRepository
	Warning         WarningRepository
	BannedUser      BannedUserRepository
	Badge           BadgeRepository
	AuditLog        AuditLogRepository
	Stats           StatsRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		User:            NewUserRepo(db),
		Profile:         NewProfileRepo(db),
		Institution:     NewInstitutionRepo(db),
		Complaint:       NewComplaintRepo(db),
		ComplaintUpdate: NewComplaintUpdateRepo(db),
		Media:           NewMediaRepo(db),
		Warning:         NewWarningRepo(db),
		BannedUser:      NewBannedUserRepo(db),
		Badge:           NewBadgeRepo(db),
		AuditLog:        NewAuditLogRepo(db),
		Stats:           NewStatsRepo(db),
	}
}

// Transaction 在单个数据库事务内执行 fn
// fn 返回错误时整体回滚；无底层连接（如注入 Mock 仓储）时直接执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
