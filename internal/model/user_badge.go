package model

import "time"

// UserBadge 用户勋章表 — 对应 user_badges
// 唯一约束 (user_id, badge_id)：同一勋章每用户仅授予一次
type UserBadge struct {
	UserBadgeID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"user_badge_id"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:uq_user_badge"          json:"user_id"`
	BadgeID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_user_badge"          json:"badge_id"`
	EarnedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                    json:"earned_at"`

	// 关联
	Badge *Badge `gorm:"foreignKey:BadgeID;references:BadgeID" json:"badge,omitempty"`
}

// TableName 指定表名
func (UserBadge) TableName() string { return "user_badges" }
