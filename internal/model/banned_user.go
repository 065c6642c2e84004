package model

import "time"

// BannedUser 封禁记录表 — 对应 banned_users
// 一个用户可累积多条封禁历史；banned_email / banned_phone 为封禁时的凭据快照，
// 即使用户账号之后被删除，也能据此阻止同凭据重新注册
type BannedUser struct {
	BanID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"ban_id"`
	UserID         string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Reason         string     `gorm:"type:text"                                      json:"reason,omitempty"`
	BannedByUserID string     `gorm:"type:uuid;not null"                             json:"banned_by_user_id"`
	IsPermanent    bool       `gorm:"not null;default:true"                          json:"is_permanent"`
	BanExpiresAt   *time.Time `json:"ban_expires_at,omitempty"`
	UnbannedAt     *time.Time `json:"unbanned_at,omitempty"`
	BannedEmail    string     `gorm:"type:varchar(255)"                              json:"banned_email,omitempty"`
	BannedPhone    string     `gorm:"type:varchar(20)"                               json:"banned_phone,omitempty"`
	BannedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"banned_at"`

	// 关联
	User     *User `gorm:"foreignKey:UserID;references:UserID"         json:"user,omitempty"`
	BannedBy *User `gorm:"foreignKey:BannedByUserID;references:UserID" json:"banned_by,omitempty"`
}

// TableName 指定表名
func (BannedUser) TableName() string { return "banned_users" }
