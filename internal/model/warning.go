package model

import "time"

// Warning 警告记录表 — 对应 warnings
// 仅追加，不可修改；每用户累积数量驱动封禁升级阶梯
type Warning struct {
	WarningID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"warning_id"`
	UserID         string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Reason         string    `gorm:"type:text;not null"                             json:"reason"`
	ComplaintID    *string   `gorm:"type:uuid"                                      json:"complaint_id,omitempty"`
	IssuedByUserID string    `gorm:"type:uuid;not null"                             json:"issued_by_user_id"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	User     *User `gorm:"foreignKey:UserID;references:UserID"         json:"user,omitempty"`
	IssuedBy *User `gorm:"foreignKey:IssuedByUserID;references:UserID" json:"issued_by,omitempty"`
}

// TableName 指定表名
func (Warning) TableName() string { return "warnings" }
