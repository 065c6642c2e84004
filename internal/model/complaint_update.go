package model

import "time"

// ComplaintUpdate 投诉处理记录表 — 对应 complaint_updates
// 仅追加：每次状态变更写入一条，由变更者署名
type ComplaintUpdate struct {
	UpdateID        string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"update_id"`
	ComplaintID     string          `gorm:"type:uuid;not null"                             json:"complaint_id"`
	Message         string          `gorm:"type:text;not null"                             json:"message"`
	NewStatus       ComplaintStatus `gorm:"type:varchar(30);not null"                      json:"new_status"`
	UpdatedByUserID *string         `gorm:"type:uuid"                                      json:"updated_by_user_id,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	UpdatedBy *User `gorm:"foreignKey:UpdatedByUserID;references:UserID" json:"updated_by,omitempty"`
}

// TableName 指定表名
func (ComplaintUpdate) TableName() string { return "complaint_updates" }
