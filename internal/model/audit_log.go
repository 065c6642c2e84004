package model

import "time"

// AuditLog 审计日志表 — 对应 audit_logs（仅追加）
type AuditLog struct {
	AuditLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"audit_log_id"`
	UserID     *string   `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Action     string    `gorm:"type:varchar(50);not null"                      json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null"                      json:"entity_type"`
	EntityID   *string   `gorm:"type:uuid"                                      json:"entity_id,omitempty"`
	Details    string    `gorm:"type:text"                                      json:"details,omitempty"`
	IPAddress  string    `gorm:"type:varchar(45);not null;default:''"           json:"ip_address"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "audit_logs" }
