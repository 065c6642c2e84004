package model

import "time"

// MediaType 媒体类型
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
)

// Valid 媒体类型合法性检查
func (t MediaType) Valid() bool {
	switch t {
	case MediaImage, MediaVideo, MediaDocument:
		return true
	}
	return false
}

// Media 媒体附件元数据表 — 对应 media
// 仅记录元数据，文件内容存储不在本服务范围内
type Media struct {
	MediaID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"media_id"`
	Type          MediaType `gorm:"type:varchar(20);not null"                      json:"type"`
	FileName      string    `gorm:"type:varchar(255);not null"                     json:"file_name"`
	FilePath      string    `gorm:"type:varchar(500);not null"                     json:"file_path"`
	FileSizeBytes int64     `gorm:"not null;default:0"                             json:"file_size_bytes"`
	ComplaintID   *string   `gorm:"type:uuid"                                      json:"complaint_id,omitempty"`
	UpdateID      *string   `gorm:"type:uuid"                                      json:"update_id,omitempty"`
	UploadedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"uploaded_at"`
}

// TableName 指定表名
func (Media) TableName() string { return "media" }
