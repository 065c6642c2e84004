package model

import "time"

// Profile 用户资料表 — 对应 profiles
type Profile struct {
	ProfileID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"profile_id"`
	UserID            string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	Bio               string    `gorm:"type:text"                                      json:"bio,omitempty"`
	City              string    `gorm:"type:varchar(100)"                              json:"city,omitempty"`
	District          string    `gorm:"type:varchar(100)"                              json:"district,omitempty"`
	ProfilePictureURL string    `gorm:"type:varchar(255)"                              json:"profile_picture_url,omitempty"`
	UpdatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }
