package model

// Institution 政府机构表 — 对应 institutions
type Institution struct {
	InstitutionID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"institution_id"`
	Name            string `gorm:"type:varchar(200);not null"                     json:"name"`
	Type            string `gorm:"type:varchar(50);not null"                      json:"type"`
	InstitutionCode string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"institution_code"`
	Address         string `gorm:"type:varchar(500)"                              json:"address,omitempty"`
	Phone           string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	Email           string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Website         string `gorm:"type:varchar(255)"                              json:"website,omitempty"`
	About           string `gorm:"type:text"                                      json:"about,omitempty"`
	LogoURL         string `gorm:"type:varchar(255)"                              json:"logo_url,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Institution) TableName() string { return "institutions" }
