package model

// ── 用户角色 ──

// UserRole 用户角色（闭合枚举）
type UserRole string

const (
	RoleCitizen        UserRole = "citizen"
	RoleInstitutionRep UserRole = "institution_rep"
	RoleModerator      UserRole = "moderator"
	RoleAdmin          UserRole = "admin"
)

// Valid 角色合法性检查
func (r UserRole) Valid() bool {
	switch r {
	case RoleCitizen, RoleInstitutionRep, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ── 用户等级 ──

// UserLevel 声望等级，由声望分数按固定阈值映射
type UserLevel string

const (
	LevelBronze   UserLevel = "bronze"
	LevelSilver   UserLevel = "silver"
	LevelGold     UserLevel = "gold"
	LevelPlatinum UserLevel = "platinum"
	LevelDiamond  UserLevel = "diamond"
)

// LevelForScore 声望分数 → 等级映射
// 阈值：≥500 钻石，≥200 铂金，≥100 黄金，≥50 白银，其余青铜
func LevelForScore(score int) UserLevel {
	switch {
	case score >= 500:
		return LevelDiamond
	case score >= 200:
		return LevelPlatinum
	case score >= 100:
		return LevelGold
	case score >= 50:
		return LevelSilver
	default:
		return LevelBronze
	}
}

// User 用户表 — 对应 users
type User struct {
	UserID          string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	FullName        string   `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Email           string   `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Phone           string   `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	PasswordHash    string   `gorm:"type:varchar(255);not null"                     json:"-"`
	Role            UserRole `gorm:"type:varchar(30);not null;default:'citizen'"    json:"role"`
	IsApproved      bool     `gorm:"not null;default:true"                          json:"is_approved"`
	IsBanned        bool     `gorm:"not null;default:false"                         json:"is_banned"`
	ReputationScore int      `gorm:"not null;default:0"                             json:"reputation_score"`
	Level           UserLevel `gorm:"type:varchar(20);not null;default:'bronze'"    json:"level"`
	InstitutionID   *string  `gorm:"type:uuid"                                      json:"institution_id,omitempty"`
	BaseModel

	// 关联
	Institution *Institution `gorm:"foreignKey:InstitutionID;references:InstitutionID" json:"institution,omitempty"`
	Profile     *Profile     `gorm:"foreignKey:UserID;references:UserID"               json:"profile,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
