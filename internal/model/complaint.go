package model

import "time"

// ── 投诉状态机 ──

// ComplaintStatus 投诉状态（闭合枚举）
// 流转：pending_moderation → (rejected | new) → viewed → in_progress → (resolved | closed)
// 终态：resolved / closed / rejected
type ComplaintStatus string

const (
	StatusPendingModeration ComplaintStatus = "pending_moderation"
	StatusRejected          ComplaintStatus = "rejected"
	StatusNew               ComplaintStatus = "new"
	StatusViewed            ComplaintStatus = "viewed"
	StatusInProgress        ComplaintStatus = "in_progress"
	StatusResolved          ComplaintStatus = "resolved"
	StatusClosed            ComplaintStatus = "closed"
)

// Valid 状态合法性检查
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusPendingModeration, StatusRejected, StatusNew,
		StatusViewed, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Terminal 是否为终态
func (s ComplaintStatus) Terminal() bool {
	switch s {
	case StatusResolved, StatusClosed, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo 机构侧状态流转规则
// 机构代表只能在已审核通过的投诉上推进 viewed / in_progress / resolved / closed
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case StatusViewed:
		return s == StatusNew
	case StatusInProgress:
		return s == StatusNew || s == StatusViewed
	case StatusResolved, StatusClosed:
		return s == StatusNew || s == StatusViewed || s == StatusInProgress
	}
	return false
}

// ── 投诉类型 ──

// ComplaintType 投诉类型（闭合枚举）
type ComplaintType string

const (
	TypeCrime          ComplaintType = "crime"
	TypeReligion       ComplaintType = "religion"
	TypeHealth         ComplaintType = "health"
	TypeEducation      ComplaintType = "education"
	TypeTransportation ComplaintType = "transportation"
	TypeInfrastructure ComplaintType = "infrastructure"
	TypeEnvironment    ComplaintType = "environment"
	TypeSocialServices ComplaintType = "social_services"
	TypeOther          ComplaintType = "other"
)

// AllComplaintTypes 全部投诉类型（供公共 API 列举）
func AllComplaintTypes() []ComplaintType {
	return []ComplaintType{
		TypeCrime, TypeReligion, TypeHealth, TypeEducation,
		TypeTransportation, TypeInfrastructure, TypeEnvironment,
		TypeSocialServices, TypeOther,
	}
}

// Valid 类型合法性检查
func (t ComplaintType) Valid() bool {
	for _, v := range AllComplaintTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Complaint 投诉表 — 对应 complaints
type Complaint struct {
	ComplaintID     string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"complaint_id"`
	Title           string          `gorm:"type:varchar(200);not null"                           json:"title"`
	Description     string          `gorm:"type:text;not null"                                   json:"description"`
	Type            ComplaintType   `gorm:"type:varchar(30);not null"                            json:"type"`
	Category        string          `gorm:"type:varchar(100);not null;default:''"                json:"category"`
	Status          ComplaintStatus `gorm:"type:varchar(30);not null;default:'pending_moderation'" json:"status"`
	IsAnonymous     bool            `gorm:"not null;default:false"                               json:"is_anonymous"`
	IsApproved      bool            `gorm:"not null;default:false"                               json:"is_approved"`
	RejectionReason *string         `gorm:"type:text"                                            json:"rejection_reason,omitempty"`
	Location        string          `gorm:"type:varchar(255)"                                    json:"location,omitempty"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	UserID          string          `gorm:"type:uuid;not null"                                   json:"user_id"`
	InstitutionID   string          `gorm:"type:uuid;not null"                                   json:"institution_id"`
	VersionedModel

	// 关联
	User        *User             `gorm:"foreignKey:UserID;references:UserID"               json:"user,omitempty"`
	Institution *Institution      `gorm:"foreignKey:InstitutionID;references:InstitutionID" json:"institution,omitempty"`
	MediaFiles  []Media           `gorm:"foreignKey:ComplaintID;references:ComplaintID"     json:"media_files,omitempty"`
	Updates     []ComplaintUpdate `gorm:"foreignKey:ComplaintID;references:ComplaintID"     json:"updates,omitempty"`
}

// TableName 指定表名
func (Complaint) TableName() string { return "complaints" }
