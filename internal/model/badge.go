package model

// ── 勋章标准 ──

// BadgeCriteria 勋章获取标准（闭合枚举，每个变体对应一个独立求值器）
type BadgeCriteria string

const (
	CriteriaComplaintSubmitted BadgeCriteria = "complaint_submitted"
	CriteriaComplaintResolved  BadgeCriteria = "complaint_resolved"
	CriteriaMediaUploaded      BadgeCriteria = "media_uploaded"
	CriteriaQuickResolution    BadgeCriteria = "quick_resolution"
)

// Valid 标准合法性检查
// 目录数据在写入（种子/管理）时校验，求值阶段遇到非法值直接报错而非静默跳过
func (c BadgeCriteria) Valid() bool {
	switch c {
	case CriteriaComplaintSubmitted, CriteriaComplaintResolved,
		CriteriaMediaUploaded, CriteriaQuickResolution:
		return true
	}
	return false
}

// Badge 勋章目录表 — 对应 badges（静态参考数据）
type Badge struct {
	BadgeID       string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"badge_id"`
	Name          string        `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Description   string        `gorm:"type:varchar(255);not null;default:''"          json:"description"`
	IconClass     string        `gorm:"type:varchar(50);not null;default:'bi-award'"   json:"icon_class"`
	CriteriaType  BadgeCriteria `gorm:"type:varchar(30);not null"                      json:"criteria_type"`
	RequiredCount int           `gorm:"not null;default:1"                             json:"required_count"`
}

// TableName 指定表名
func (Badge) TableName() string { return "badges" }

// Points 获得该勋章时计入声望的分值
// complaint_submitted: 要求数×5；complaint_resolved: 要求数×10；
// media_uploaded: 要求数×3；quick_resolution: 固定 25；历史遗留未知值固定 10
func (b *Badge) Points() int {
	switch b.CriteriaType {
	case CriteriaComplaintSubmitted:
		return b.RequiredCount * 5
	case CriteriaComplaintResolved:
		return b.RequiredCount * 10
	case CriteriaMediaUploaded:
		return b.RequiredCount * 3
	case CriteriaQuickResolution:
		return 25
	default:
		return 10
	}
}
