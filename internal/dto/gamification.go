package dto

// ── 激励模块 DTO ──

// BadgeResponse 徽章信息响应
type BadgeResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	IconClass     string `json:"icon_class,omitempty"`
	Criteria      string `json:"criteria"`
	RequiredCount int    `json:"required_count"`
	Points        int    `json:"points"`
}

// UserBadgeResponse 用户已获徽章响应
type UserBadgeResponse struct {
	Badge    BadgeResponse `json:"badge"`
	EarnedAt string        `json:"earned_at"`
}

// AchievementsResponse 成就总览响应
type AchievementsResponse struct {
	ReputationScore int                 `json:"reputation_score"`
	Level           string              `json:"level"`
	NextLevelScore  *int                `json:"next_level_score,omitempty"`
	Badges          []UserBadgeResponse `json:"badges"`
	Progress        []BadgeProgress     `json:"progress"`
}

// BadgeProgress 未获徽章的进度
type BadgeProgress struct {
	Badge        BadgeResponse `json:"badge"`
	CurrentCount int64         `json:"current_count"`
}
