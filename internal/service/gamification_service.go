package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
)

var ErrInvalidBadgeCriteria = errors.New("勋章标准非法")

// 快速解决窗口：提交到解决不超过 3 天
const quickResolutionWindow = 72 * time.Hour

// ── 声望计分 ──
// 声望为全量重算：不做增量累加，保证任何入口触发都收敛到同一结果
const (
	pointsPerSubmitted = 5
	pointsPerResolved  = 20
	pointsPerMedia     = 3
	pointsPerWarning   = 20
)

// GamificationService 激励系统业务接口
type GamificationService interface {
	// CheckAndAwardBadges 检查并授予达标勋章，随后重算声望与等级
	CheckAndAwardBadges(ctx context.Context, userID string) ([]model.Badge, error)
	// CalculateReputationScore 按计分规则全量重算声望（不落库）
	CalculateReputationScore(ctx context.Context, userID string) (int, error)
	// RefreshReputation 重算声望并持久化分数与等级
	RefreshReputation(ctx context.Context, userID string) error
	GetAchievements(ctx context.Context, userID string) (*dto.AchievementsResponse, error)
	ListBadges(ctx context.Context) ([]dto.BadgeResponse, error)
}

type gamificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGamificationService 创建 GamificationService 实例
func NewGamificationService(repo *repository.Repository, logger *zap.Logger) GamificationService {
	return &gamificationService{repo: repo, logger: logger}
}

// criteriaCount 按勋章标准统计用户当前计数
// 目录中出现非法标准视为数据错误，直接报错而非静默跳过
func (s *gamificationService) criteriaCount(ctx context.Context, userID string, criteria model.BadgeCriteria) (int64, error) {
	switch criteria {
	case model.CriteriaComplaintSubmitted:
		return s.repo.Complaint.CountByUser(ctx, userID)
	case model.CriteriaComplaintResolved:
		return s.repo.Complaint.CountResolvedByUser(ctx, userID)
	case model.CriteriaMediaUploaded:
		return s.repo.Complaint.CountWithMediaByUser(ctx, userID)
	case model.CriteriaQuickResolution:
		return s.repo.Complaint.CountQuickResolvedByUser(ctx, userID, quickResolutionWindow)
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidBadgeCriteria, criteria)
}

func (s *gamificationService) CheckAndAwardBadges(ctx context.Context, userID string) ([]model.Badge, error) {
	badges, err := s.repo.Badge.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询勋章目录失败", zap.Error(err))
		return nil, err
	}

	var awarded []model.Badge
	for i := range badges {
		badge := badges[i]

		count, err := s.criteriaCount(ctx, userID, badge.CriteriaType)
		if err != nil {
			return nil, err
		}
		if count < int64(badge.RequiredCount) {
			continue
		}

		has, err := s.repo.Badge.HasBadge(ctx, userID, badge.BadgeID)
		if err != nil {
			s.logger.Error("查询用户勋章失败", zap.Error(err))
			return nil, err
		}
		if has {
			continue
		}

		if err := s.repo.Badge.AwardToUser(ctx, &model.UserBadge{
			UserID:  userID,
			BadgeID: badge.BadgeID,
		}); err != nil {
			// 并发触发下唯一约束可能拦截重复授予，视作已授予
			s.logger.Warn("授予勋章失败",
				zap.String("user_id", userID),
				zap.String("badge", badge.Name),
				zap.Error(err))
			continue
		}

		s.logger.Info("授予勋章",
			zap.String("user_id", userID),
			zap.String("badge", badge.Name))
		awarded = append(awarded, badge)
	}

	// 无论是否有新勋章都重算一次，保证分数收敛
	if err := s.RefreshReputation(ctx, userID); err != nil {
		return nil, err
	}
	return awarded, nil
}

func (s *gamificationService) CalculateReputationScore(ctx context.Context, userID string) (int, error) {
	submitted, err := s.repo.Complaint.CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	resolved, err := s.repo.Complaint.CountResolvedByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	withMedia, err := s.repo.Complaint.CountWithMediaByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	warnings, err := s.repo.Warning.CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	userBadges, err := s.repo.Badge.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	badgePoints := 0
	for i := range userBadges {
		if userBadges[i].Badge != nil {
			badgePoints += userBadges[i].Badge.Points()
		}
	}

	score := int(submitted)*pointsPerSubmitted +
		int(resolved)*pointsPerResolved +
		int(withMedia)*pointsPerMedia +
		badgePoints -
		int(warnings)*pointsPerWarning

	// 分数下限为 0
	if score < 0 {
		score = 0
	}
	return score, nil
}

func (s *gamificationService) RefreshReputation(ctx context.Context, userID string) error {
	score, err := s.CalculateReputationScore(ctx, userID)
	if err != nil {
		s.logger.Error("重算声望失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	newLevel := model.LevelForScore(score)
	if user.ReputationScore == score && user.Level == newLevel {
		return nil
	}

	if user.Level != newLevel {
		s.logger.Info("用户等级变更",
			zap.String("user_id", userID),
			zap.String("from", string(user.Level)),
			zap.String("to", string(newLevel)))
	}

	user.ReputationScore = score
	user.Level = newLevel
	return s.repo.User.Update(ctx, user)
}

func (s *gamificationService) GetAchievements(ctx context.Context, userID string) (*dto.AchievementsResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	userBadges, err := s.repo.Badge.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	earned := make(map[string]bool, len(userBadges))

	resp := &dto.AchievementsResponse{
		ReputationScore: user.ReputationScore,
		Level:           string(user.Level),
		NextLevelScore:  nextLevelScore(user.ReputationScore),
		Badges:          []dto.UserBadgeResponse{},
		Progress:        []dto.BadgeProgress{},
	}

	for i := range userBadges {
		ub := userBadges[i]
		if ub.Badge == nil {
			continue
		}
		earned[ub.BadgeID] = true
		resp.Badges = append(resp.Badges, dto.UserBadgeResponse{
			Badge:    toBadgeResponse(ub.Badge),
			EarnedAt: ub.EarnedAt.Format(time.RFC3339),
		})
	}

	// 未获得勋章的进度
	badges, err := s.repo.Badge.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range badges {
		badge := badges[i]
		if earned[badge.BadgeID] {
			continue
		}
		count, err := s.criteriaCount(ctx, userID, badge.CriteriaType)
		if err != nil {
			return nil, err
		}
		resp.Progress = append(resp.Progress, dto.BadgeProgress{
			Badge:        toBadgeResponse(&badge),
			CurrentCount: count,
		})
	}

	return resp, nil
}

func (s *gamificationService) ListBadges(ctx context.Context) ([]dto.BadgeResponse, error) {
	badges, err := s.repo.Badge.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.BadgeResponse, 0, len(badges))
	for i := range badges {
		resp = append(resp, toBadgeResponse(&badges[i]))
	}
	return resp, nil
}

// nextLevelScore 距下一等级所需分数阈值；已达最高等级返回 nil
func nextLevelScore(score int) *int {
	thresholds := []int{50, 100, 200, 500}
	for _, t := range thresholds {
		if score < t {
			v := t
			return &v
		}
	}
	return nil
}
