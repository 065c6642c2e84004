package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kamu-koprusu/backend/config"
	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
)

// Seed 写入启动基础数据：管理员账号、勋章目录、机构目录
// 幂等：已存在的记录跳过，可安全重复执行
func Seed(ctx context.Context, cfg *config.SeedConfig, repo *repository.Repository, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	if err := seedAdmin(ctx, cfg, repo, logger); err != nil {
		return fmt.Errorf("初始化管理员失败: %w", err)
	}
	if err := seedBadges(ctx, repo, logger); err != nil {
		return fmt.Errorf("初始化勋章目录失败: %w", err)
	}
	if err := seedInstitutions(ctx, repo, logger); err != nil {
		return fmt.Errorf("初始化机构目录失败: %w", err)
	}
	return nil
}

func seedAdmin(ctx context.Context, cfg *config.SeedConfig, repo *repository.Repository, logger *zap.Logger) error {
	if _, err := repo.User.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		FullName:     "平台管理员",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsApproved:   true,
	}
	if err := repo.User.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("已创建管理员账号", zap.String("email", cfg.AdminEmail))
	return nil
}

// seedBadges 勋章目录
// 标准在写入前校验，防止求值阶段遇到非法标准
func seedBadges(ctx context.Context, repo *repository.Repository, logger *zap.Logger) error {
	badges := []model.Badge{
		{Name: "初次发声", Description: "提交第一条投诉", IconClass: "bi-megaphone", CriteriaType: model.CriteriaComplaintSubmitted, RequiredCount: 1},
		{Name: "积极市民", Description: "提交 3 条投诉", IconClass: "bi-person-check", CriteriaType: model.CriteriaComplaintSubmitted, RequiredCount: 3},
		{Name: "社区之声", Description: "提交 10 条投诉", IconClass: "bi-people", CriteriaType: model.CriteriaComplaintSubmitted, RequiredCount: 10},
		{Name: "城市守护者", Description: "提交 25 条投诉", IconClass: "bi-shield-check", CriteriaType: model.CriteriaComplaintSubmitted, RequiredCount: 25},
		{Name: "传奇市民", Description: "提交 50 条投诉", IconClass: "bi-trophy", CriteriaType: model.CriteriaComplaintSubmitted, RequiredCount: 50},
		{Name: "图文并茂", Description: "5 条投诉附带媒体证据", IconClass: "bi-camera", CriteriaType: model.CriteriaMediaUploaded, RequiredCount: 5},
		{Name: "高效解决", Description: "1 条投诉在 3 天内解决", IconClass: "bi-lightning", CriteriaType: model.CriteriaQuickResolution, RequiredCount: 1},
		{Name: "首个成果", Description: "第一条投诉被解决", IconClass: "bi-check-circle", CriteriaType: model.CriteriaComplaintResolved, RequiredCount: 1},
	}

	created := 0
	for i := range badges {
		badge := badges[i]
		if !badge.CriteriaType.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidBadgeCriteria, badge.CriteriaType)
		}

		if _, err := repo.Badge.GetByName(ctx, badge.Name); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := repo.Badge.Create(ctx, &badge); err != nil {
			return err
		}
		created++
	}

	if created > 0 {
		logger.Info("已写入勋章目录", zap.Int("created", created))
	}
	return nil
}

func seedInstitutions(ctx context.Context, repo *repository.Repository, logger *zap.Logger) error {
	institutions := []model.Institution{
		{Name: "Sağlık Bakanlığı", Type: "ministry", InstitutionCode: "SB-001", Address: "Ankara"},
		{Name: "Milli Eğitim Bakanlığı", Type: "ministry", InstitutionCode: "MEB-001", Address: "Ankara"},
		{Name: "Ulaştırma ve Altyapı Bakanlığı", Type: "ministry", InstitutionCode: "UAB-001", Address: "Ankara"},
		{Name: "Çevre ve Şehircilik Bakanlığı", Type: "ministry", InstitutionCode: "CSB-001", Address: "Ankara"},
		{Name: "İstanbul Büyükşehir Belediyesi", Type: "municipality", InstitutionCode: "IBB-001", Address: "İstanbul"},
	}

	created := 0
	for i := range institutions {
		inst := institutions[i]
		if _, err := repo.Institution.GetByCode(ctx, inst.InstitutionCode); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := repo.Institution.Create(ctx, &inst); err != nil {
			return err
		}
		created++
	}

	if created > 0 {
		logger.Info("已写入机构目录", zap.Int("created", created))
	}
	return nil
}
