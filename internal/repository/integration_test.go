//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
	pkgerrors "kamu-koprusu/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=kamu_koprusu password=kamu_koprusu_password dbname=kamu_koprusu_test sslmode=disable TimeZone=Europe/Istanbul"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.Institution{},
		&model.User{},
		&model.Profile{},
		&model.Complaint{},
		&model.ComplaintUpdate{},
		&model.Media{},
		&model.Warning{},
		&model.BannedUser{},
		&model.Badge{},
		&model.UserBadge{},
		&model.AuditLog{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (inst *model.Institution, user *model.User, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	inst = &model.Institution{
		Name:            fmt.Sprintf("测试机构-%d", time.Now().UnixNano()),
		Type:            "municipality",
		InstitutionCode: fmt.Sprintf("TK-%d", time.Now().UnixNano()),
	}
	if err := testDB.WithContext(ctx).Create(inst).Error; err != nil {
		t.Fatalf("创建机构失败: %v", err)
	}

	user = &model.User{
		FullName:     "测试市民",
		Email:        fmt.Sprintf("test%d@example.com", time.Now().UnixNano()),
		Phone:        "05321234567",
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleCitizen,
		IsApproved:   true,
	}
	if err := testDB.WithContext(ctx).Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	cleanup = func() {
		testDB.Unscoped().Where("user_id = ?", user.UserID).Delete(&model.Complaint{})
		testDB.Unscoped().Where("user_id = ?", user.UserID).Delete(&model.User{})
		testDB.Unscoped().Where("institution_id = ?", inst.InstitutionID).Delete(&model.Institution{})
	}
	return
}

// newComplaint 生成归属于 user/inst 的投诉实体（不落库）
func newComplaint(user *model.User, inst *model.Institution, status model.ComplaintStatus) *model.Complaint {
	return &model.Complaint{
		Title:         "集成测试投诉标题",
		Description:   "集成测试投诉描述，内容长度满足业务校验要求。",
		Type:          model.TypeInfrastructure,
		Status:        status,
		UserID:        user.UserID,
		InstitutionID: inst.InstitutionID,
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_RollsBackOnError(t *testing.T) {
	inst, user, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	var complaintID string
	sentinel := errors.New("abort")
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		c := newComplaint(user, inst, model.StatusPendingModeration)
		if err := txRepo.Complaint.Create(ctx, c); err != nil {
			return err
		}
		complaintID = c.ComplaintID
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("期望事务返回触发回滚的错误，实际: %v", err)
	}

	// 验证数据未持久化
	if _, err := repo.Complaint.GetByID(ctx, complaintID); err == nil {
		testDB.Unscoped().Where("complaint_id = ?", complaintID).Delete(&model.Complaint{})
		t.Fatal("期望回滚后查不到投诉，但实际查到了")
	}
}

func TestTransaction_CommitPersists(t *testing.T) {
	inst, user, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	var complaintID string
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		c := newComplaint(user, inst, model.StatusPendingModeration)
		if err := txRepo.Complaint.Create(ctx, c); err != nil {
			return err
		}
		complaintID = c.ComplaintID
		return nil
	})
	if err != nil {
		t.Fatalf("事务应成功提交: %v", err)
	}
	defer testDB.Unscoped().Where("complaint_id = ?", complaintID).Delete(&model.Complaint{})

	found, err := repo.Complaint.GetByID(ctx, complaintID)
	if err != nil {
		t.Fatalf("提交后查询投诉失败: %v", err)
	}
	if found.ComplaintID != complaintID {
		t.Errorf("ID 不匹配: expected %s, got %s", complaintID, found.ComplaintID)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_Complaint_ConflictDetected(t *testing.T) {
	inst, user, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	c := newComplaint(user, inst, model.StatusNew)
	c.IsApproved = true
	if err := repo.Complaint.Create(ctx, c); err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}
	defer testDB.Unscoped().Where("complaint_id = ?", c.ComplaintID).Delete(&model.Complaint{})

	// 模拟并发：获取两份副本
	copy1, _ := repo.Complaint.GetByID(ctx, c.ComplaintID)
	copy2, _ := repo.Complaint.GetByID(ctx, c.ComplaintID)

	// 第一次更新成功
	copy1.Status = model.StatusViewed
	if err := repo.Complaint.Update(ctx, copy1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	// 第二次更新应失败（version 已过期）
	copy2.Status = model.StatusInProgress
	err := repo.Complaint.Update(ctx, copy2)
	if err == nil {
		t.Fatal("期望乐观锁冲突错误，但更新成功了")
	}
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}

	// 首次更新后 version 应递增
	latest, _ := repo.Complaint.GetByID(ctx, c.ComplaintID)
	if latest.Version != copy1.Version {
		t.Errorf("期望version=%d，实际=%d", copy1.Version, latest.Version)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: BannedUser Snapshot Predicate
// ═══════════════════════════════════════════════════════════

func TestBannedUserRepo_ExistsByEmailOrPhone(t *testing.T) {
	_, user, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	ban := &model.BannedUser{
		UserID:         user.UserID,
		BannedByUserID: user.UserID,
		Reason:         "集成测试封禁",
		IsPermanent:    true,
		BannedEmail:    user.Email,
		BannedPhone:    user.Phone,
	}
	if err := repo.BannedUser.Create(ctx, ban); err != nil {
		t.Fatalf("创建封禁记录失败: %v", err)
	}
	defer testDB.Unscoped().Where("ban_id = ?", ban.BanID).Delete(&model.BannedUser{})

	// 邮箱命中
	hit, err := repo.BannedUser.ExistsByEmailOrPhone(ctx, user.Email, "")
	if err != nil {
		t.Fatalf("ExistsByEmailOrPhone 失败: %v", err)
	}
	if !hit {
		t.Error("永久封禁的邮箱应命中快照")
	}

	// 手机号命中（换一个邮箱）
	hit, err = repo.BannedUser.ExistsByEmailOrPhone(ctx, "other@example.com", user.Phone)
	if err != nil {
		t.Fatalf("ExistsByEmailOrPhone 失败: %v", err)
	}
	if !hit {
		t.Error("永久封禁的手机号应命中快照")
	}

	// 标记解禁后不再命中
	if err := repo.BannedUser.MarkUnbanned(ctx, user.UserID, time.Now()); err != nil {
		t.Fatalf("MarkUnbanned 失败: %v", err)
	}
	hit, err = repo.BannedUser.ExistsByEmailOrPhone(ctx, user.Email, user.Phone)
	if err != nil {
		t.Fatalf("ExistsByEmailOrPhone 失败: %v", err)
	}
	if hit {
		t.Error("已解禁的凭据不应命中快照")
	}
}

func TestBannedUserRepo_ExistsByEmailOrPhone_ExpiredTempBan(t *testing.T) {
	_, user, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	expired := time.Now().Add(-24 * time.Hour)
	ban := &model.BannedUser{
		UserID:         user.UserID,
		BannedByUserID: user.UserID,
		Reason:         "集成测试过期临时封禁",
		IsPermanent:    false,
		BanExpiresAt:   &expired,
		BannedEmail:    user.Email,
		BannedPhone:    user.Phone,
	}
	if err := repo.BannedUser.Create(ctx, ban); err != nil {
		t.Fatalf("创建封禁记录失败: %v", err)
	}
	defer testDB.Unscoped().Where("ban_id = ?", ban.BanID).Delete(&model.BannedUser{})

	hit, err := repo.BannedUser.ExistsByEmailOrPhone(ctx, user.Email, user.Phone)
	if err != nil {
		t.Fatalf("ExistsByEmailOrPhone 失败: %v", err)
	}
	if hit {
		t.Error("已过期的临时封禁不应阻止重新注册")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Gamification Counts
// ═══════════════════════════════════════════════════════════

func TestComplaintRepo_CountByUser_IncludesPending(t *testing.T) {
	inst, user, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// 一条待审核、一条已通过：提交计数应为 2
	pending := newComplaint(user, inst, model.StatusPendingModeration)
	if err := repo.Complaint.Create(ctx, pending); err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}
	approved := newComplaint(user, inst, model.StatusNew)
	approved.IsApproved = true
	if err := repo.Complaint.Create(ctx, approved); err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}

	total, err := repo.Complaint.CountByUser(ctx, user.UserID)
	if err != nil {
		t.Fatalf("CountByUser 失败: %v", err)
	}
	if total != 2 {
		t.Errorf("提交计数应包含待审核投诉，期望total=2，实际=%d", total)
	}
}

func TestComplaintRepo_CountQuickResolvedByUser(t *testing.T) {
	inst, user, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	base := time.Now().Add(-10 * 24 * time.Hour)

	// 48 小时内解决：计入
	quick := newComplaint(user, inst, model.StatusResolved)
	quick.IsApproved = true
	quick.CreatedAt = base
	quickResolved := base.Add(48 * time.Hour)
	quick.ResolvedAt = &quickResolved
	if err := repo.Complaint.Create(ctx, quick); err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}

	// 到第 8 天才解决：不计入
	slow := newComplaint(user, inst, model.StatusResolved)
	slow.IsApproved = true
	slow.CreatedAt = base
	slowResolved := base.Add(8 * 24 * time.Hour)
	slow.ResolvedAt = &slowResolved
	if err := repo.Complaint.Create(ctx, slow); err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}

	total, err := repo.Complaint.CountQuickResolvedByUser(ctx, user.UserID, 72*time.Hour)
	if err != nil {
		t.Fatalf("CountQuickResolvedByUser 失败: %v", err)
	}
	if total != 1 {
		t.Errorf("期望total=1，实际=%d", total)
	}
}
