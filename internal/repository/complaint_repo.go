package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/model"
	pkgerrors "kamu-koprusu/backend/pkg/errors"
)

// ComplaintFilter 投诉列表过滤条件
type ComplaintFilter struct {
	Status        model.ComplaintStatus
	Type          model.ComplaintType
	Category      string
	Keyword       string
	UserID        string
	InstitutionID string
	StartDate     *time.Time
	EndDate       *time.Time
	ApprovedOnly  bool
}

// ComplaintRepository 投诉数据访问接口
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	GetByID(ctx context.Context, id string) (*model.Complaint, error)
	Update(ctx context.Context, complaint *model.Complaint) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ComplaintFilter, offset, limit int) ([]model.Complaint, int64, error)

	// ── 激励系统计数 ──
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountResolvedByUser(ctx context.Context, userID string) (int64, error)
	CountWithMediaByUser(ctx context.Context, userID string) (int64, error)
	CountQuickResolvedByUser(ctx context.Context, userID string, window time.Duration) (int64, error)

	// ── 面板统计 ──
	CountByInstitution(ctx context.Context, institutionID string) (total, resolved int64, err error)
	CountTotal(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByType(ctx context.Context) (map[string]int64, error)
}

// complaintRepo ComplaintRepository 的 GORM 实现
type complaintRepo struct {
	db *gorm.DB
}

// NewComplaintRepo 创建 ComplaintRepository 实例
func NewComplaintRepo(db *gorm.DB) ComplaintRepository {
	return &complaintRepo{db: db}
}

func (r *complaintRepo) Create(ctx context.Context, complaint *model.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *complaintRepo) GetByID(ctx context.Context, id string) (*model.Complaint, error) {
	var complaint model.Complaint
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Institution").
		Preload("MediaFiles").
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Updates.UpdatedBy").
		Where("complaint_id = ?", id).
		First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// Update 乐观锁更新：版本不匹配返回 ErrOptimisticLock
func (r *complaintRepo) Update(ctx context.Context, complaint *model.Complaint) error {
	oldVersion := complaint.Version
	result := r.db.WithContext(ctx).
		Model(complaint).
		Where("complaint_id = ? AND version = ?", complaint.ComplaintID, oldVersion).
		Updates(map[string]interface{}{
			"title":            complaint.Title,
			"description":      complaint.Description,
			"category":         complaint.Category,
			"status":           complaint.Status,
			"is_approved":      complaint.IsApproved,
			"rejection_reason": complaint.RejectionReason,
			"location":         complaint.Location,
			"latitude":         complaint.Latitude,
			"longitude":        complaint.Longitude,
			"resolved_at":      complaint.ResolvedAt,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	complaint.Version = oldVersion + 1
	return nil
}

func (r *complaintRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("complaint_id = ?", id).
		Delete(&model.Complaint{}).Error
}

func (r *complaintRepo) List(ctx context.Context, filter ComplaintFilter, offset, limit int) ([]model.Complaint, int64, error) {
	var complaints []model.Complaint
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Complaint{})

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ?", kw, kw)
	}
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.InstitutionID != "" {
		db = db.Where("institution_id = ?", filter.InstitutionID)
	}
	if filter.StartDate != nil {
		db = db.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("created_at < ?", *filter.EndDate)
	}
	if filter.ApprovedOnly {
		db = db.Where("is_approved = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Preload("Institution").
		Preload("MediaFiles").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&complaints).Error; err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

// ── 激励系统计数 ──
// 提交类计数覆盖用户全部投诉，提交即计入

func (r *complaintRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

func (r *complaintRepo) CountResolvedByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("user_id = ? AND status = ?", userID, model.StatusResolved).
		Count(&total).Error
	return total, err
}

func (r *complaintRepo) CountWithMediaByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("user_id = ?", userID).
		Where("EXISTS (SELECT 1 FROM media WHERE media.complaint_id = complaints.complaint_id)").
		Count(&total).Error
	return total, err
}

func (r *complaintRepo) CountQuickResolvedByUser(ctx context.Context, userID string, window time.Duration) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("user_id = ? AND status = ?", userID, model.StatusResolved).
		Where("resolved_at IS NOT NULL AND EXTRACT(EPOCH FROM (resolved_at - created_at)) <= ?", window.Seconds()).
		Count(&total).Error
	return total, err
}

// ── 面板统计 ──

func (r *complaintRepo) CountByInstitution(ctx context.Context, institutionID string) (total, resolved int64, err error) {
	err = r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("institution_id = ? AND is_approved = ?", institutionID, true).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("institution_id = ? AND status = ?", institutionID, model.StatusResolved).
		Count(&resolved).Error
	if err != nil {
		return 0, 0, err
	}
	return total, resolved, nil
}

func (r *complaintRepo) CountTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).Count(&total).Error
	return total, err
}

type statusCount struct {
	Status string
	Count  int64
}

func (r *complaintRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

type typeCount struct {
	Type  string
	Count int64
}

func (r *complaintRepo) CountByType(ctx context.Context) (map[string]int64, error) {
	var rows []typeCount
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Type] = row.Count
	}
	return result, nil
}
