package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/model"
)

// MonthlyRow 月度投诉量行
type MonthlyRow struct {
	Month string
	Count int64
}

// InstitutionRow 机构维度报表行
type InstitutionRow struct {
	InstitutionName string
	Total           int64
	Resolved        int64
	AvgResolveDays  float64
}

// CategoryRow 类别统计行
type CategoryRow struct {
	Category string
	Count    int64
}

// TopCitizenRow 活跃市民榜行
type TopCitizenRow struct {
	UserID          string
	FullName        string
	ComplaintCount  int64
	ReputationScore int
	Level           string
}

// StatsRepository 统计报表聚合查询接口
type StatsRepository interface {
	MonthlyComplaints(ctx context.Context, start, end *time.Time) ([]MonthlyRow, error)
	InstitutionPerformance(ctx context.Context, start, end *time.Time) ([]InstitutionRow, error)
	CategoryDistribution(ctx context.Context, start, end *time.Time) ([]CategoryRow, error)
	TopCitizens(ctx context.Context, limit int) ([]TopCitizenRow, error)
}

// statsRepo StatsRepository 的 GORM 实现
type statsRepo struct {
	db *gorm.DB
}

// NewStatsRepo 创建 StatsRepository 实例
func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db: db}
}

func rangeScope(db *gorm.DB, col string, start, end *time.Time) *gorm.DB {
	if start != nil {
		db = db.Where(col+" >= ?", *start)
	}
	if end != nil {
		db = db.Where(col+" < ?", *end)
	}
	return db
}

func (r *statsRepo) MonthlyComplaints(ctx context.Context, start, end *time.Time) ([]MonthlyRow, error) {
	var rows []MonthlyRow
	db := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Select("to_char(created_at, 'YYYY-MM') AS month, COUNT(*) AS count").
		Group("month").
		Order("month ASC")
	db = rangeScope(db, "created_at", start, end)
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *statsRepo) InstitutionPerformance(ctx context.Context, start, end *time.Time) ([]InstitutionRow, error) {
	var rows []InstitutionRow
	db := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Select(`institutions.name AS institution_name,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE complaints.status = 'resolved') AS resolved,
			COALESCE(AVG(EXTRACT(EPOCH FROM complaints.resolved_at - complaints.created_at) / 86400)
				FILTER (WHERE complaints.resolved_at IS NOT NULL), 0) AS avg_resolve_days`).
		Joins("JOIN institutions ON institutions.institution_id = complaints.institution_id").
		Group("institutions.name").
		Order("total DESC")
	db = rangeScope(db, "complaints.created_at", start, end)
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *statsRepo) CategoryDistribution(ctx context.Context, start, end *time.Time) ([]CategoryRow, error) {
	var rows []CategoryRow
	db := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Select("type AS category, COUNT(*) AS count").
		Group("type").
		Order("count DESC")
	db = rangeScope(db, "created_at", start, end)
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *statsRepo) TopCitizens(ctx context.Context, limit int) ([]TopCitizenRow, error) {
	var rows []TopCitizenRow
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select(`users.user_id,
			users.full_name,
			COUNT(complaints.complaint_id) AS complaint_count,
			users.reputation_score,
			users.level`).
		Joins("LEFT JOIN complaints ON complaints.user_id = users.user_id AND complaints.is_approved = TRUE").
		Where("users.role = ?", model.RoleCitizen).
		Group("users.user_id").
		Order("users.reputation_score DESC, complaint_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
