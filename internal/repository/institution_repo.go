package repository

import (
	"context"

	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/model"
)

// InstitutionFilter 机构目录过滤条件
type InstitutionFilter struct {
	City    string
	Type    string
	Keyword string
}

// InstitutionRepository 机构数据访问接口
type InstitutionRepository interface {
	Create(ctx context.Context, inst *model.Institution) error
	GetByID(ctx context.Context, id string) (*model.Institution, error)
	GetByCode(ctx context.Context, code string) (*model.Institution, error)
	Update(ctx context.Context, inst *model.Institution) error
	List(ctx context.Context, filter InstitutionFilter, offset, limit int) ([]model.Institution, int64, error)
	Count(ctx context.Context) (int64, error)
}

// institutionRepo InstitutionRepository 的 GORM 实现
type institutionRepo struct {
	db *gorm.DB
}

// NewInstitutionRepo 创建 InstitutionRepository 实例
func NewInstitutionRepo(db *gorm.DB) InstitutionRepository {
	return &institutionRepo{db: db}
}

func (r *institutionRepo) Create(ctx context.Context, inst *model.Institution) error {
	return r.db.WithContext(ctx).Create(inst).Error
}

func (r *institutionRepo) GetByID(ctx context.Context, id string) (*model.Institution, error) {
	var inst model.Institution
	err := r.db.WithContext(ctx).
		Where("institution_id = ?", id).
		First(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *institutionRepo) GetByCode(ctx context.Context, code string) (*model.Institution, error) {
	var inst model.Institution
	err := r.db.WithContext(ctx).
		Where("institution_code = ?", code).
		First(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *institutionRepo) Update(ctx context.Context, inst *model.Institution) error {
	return r.db.WithContext(ctx).Save(inst).Error
}

func (r *institutionRepo) List(ctx context.Context, filter InstitutionFilter, offset, limit int) ([]model.Institution, int64, error) {
	var insts []model.Institution
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Institution{})

	if filter.City != "" {
		db = db.Where("address ILIKE ?", "%"+filter.City+"%")
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.Keyword != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Keyword+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&insts).Error; err != nil {
		return nil, 0, err
	}

	return insts, total, nil
}

func (r *institutionRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Institution{}).Count(&total).Error
	return total, err
}
