package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// PartnerRepository 往来单位仓库
type PartnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// FindAll 查询往来单位列表
func (r *PartnerRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Partner, int64, error) {
	var items []entity.Partner
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Partner{}).Where("tenant_id = ?", tenantID)

	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ? OR short_name ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if partnerType := filters["type"]; partnerType != "" {
		query = query.Where("type = ?", partnerType)
	}
	if active := filters["is_active"]; active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

// FindByID 根据ID查找往来单位
func (r *PartnerRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Partner, error) {
	var partner entity.Partner
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// FindByCode 根据编码查找往来单位
func (r *PartnerRepository) FindByCode(ctx context.Context, tenantID, code string) (*entity.Partner, error) {
	var partner entity.Partner
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// ExistsByCode 编码是否已存在
func (r *PartnerRepository) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Partner{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

// Create 创建往来单位
func (r *PartnerRepository) Create(ctx context.Context, partner *entity.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

// Update 更新往来单位
func (r *PartnerRepository) Update(ctx context.Context, partner *entity.Partner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

// Delete 删除往来单位
func (r *PartnerRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entity.Partner{}).Error
}
