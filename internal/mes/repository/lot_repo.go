package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// LotRepository 批次仓库
type LotRepository struct {
	db *gorm.DB
}

func NewLotRepository(db *gorm.DB) *LotRepository {
	return &LotRepository{db: db}
}

// FindAll 查询批次列表
func (r *LotRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Lot, int64, error) {
	var items []entity.Lot
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Lot{}).Where("tenant_id = ?", tenantID)

	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ?", "%"+search+"%")
	}
	if productID := filters["product_id"]; productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	if workOrderID := filters["work_order_id"]; workOrderID != "" {
		query = query.Where("work_order_id = ?", workOrderID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Product").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

// FindByID 根据ID查找批次
func (r *LotRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Lot, error) {
	var lot entity.Lot
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&lot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByCode 根据编码查找批次
func (r *LotRepository) FindByCode(ctx context.Context, tenantID, code string) (*entity.Lot, error) {
	var lot entity.Lot
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&lot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// ExistsByCode 编码是否已存在
func (r *LotRepository) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Lot{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

// FindChildren 查找子批次
func (r *LotRepository) FindChildren(ctx context.Context, tenantID, parentLotID string) ([]entity.Lot, error) {
	var lots []entity.Lot
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND parent_lot_id = ?", tenantID, parentLotID).
		Order("created_at ASC").
		Find(&lots).Error
	return lots, err
}

// Create 创建批次
func (r *LotRepository) Create(ctx context.Context, lot *entity.Lot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

// Update 更新批次
func (r *LotRepository) Update(ctx context.Context, lot *entity.Lot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// Delete 删除批次
func (r *LotRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entity.Lot{}).Error
}
