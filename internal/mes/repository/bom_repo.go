package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// BomRepository BOM仓库
type BomRepository struct {
	db *gorm.DB
}

func NewBomRepository(db *gorm.DB) *BomRepository {
	return &BomRepository{db: db}
}

// FindAll 查询BOM列表
func (r *BomRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Bom, int64, error) {
	var items []entity.Bom
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bom{}).Where("tenant_id = ?", tenantID)

	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if productID := filters["product_id"]; productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	if active := filters["is_active"]; active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("code ASC, version DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

// FindByID 根据ID查找BOM，带行项
func (r *BomRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Bom, error) {
	var bom entity.Bom
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Details.Component").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&bom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bom, nil
}

// FindByCodeVersion 根据 (code, version) 查找BOM
func (r *BomRepository) FindByCodeVersion(ctx context.Context, tenantID, code, version string) (*entity.Bom, error) {
	var bom entity.Bom
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("tenant_id = ? AND code = ? AND version = ?", tenantID, code, version).
		First(&bom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bom, nil
}

// ExistsByCodeVersion (code, version) 是否已存在
func (r *BomRepository) ExistsByCodeVersion(ctx context.Context, tenantID, code, version string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Bom{}).
		Where("tenant_id = ? AND code = ? AND version = ?", tenantID, code, version).
		Count(&count).Error
	return count > 0, err
}

// ListVersions 同一code下的全部版本
func (r *BomRepository) ListVersions(ctx context.Context, tenantID, code string) ([]entity.Bom, error) {
	var boms []entity.Bom
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Order("created_at DESC").
		Find(&boms).Error
	return boms, err
}

// Create 创建BOM，行项随头级联写入
func (r *BomRepository) Create(ctx context.Context, bom *entity.Bom) error {
	return r.db.WithContext(ctx).Create(bom).Error
}

// Update 更新BOM头
func (r *BomRepository) Update(ctx context.Context, bom *entity.Bom) error {
	return r.db.WithContext(ctx).Omit("Details").Save(bom).Error
}

// Delete 删除BOM及其行项
func (r *BomRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bom_id = ?", id).Delete(&entity.BomDetail{}).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&entity.Bom{}).Error
	})
}

// MaxDetailSequence 当前最大行序号
func (r *BomRepository) MaxDetailSequence(ctx context.Context, bomID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&entity.BomDetail{}).
		Where("bom_id = ?", bomID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&max).Error
	return max, err
}

// CreateDetail 创建行项
func (r *BomRepository) CreateDetail(ctx context.Context, detail *entity.BomDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

// DeleteDetail 删除行项
func (r *BomRepository) DeleteDetail(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.BomDetail{}).Error
}
