package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// GaugeRepository 量检具仓库
type GaugeRepository struct {
	db *gorm.DB
}

func NewGaugeRepository(db *gorm.DB) *GaugeRepository {
	return &GaugeRepository{db: db}
}

// FindAll 查询量检具列表
func (r *GaugeRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Gauge, int64, error) {
	var items []entity.Gauge
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Gauge{}).Where("tenant_id = ?", tenantID)

	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if siteID := filters["site_id"]; siteID != "" {
		query = query.Where("site_id = ?", siteID)
	}
	if due := filters["calibration_due"]; due == "true" {
		query = query.Where("next_calibration_due IS NOT NULL AND next_calibration_due <= NOW()")
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

// FindByID 根据ID查找量检具，带校准记录
func (r *GaugeRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Gauge, error) {
	var gauge entity.Gauge
	err := r.db.WithContext(ctx).
		Preload("Calibrations", func(db *gorm.DB) *gorm.DB {
			return db.Order("calibrated_at DESC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&gauge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &gauge, nil
}

// ExistsByCode 编码是否已存在
func (r *GaugeRepository) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Gauge{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

// Create 创建量检具
func (r *GaugeRepository) Create(ctx context.Context, gauge *entity.Gauge) error {
	return r.db.WithContext(ctx).Create(gauge).Error
}

// Update 更新量检具
func (r *GaugeRepository) Update(ctx context.Context, gauge *entity.Gauge) error {
	return r.db.WithContext(ctx).Omit("Calibrations").Save(gauge).Error
}

// Delete 删除量检具及其校准记录
func (r *GaugeRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND gauge_id = ?", tenantID, id).
			Delete(&entity.GaugeCalibration{}).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&entity.Gauge{}).Error
	})
}
