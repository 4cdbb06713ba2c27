package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// RoutingRepository 工艺路线仓库
type RoutingRepository struct {
	db *gorm.DB
}

func NewRoutingRepository(db *gorm.DB) *RoutingRepository {
	return &RoutingRepository{db: db}
}

// FindAll 查询工艺路线列表
func (r *RoutingRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.ProcessRouting, int64, error) {
	var items []entity.ProcessRouting
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProcessRouting{}).Where("tenant_id = ?", tenantID)

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

// FindByID 根据ID查找工艺路线，带工序
func (r *RoutingRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.ProcessRouting, error) {
	var routing entity.ProcessRouting
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&routing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &routing, nil
}

// FindByCodeVersion 根据 (code, version) 查找工艺路线
func (r *RoutingRepository) FindByCodeVersion(ctx context.Context, tenantID, code, version string) (*entity.ProcessRouting, error) {
	var routing entity.ProcessRouting
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("tenant_id = ? AND code = ? AND version = ?", tenantID, code, version).
		First(&routing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &routing, nil
}

// ExistsByCodeVersion (code, version) 是否已存在
func (r *RoutingRepository) ExistsByCodeVersion(ctx context.Context, tenantID, code, version string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ProcessRouting{}).
		Where("tenant_id = ? AND code = ? AND version = ?", tenantID, code, version).
		Count(&count).Error
	return count > 0, err
}

// ListVersions 同一code下的全部版本
func (r *RoutingRepository) ListVersions(ctx context.Context, tenantID, code string) ([]entity.ProcessRouting, error) {
	var routings []entity.ProcessRouting
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Order("created_at DESC").
		Find(&routings).Error
	return routings, err
}

// Create 创建工艺路线，工序随头级联写入
func (r *RoutingRepository) Create(ctx context.Context, routing *entity.ProcessRouting) error {
	return r.db.WithContext(ctx).Create(routing).Error
}

// Update 更新工艺路线头
func (r *RoutingRepository) Update(ctx context.Context, routing *entity.ProcessRouting) error {
	return r.db.WithContext(ctx).Omit("Steps").Save(routing).Error
}

// Delete 删除工艺路线及其工序
func (r *RoutingRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("routing_id = ?", id).Delete(&entity.RoutingStep{}).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&entity.ProcessRouting{}).Error
	})
}

// MaxStepSequence 当前最大工序序号
func (r *RoutingRepository) MaxStepSequence(ctx context.Context, routingID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&entity.RoutingStep{}).
		Where("routing_id = ?", routingID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&max).Error
	return max, err
}

// CreateStep 创建工序
func (r *RoutingRepository) CreateStep(ctx context.Context, step *entity.RoutingStep) error {
	return r.db.WithContext(ctx).Create(step).Error
}

// DeleteStep 删除工序
func (r *RoutingRepository) DeleteStep(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.RoutingStep{}).Error
}
