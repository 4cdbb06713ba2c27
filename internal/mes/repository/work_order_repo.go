package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// WorkOrderRepository 工单仓库
type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// FindAll 查询工单列表
func (r *WorkOrderRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.WorkOrder, int64, error) {
	var items []entity.WorkOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.WorkOrder{}).Where("tenant_id = ?", tenantID)

	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ?", "%"+search+"%")
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if productID := filters["product_id"]; productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	if siteID := filters["site_id"]; siteID != "" {
		query = query.Where("site_id = ?", siteID)
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

// FindByID 根据ID查找工单
func (r *WorkOrderRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&wo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// FindByCode 根据编码查找工单
func (r *WorkOrderRepository) FindByCode(ctx context.Context, tenantID, code string) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&wo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// ExistsByCode 编码是否已存在
func (r *WorkOrderRepository) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.WorkOrder{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

// CountByStatus 按状态统计工单数
func (r *WorkOrderRepository) CountByStatus(ctx context.Context, tenantID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&entity.WorkOrder{}).
		Select("status, COUNT(*) as total").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// Create 创建工单
func (r *WorkOrderRepository) Create(ctx context.Context, wo *entity.WorkOrder) error {
	return r.db.WithContext(ctx).Create(wo).Error
}

// Update 更新工单
func (r *WorkOrderRepository) Update(ctx context.Context, wo *entity.WorkOrder) error {
	return r.db.WithContext(ctx).Omit("Product", "Results").Save(wo).Error
}

// Delete 删除工单
func (r *WorkOrderRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entity.WorkOrder{}).Error
}

// DB 返回底层db用于跨仓库事务
func (r *WorkOrderRepository) DB() *gorm.DB {
	return r.db
}
